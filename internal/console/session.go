package console

import (
	"sync"
	"time"

	"go-gin-user-console/internal/feature/user"
)

// Flash 一次性提示，渲染一次后清空
type Flash struct {
	Level user.Level
	Msg   string
}

// Session 一个浏览器对应一份状态：一个列表 + 至多一个打开的表单
type Session struct {
	id string

	mu    sync.Mutex // 串行化 list/form 的读写
	list  *user.List
	form  *user.Form
	query string // 原样保留，回显到搜索框

	fmu     sync.Mutex
	flashes []Flash

	lastSeen time.Time // 由 Store 维护
}

func newSession(id string, now time.Time) *Session {
	return &Session{id: id, list: user.NewList(), lastSeen: now}
}

func (s *Session) ID() string { return s.id }

// Notify 实现 user.Notifier；可在持有 mu 时调用
func (s *Session) Notify(level user.Level, msg string) {
	s.fmu.Lock()
	s.flashes = append(s.flashes, Flash{Level: level, Msg: msg})
	s.fmu.Unlock()
}

// TakeFlashes 取出并清空
func (s *Session) TakeFlashes() []Flash {
	s.fmu.Lock()
	defer s.fmu.Unlock()
	out := s.flashes
	s.flashes = nil
	return out
}
