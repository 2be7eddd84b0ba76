package console

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go-gin-user-console/pkg/utils"
)

var activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "console_sessions",
	Help: "Browser sessions currently held in memory",
})

func init() { prometheus.MustRegister(activeSessions) }

// Store 内存里的会话表；闲置超时的会话在访问时顺带清掉
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idle     time.Duration
	now      func() time.Time
}

// NewStore idle<=0 表示永不过期
func NewStore(idle time.Duration) *Store {
	return &Store{sessions: make(map[string]*Session), idle: idle, now: time.Now}
}

// Get 命中则刷新 lastSeen；已过期的视为不存在
func (st *Store) Get(sid string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[sid]
	if !ok {
		return nil, false
	}
	now := st.now()
	if st.expired(s, now) {
		delete(st.sessions, sid)
		activeSessions.Set(float64(len(st.sessions)))
		return nil, false
	}
	s.lastSeen = now
	return s, true
}

// Create 新建会话，同时清理过期会话
func (st *Store) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	for id, s := range st.sessions {
		if st.expired(s, now) {
			delete(st.sessions, id)
		}
	}
	s := newSession(utils.NewID(), now)
	st.sessions[s.id] = s
	activeSessions.Set(float64(len(st.sessions)))
	return s
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) expired(s *Session, now time.Time) bool {
	return st.idle > 0 && now.Sub(s.lastSeen) > st.idle
}
