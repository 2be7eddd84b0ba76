package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-gin-user-console/internal/domain"
)

// ErrLoadFailed 列表页级别的读取失败
var ErrLoadFailed = errors.New("failed to fetch users")

const LoadFailedMessage = "Failed to fetch users"

// Lister 列表只需要读全集
type Lister interface {
	List(ctx context.Context) ([]domain.Record, error)
}

// List 持有全集（canonical）和过滤视图（filtered），两者始终同步
type List struct {
	all      []domain.Record
	filtered []domain.Record
	query    string // 已转小写

	started bool
	loading bool
	err     error
}

func NewList() *List { return &List{} }

// BeginLoad 只允许一次拉取；返回 false 表示已拉取过或正在拉取
func (l *List) BeginLoad() bool {
	if l.started {
		return false
	}
	l.started = true
	l.loading = true
	return true
}

// FinishLoad 无论成功失败都清掉 loading
func (l *List) FinishLoad(recs []domain.Record, err error) {
	l.loading = false
	if err != nil {
		l.err = fmt.Errorf("%w: %w", ErrLoadFailed, err)
		return
	}
	l.err = nil
	l.all = append([]domain.Record(nil), recs...)
	l.refilter()
}

// Load 单线程场景下的完整拉取流程
func (l *List) Load(ctx context.Context, api Lister) error {
	if !l.BeginLoad() {
		return l.err
	}
	recs, err := api.List(ctx)
	l.FinishLoad(recs, err)
	return l.err
}

func (l *List) SetFilter(query string) {
	l.query = strings.ToLower(query)
	l.refilter()
}

func (l *List) ApplyCreate(rec domain.Record) {
	l.all = append(l.all, rec)
	l.refilter()
}

// ApplyUpdate 按 id 原位替换
func (l *List) ApplyUpdate(rec domain.Record) {
	for i := range l.all {
		if l.all[i].ID == rec.ID {
			l.all[i] = rec
		}
	}
	l.refilter()
}

// ApplyDelete 幂等；重复删除是 no-op
func (l *List) ApplyDelete(id domain.ID) {
	kept := l.all[:0]
	for _, r := range l.all {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	l.all = kept
	l.refilter()
}

// Find 在全集里按 id 查
func (l *List) Find(id domain.ID) (domain.Record, bool) {
	for _, r := range l.all {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Record{}, false
}

func (l *List) Query() string   { return l.query }
func (l *List) Loading() bool   { return l.loading }
func (l *List) Loaded() bool    { return l.started && !l.loading }
func (l *List) Err() error      { return l.err }
func (l *List) Len() int        { return len(l.all) }
func (l *List) MatchCount() int { return len(l.filtered) }

func (l *List) Records() []domain.Record  { return append([]domain.Record(nil), l.all...) }
func (l *List) Filtered() []domain.Record { return append([]domain.Record(nil), l.filtered...) }

// 过滤视图总是从最新全集重新推导
func (l *List) refilter() {
	if l.query == "" {
		l.filtered = append(l.filtered[:0], l.all...)
		return
	}
	out := make([]domain.Record, 0, len(l.all))
	for _, r := range l.all {
		if strings.Contains(strings.ToLower(r.Name), l.query) {
			out = append(out, r)
		}
	}
	l.filtered = out
}
