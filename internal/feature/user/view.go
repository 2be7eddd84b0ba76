package user

import (
	"context"
	"fmt"

	"go-gin-user-console/internal/domain"
)

// Getter 详情页只需要按 id 读取
type Getter interface {
	Get(ctx context.Context, id domain.ID) (*domain.Record, error)
}

// View 只读详情；未加载和已加载是两个不同状态
type View struct {
	id  domain.ID
	rec *domain.Record
}

func NewView(id domain.ID) *View { return &View{id: id} }

// Load 失败时弹出提示，不重试
func (v *View) Load(ctx context.Context, api Getter, n Notifier) error {
	rec, err := api.Get(ctx, v.id)
	if err != nil {
		orDiscard(n).Notify(LevelError, "Error fetching user")
		return fmt.Errorf("fetch user %s: %w", v.id, err)
	}
	v.rec = rec
	return nil
}

func (v *View) ID() domain.ID { return v.id }

func (v *View) Loaded() bool { return v.rec != nil }

// Record 未加载时返回 nil
func (v *View) Record() *domain.Record { return v.rec }
