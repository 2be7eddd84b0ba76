package console

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go-gin-user-console/internal/domain"
	"go-gin-user-console/internal/feature/user"
	"go-gin-user-console/pkg/utils"
)

// Service 把 feature/user 的控制器挂到会话上
type Service struct {
	api domain.UserAPI
	log *zap.Logger
}

func NewService(api domain.UserAPI, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{api: api, log: l}
}

// Target 表单目标：新建，或编辑某个 id
type Target struct {
	Mode user.Mode
	ID   domain.ID
}

type ListPage struct {
	Loading bool
	Error   string
	Query   string
	Total   int
	Rows    []domain.Record
	Flashes []Flash
}

type FormPage struct {
	Mode    user.Mode
	ID      domain.ID
	Draft   domain.Record
	Errors  user.Errors
	Flashes []Flash
}

type ViewPage struct {
	ID      domain.ID
	Record  *domain.Record // nil = 未加载
	Flashes []Flash
}

// SetFilter 更新搜索词并重新推导过滤视图
func (svc *Service) SetFilter(s *Session, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.list.SetFilter(query)
}

// Home 首次访问触发唯一一次拉取；拉取期间释放会话锁，并发请求看到 loading
func (svc *Service) Home(ctx context.Context, s *Session) ListPage {
	s.mu.Lock()
	if s.list.BeginLoad() {
		s.mu.Unlock()
		// 浏览器断开也要把这一次拉取做完
		recs, err := svc.api.List(context.WithoutCancel(ctx))
		s.mu.Lock()
		s.list.FinishLoad(recs, err)
		if err != nil {
			svc.log.Warn("list users failed", zap.String("sid", s.id), zap.Error(err))
		}
	}
	defer s.mu.Unlock()
	return svc.listPageLocked(s)
}

func (svc *Service) listPageLocked(s *Session) ListPage {
	p := ListPage{
		Loading: s.list.Loading(),
		Query:   s.query,
		Total:   s.list.Len(),
		Rows:    s.list.Filtered(),
		Flashes: s.TakeFlashes(),
	}
	if s.list.Err() != nil {
		p.Error = user.LoadFailedMessage
	}
	return p
}

// OpenCreate 已有同目标的表单时沿用草稿
func (svc *Service) OpenCreate(s *Session) FormPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.form
	if !matches(f, Target{Mode: user.ModeCreate}) {
		f = user.NewCreateForm(svc.api, svc.hooks(s, user.ModeCreate))
		s.form = f
	}
	return formPage(s, f)
}

func (svc *Service) OpenEdit(ctx context.Context, s *Session, id domain.ID) (FormPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := svc.formLocked(ctx, s, Target{Mode: user.ModeEdit, ID: id})
	if err != nil {
		return FormPage{Flashes: s.TakeFlashes()}, err
	}
	return formPage(s, f), nil
}

// SubmitForm 写入字段并提交；提交期间持有会话锁。
// 返回 *user.ValidationError 时页面应带错误重新渲染
func (svc *Service) SubmitForm(ctx context.Context, s *Session, t Target, values map[string]string) (FormPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := svc.formLocked(ctx, s, t)
	if err != nil {
		return FormPage{Flashes: s.TakeFlashes()}, err
	}
	for _, fld := range user.Fields() {
		v, ok := values[fld.Path()]
		if !ok {
			continue
		}
		if err := f.Set(fld, v); err != nil {
			return formPage(s, f), err
		}
	}
	if err := f.Submit(ctx); err != nil {
		var ve *user.ValidationError
		if !errors.As(err, &ve) {
			svc.log.Warn("save user failed",
				zap.String("sid", s.id),
				zap.Stringer("mode", f.Mode()),
				zap.Stringer("id", f.ID()),
				zap.Error(err),
			)
		}
		return formPage(s, f), err
	}
	s.form = nil
	return FormPage{Mode: f.Mode(), ID: f.ID()}, nil
}

// CancelForm 关闭当前表单，不校验也不发请求
func (svc *Service) CancelForm(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form != nil {
		s.form.Cancel()
		s.form = nil
	}
}

func (svc *Service) Delete(ctx context.Context, s *Session, id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := svc.api.Delete(ctx, id); err != nil {
		s.Notify(user.LevelError, "Error deleting user")
		svc.log.Warn("delete user failed", zap.String("sid", s.id), zap.Stringer("id", id), zap.Error(err))
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	s.list.ApplyDelete(id)
	if matches(s.form, Target{Mode: user.ModeEdit, ID: id}) {
		s.form.Cancel()
		s.form = nil
	}
	s.Notify(user.LevelSuccess, "User deleted")
	return nil
}

// View 详情页每次都读远端
func (svc *Service) View(ctx context.Context, s *Session, id domain.ID) (ViewPage, error) {
	v := user.NewView(id)
	err := v.Load(ctx, svc.api, s)
	return ViewPage{ID: id, Record: v.Record(), Flashes: s.TakeFlashes()}, err
}

func (svc *Service) formLocked(ctx context.Context, s *Session, t Target) (*user.Form, error) {
	if matches(s.form, t) {
		return s.form, nil
	}
	if t.Mode == user.ModeCreate {
		s.form = user.NewCreateForm(svc.api, svc.hooks(s, user.ModeCreate))
		return s.form, nil
	}
	rec, ok := s.list.Find(t.ID)
	if !ok {
		v := user.NewView(t.ID)
		if err := v.Load(ctx, svc.api, s); err != nil {
			return nil, err
		}
		rec = *v.Record()
	}
	s.form = user.NewEditForm(rec, svc.api, svc.hooks(s, user.ModeEdit))
	return s.form, nil
}

// hooks 保存成功后同步列表并提示
func (svc *Service) hooks(s *Session, mode user.Mode) user.FormHooks {
	return user.FormHooks{
		Notifier: s,
		Guard:    user.RejectMarkup(utils.HasMarkup),
		OnSaved: func(rec domain.Record) {
			if mode == user.ModeEdit {
				s.list.ApplyUpdate(rec)
				s.Notify(user.LevelSuccess, "User updated")
				return
			}
			s.list.ApplyCreate(rec)
			s.Notify(user.LevelSuccess, "User created")
		},
	}
}

func matches(f *user.Form, t Target) bool {
	if f == nil || f.Closed() || f.Mode() != t.Mode {
		return false
	}
	return t.Mode == user.ModeCreate || f.ID() == t.ID
}

func formPage(s *Session, f *user.Form) FormPage {
	return FormPage{
		Mode:    f.Mode(),
		ID:      f.ID(),
		Draft:   f.Draft(),
		Errors:  f.Errors(),
		Flashes: s.TakeFlashes(),
	}
}
