package user

import (
	"context"
	"errors"
	"fmt"

	"go-gin-user-console/internal/domain"
)

type Mode int

const (
	ModeCreate Mode = iota + 1
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "update"
	}
	return "create"
}

var ErrFormClosed = errors.New("form is closed")

// Saver 表单提交只用到写接口
type Saver interface {
	Create(ctx context.Context, r domain.Record) (*domain.Record, error)
	Update(ctx context.Context, id domain.ID, r domain.Record) (*domain.Record, error)
}

type FormHooks struct {
	OnSaved  func(domain.Record) // 成功后回传服务端返回的记录
	Notifier Notifier
	// Guard 额外的字段检查，与 Validate 的结果合并；同一字段以 Validate 的提示为准
	Guard func(domain.Record) Errors
}

// Form 独占一份草稿和一份错误表
type Form struct {
	mode   Mode
	id     domain.ID
	draft  domain.Record
	errs   Errors
	api    Saver
	hooks  FormHooks
	closed bool
}

// NewCreateForm 空草稿；username 随 name 自动生成
func NewCreateForm(api Saver, hooks FormHooks) *Form {
	hooks.Notifier = orDiscard(hooks.Notifier)
	return &Form{mode: ModeCreate, errs: Errors{}, api: api, hooks: hooks}
}

// NewEditForm 以现有记录为草稿；username 按原值保留
func NewEditForm(rec domain.Record, api Saver, hooks FormHooks) *Form {
	hooks.Notifier = orDiscard(hooks.Notifier)
	return &Form{mode: ModeEdit, id: rec.ID, draft: rec, errs: Errors{}, api: api, hooks: hooks}
}

func (f *Form) Mode() Mode           { return f.mode }
func (f *Form) ID() domain.ID        { return f.id }
func (f *Form) Draft() domain.Record { return f.draft }
func (f *Form) Closed() bool         { return f.closed }

func (f *Form) Errors() Errors {
	out := make(Errors, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// SetField 按路径写字段；未知路径直接拒绝，不会新增 key
func (f *Form) SetField(path, value string) error {
	fld, err := ParseField(path)
	if err != nil {
		return err
	}
	return f.Set(fld, value)
}

func (f *Form) Set(fld Field, value string) error {
	if f.closed {
		return ErrFormClosed
	}
	if fld.Path() == "" {
		return fmt.Errorf("field %d: %w", int(fld), ErrUnknownField)
	}
	fld.set(&f.draft, value)
	if fld == FieldName && f.mode == ModeCreate && canDeriveHandle(value) {
		f.draft.Username = DeriveHandle(value)
		delete(f.errs, PathUsername)
	}
	return nil
}

// Submit 校验 -> 提交 -> 回调；校验失败不发请求
func (f *Form) Submit(ctx context.Context) error {
	if f.closed {
		return ErrFormClosed
	}
	errs := Validate(f.draft)
	if f.hooks.Guard != nil {
		for k, msg := range f.hooks.Guard(f.draft) {
			if _, ok := errs[k]; !ok {
				errs[k] = msg
			}
		}
	}
	if len(errs) > 0 {
		f.errs = errs
		return &ValidationError{Fields: errs}
	}
	f.errs = Errors{}

	var (
		saved *domain.Record
		err   error
	)
	if f.mode == ModeEdit {
		saved, err = f.api.Update(ctx, f.id, f.draft)
	} else {
		saved, err = f.api.Create(ctx, f.draft)
	}
	if err != nil {
		// 草稿保留，用户可重试
		f.hooks.Notifier.Notify(LevelError, fmt.Sprintf("Error %s user", f.verb()))
		return fmt.Errorf("%s user: %w", f.mode, err)
	}
	if saved == nil {
		d := f.draft
		saved = &d
	}
	f.closed = true
	if f.hooks.OnSaved != nil {
		f.hooks.OnSaved(*saved)
	}
	return nil
}

// Cancel 直接丢弃草稿
func (f *Form) Cancel() {
	f.closed = true
	f.draft = domain.Record{}
	f.errs = Errors{}
}

func (f *Form) verb() string {
	if f.mode == ModeEdit {
		return "updating"
	}
	return "creating"
}
