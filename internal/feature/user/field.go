package user

import (
	"errors"
	"fmt"

	"go-gin-user-console/internal/domain"
)

// Field 表单可编辑字段（带标签的路径，替代按字符串动态取值）
type Field int

const (
	FieldName Field = iota + 1
	FieldEmail
	FieldPhone
	FieldStreet
	FieldCity
	FieldCompanyName
	FieldWebsite
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrReadOnlyField = errors.New("field is read-only")
)

// 路径顺序即表单渲染顺序
var fieldPaths = []struct {
	f     Field
	path  string
	label string
}{
	{FieldName, "name", "Name"},
	{FieldEmail, "email", "Email"},
	{FieldPhone, "phone", "Phone"},
	{FieldStreet, "address.street", "Street"},
	{FieldCity, "address.city", "City"},
	{FieldCompanyName, "company.name", "Company"},
	{FieldWebsite, "website", "Website"},
}

// PathUsername 派生字段，只读
const PathUsername = "username"

// Fields returns the editable fields in display order.
func Fields() []Field {
	out := make([]Field, 0, len(fieldPaths))
	for _, fp := range fieldPaths {
		out = append(out, fp.f)
	}
	return out
}

func (f Field) Path() string {
	for _, fp := range fieldPaths {
		if fp.f == f {
			return fp.path
		}
	}
	return ""
}

func (f Field) String() string { return f.Path() }

// Label 展示用名称
func (f Field) Label() string {
	for _, fp := range fieldPaths {
		if fp.f == f {
			return fp.label
		}
	}
	return ""
}

// Optional company / website 可留空
func (f Field) Optional() bool { return f == FieldCompanyName || f == FieldWebsite }

// ErrorKey 对应 Validate 返回的 key（嵌套字段用叶子名）
func (f Field) ErrorKey() string {
	switch f {
	case FieldStreet:
		return "street"
	case FieldCity:
		return "city"
	case FieldCompanyName:
		return "company"
	}
	return f.Path()
}

// ParseField 校验路径是否属于已知记录结构
func ParseField(path string) (Field, error) {
	if path == PathUsername {
		return 0, fmt.Errorf("%q: %w", path, ErrReadOnlyField)
	}
	for _, fp := range fieldPaths {
		if fp.path == path {
			return fp.f, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", path, ErrUnknownField)
}

// Get 读取字段值
func (f Field) Get(r domain.Record) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	case FieldStreet:
		return r.Address.Street
	case FieldCity:
		return r.Address.City
	case FieldCompanyName:
		return r.Company.Name
	case FieldWebsite:
		return r.Website
	}
	return ""
}

// set 只改目标字段，兄弟字段保持不变
func (f Field) set(r *domain.Record, v string) {
	switch f {
	case FieldName:
		r.Name = v
	case FieldEmail:
		r.Email = v
	case FieldPhone:
		r.Phone = v
	case FieldStreet:
		r.Address.Street = v
	case FieldCity:
		r.Address.City = v
	case FieldCompanyName:
		r.Company.Name = v
	case FieldWebsite:
		r.Website = v
	}
}

const MarkupMessage = "Must not contain markup"

// RejectMarkup 逐个可编辑字段检查，含标签的字段报错（值本身不改）
func RejectMarkup(hasMarkup func(string) bool) func(domain.Record) Errors {
	return func(r domain.Record) Errors {
		out := Errors{}
		for _, fld := range Fields() {
			if hasMarkup(fld.Get(r)) {
				out[fld.ErrorKey()] = MarkupMessage
			}
		}
		return out
	}
}
