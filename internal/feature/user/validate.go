package user

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-gin-user-console/internal/domain"
)

// Errors 字段名 -> 提示信息；没有 key 表示该字段合法
type Errors map[string]string

func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidationError 提交前本地校验失败，不会触达网络
type ValidationError struct {
	Fields Errors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields.Keys(), ", ")
}

// RE2 的 \s 只有 [\t\n\f\r ]，这里按 ECMAScript 的空白和行终止符展开
const (
	jsSpace   = `\t\n\v\f\r \x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`
	nonSpace  = `[^` + jsSpace + `]`
	nonLineTm = `[^\n\r\x{2028}\x{2029}]`
)

var (
	// 只做结构性检查，不是 RFC 校验
	looseEmailRe = regexp.MustCompile(nonSpace + `+@` + nonSpace + `+\.` + nonSpace + `+`)
	digitsRe     = regexp.MustCompile(`^\d+$`)
	webURLRe     = regexp.MustCompile(`^https?://[^` + jsSpace + `$.?#]` + nonLineTm + nonSpace + `*$`)
)

var messages = map[string]string{
	"name":    "Name must be at least 3 characters",
	"email":   "Invalid email format",
	"phone":   "Phone number must be numeric",
	"street":  "Street is required",
	"city":    "City is required",
	"company": "Company name must be at least 3 characters",
	"website": "Invalid website URL",
}

// 扁平视图，key 与表单错误 key 一致
type fieldView struct {
	Name    string `json:"name"    validate:"required,min=3"`
	Email   string `json:"email"   validate:"required,loose_email"`
	Phone   string `json:"phone"   validate:"required,phone_digits"`
	Street  string `json:"street"  validate:"required"`
	City    string `json:"city"    validate:"required"`
	Company string `json:"company" validate:"omitempty,min=3"`
	Website string `json:"website" validate:"omitempty,web_url"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegisterRegex(v, "loose_email", looseEmailRe)
	mustRegisterRegex(v, "phone_digits", digitsRe)
	mustRegisterRegex(v, "web_url", webURLRe)
	return v
}

func mustRegisterRegex(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Validate 纯函数：返回所有不合法字段的提示（可能为空）
func Validate(r domain.Record) Errors {
	out := Errors{}
	err := validate.Struct(fieldView{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Street:  r.Address.Street,
		City:    r.Address.City,
		Company: r.Company.Name,
		Website: r.Website,
	})
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Field()] = messages[fe.Field()]
		}
	}
	return out
}
