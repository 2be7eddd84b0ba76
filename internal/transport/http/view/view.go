package view

import (
	"embed"
	"html/template"

	"go-gin-user-console/internal/domain"
	"go-gin-user-console/internal/feature/user"
)

//go:embed templates/*.html
var files embed.FS

// 页面名（gin c.HTML 的 name）
const (
	PageList    = "list.html"
	PageLoading = "loading.html"
	PageUser    = "user.html"
	PageForm    = "form.html"
	PageError   = "error.html"
)

var funcs = template.FuncMap{
	"fields": user.Fields,
	"label": func(f user.Field) string {
		if f.Optional() {
			return f.Label() + " (optional)"
		}
		return f.Label()
	},
	"value":  func(r domain.Record, f user.Field) string { return f.Get(r) },
	"errFor": func(errs user.Errors, f user.Field) string { return errs[f.ErrorKey()] },
	"inputType": func(f user.Field) string {
		switch f {
		case user.FieldEmail:
			return "email"
		case user.FieldWebsite:
			return "url"
		}
		return "text"
	},
	"orNA": func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	},
}

// Load 解析内嵌模板
func Load() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}

func Must() *template.Template { return template.Must(Load()) }
