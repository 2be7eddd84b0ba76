package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-user-console/internal/console"
	"go-gin-user-console/internal/domain"
	"go-gin-user-console/internal/feature/user"
	mdw "go-gin-user-console/internal/transport/http/middleware"
	"go-gin-user-console/internal/transport/http/view"
)

// ConsoleHandler 服务端渲染的控制台页面；状态都挂在会话上
type ConsoleHandler struct {
	svc *console.Service
}

func NewConsoleHandler(svc *console.Service) *ConsoleHandler { return &ConsoleHandler{svc: svc} }

func (h *ConsoleHandler) MountConsole(g *gin.RouterGroup) {
	g.GET("/", h.Home)
	g.GET("/user/:id", h.View)
	g.GET("/users/new", h.NewForm)
	g.POST("/users", h.Create)
	g.GET("/users/:id/edit", h.EditForm)
	g.POST("/users/:id", h.Update)
	g.POST("/users/:id/delete", h.Delete)
	g.POST("/form/cancel", h.Cancel)
}

// Home 列表页；拉取中返回自动刷新的 loading 页
func (h *ConsoleHandler) Home(c *gin.Context) {
	s := mdw.SessionFrom(c)
	if q, ok := c.GetQuery("q"); ok {
		h.svc.SetFilter(s, q)
	}
	p := h.svc.Home(c.Request.Context(), s)
	if p.Loading {
		c.HTML(http.StatusOK, view.PageLoading, gin.H{"Title": "Loading...", "Refresh": 1, "Flashes": p.Flashes})
		return
	}
	status := http.StatusOK
	if p.Error != "" {
		status = http.StatusBadGateway
	}
	c.HTML(status, view.PageList, gin.H{
		"Title":   "Users",
		"Error":   p.Error,
		"Query":   p.Query,
		"Rows":    p.Rows,
		"Total":   p.Total,
		"Flashes": p.Flashes,
	})
}

func (h *ConsoleHandler) View(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	p, err := h.svc.View(c.Request.Context(), mdw.SessionFrom(c), id)
	title := "User"
	if p.Record != nil {
		title = p.Record.Name
	}
	c.HTML(statusOf(err), view.PageUser, gin.H{"Title": title, "Record": p.Record, "Flashes": p.Flashes})
}

func (h *ConsoleHandler) NewForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, h.svc.OpenCreate(mdw.SessionFrom(c)))
}

func (h *ConsoleHandler) EditForm(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	p, err := h.svc.OpenEdit(c.Request.Context(), mdw.SessionFrom(c), id)
	if err != nil {
		h.renderError(c, statusOf(err), "User could not be loaded", p.Flashes)
		return
	}
	h.renderForm(c, http.StatusOK, p)
}

func (h *ConsoleHandler) Create(c *gin.Context) {
	h.submit(c, console.Target{Mode: user.ModeCreate})
}

func (h *ConsoleHandler) Update(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	h.submit(c, console.Target{Mode: user.ModeEdit, ID: id})
}

func (h *ConsoleHandler) Cancel(c *gin.Context) {
	h.svc.CancelForm(mdw.SessionFrom(c))
	c.Redirect(http.StatusSeeOther, "/")
}

// Delete 成功失败都回列表，结果以 flash 展示
func (h *ConsoleHandler) Delete(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	_ = h.svc.Delete(c.Request.Context(), mdw.SessionFrom(c), id)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *ConsoleHandler) submit(c *gin.Context, t console.Target) {
	if err := c.Request.ParseForm(); err != nil {
		h.renderError(c, http.StatusBadRequest, "Invalid form data", nil)
		return
	}
	values := make(map[string]string, len(c.Request.PostForm))
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			values[k] = v[0]
		}
	}

	p, err := h.svc.SubmitForm(c.Request.Context(), mdw.SessionFrom(c), t, values)
	var ve *user.ValidationError
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, "/")
	case errors.As(err, &ve):
		h.renderForm(c, http.StatusUnprocessableEntity, p)
	case errors.Is(err, domain.ErrNotFound) && p.Mode == 0:
		h.renderError(c, http.StatusNotFound, "User could not be loaded", p.Flashes)
	case p.Mode == 0:
		h.renderError(c, http.StatusBadGateway, "User could not be loaded", p.Flashes)
	default:
		// 表单保持打开，草稿原样回显
		h.renderForm(c, http.StatusBadGateway, p)
	}
}

func (h *ConsoleHandler) renderForm(c *gin.Context, status int, p console.FormPage) {
	data := gin.H{
		"Draft":   p.Draft,
		"Errors":  p.Errors,
		"Flashes": p.Flashes,
	}
	if p.Mode == user.ModeEdit {
		data["Title"], data["Heading"], data["Submit"] = "Edit User", "Edit User", "Save"
		data["Action"] = "/users/" + p.ID.String()
	} else {
		data["Title"], data["Heading"], data["Submit"] = "Create User", "Create New User", "Create"
		data["Action"] = "/users"
	}
	c.HTML(status, view.PageForm, data)
}

func (h *ConsoleHandler) renderError(c *gin.Context, status int, msg string, flashes []console.Flash) {
	c.HTML(status, view.PageError, gin.H{"Title": "Error", "Message": msg, "Flashes": flashes})
}

func (h *ConsoleHandler) id(c *gin.Context) (domain.ID, bool) {
	id, err := domain.ParseID(c.Param("id"))
	if err != nil {
		h.renderError(c, http.StatusNotFound, "User not found", nil)
		return 0, false
	}
	return id, true
}

func statusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
