package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-user-console/internal/domain"
	"go-gin-user-console/internal/feature/user"
	httpez "go-gin-user-console/internal/transport/http/ez"
	"go-gin-user-console/pkg/utils"
)

// APIHandler /api/v1 下的 JSON 接口；无会话，每个请求走一遍控制器
type APIHandler struct {
	api domain.UserAPI
}

func NewAPIHandler(api domain.UserAPI) *APIHandler { return &APIHandler{api: api} }

func (h *APIHandler) Priority() int { return 10 }

// 写接口的 body 是扁平的字段路径：{"name":"..","address.city":".."}
type fieldsIn map[string]string

type idIn struct {
	ID domain.ID `uri:"id" binding:"required"`
}

func (h *APIHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api)

	// --- GET /users  列表（?q= 按 name 过滤） ---
	type listQ struct {
		Q string `form:"q"`
	}
	type listOut struct {
		Total int             `json:"total"`
		Items []domain.Record `json:"items"`
	}
	httpez.RegisterAction(ez, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			l := user.NewList()
			if err := l.Load(c.Request.Context(), h.api); err != nil {
				return listOut{}, httpez.Upstream(user.LoadFailedMessage, err)
			}
			l.SetFilter(in.Q)
			return listOut{Total: l.Len(), Items: l.Filtered()}, nil
		},
	})

	// --- GET /users/:id  详情 ---
	httpez.RegisterAction(ez, httpez.Action[idIn, *domain.Record]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, in *idIn) (*domain.Record, error) {
			return h.fetch(c, in.ID)
		},
	})

	// --- POST /users  新建 ---
	httpez.RegisterAction(ez, httpez.Action[fieldsIn, domain.Record]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *fieldsIn) (domain.Record, error) {
			var saved domain.Record
			f := user.NewCreateForm(h.api, h.hooks(&saved))
			if err := h.submit(c, f, *in, "Error creating user"); err != nil {
				return domain.Record{}, err
			}
			return saved, nil
		},
	})

	// --- PUT /users/:id  修改（只改 body 里出现的字段） ---
	httpez.RegisterAction(ez, httpez.Action[fieldsIn, domain.Record]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *fieldsIn) (domain.Record, error) {
			id, err := domain.ParseID(c.Param("id"))
			if err != nil {
				return domain.Record{}, httpez.BadRequest(err.Error())
			}
			cur, err := h.fetch(c, id)
			if err != nil {
				return domain.Record{}, err
			}
			var saved domain.Record
			f := user.NewEditForm(*cur, h.api, h.hooks(&saved))
			if err := h.submit(c, f, *in, "Error updating user"); err != nil {
				return domain.Record{}, err
			}
			return saved, nil
		},
	})

	// --- DELETE /users/:id ---
	httpez.RegisterAction(ez, httpez.Action[idIn, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, in *idIn) (gin.H, error) {
			if err := h.api.Delete(c.Request.Context(), in.ID); err != nil {
				return nil, httpez.Upstream("Error deleting user", err)
			}
			return gin.H{"id": in.ID}, nil
		},
	})
}

func (h *APIHandler) fetch(c *gin.Context, id domain.ID) (*domain.Record, error) {
	v := user.NewView(id)
	if err := v.Load(c.Request.Context(), h.api, nil); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httpez.NotFound("user not found")
		}
		return nil, httpez.Upstream("Error fetching user", err)
	}
	return v.Record(), nil
}

func (h *APIHandler) hooks(saved *domain.Record) user.FormHooks {
	return user.FormHooks{
		Guard:   user.RejectMarkup(utils.HasMarkup),
		OnSaved: func(r domain.Record) { *saved = r },
	}
}

// submit 未知/只读字段 -> 400；校验失败 -> 400 + details；远端失败 -> 502
func (h *APIHandler) submit(c *gin.Context, f *user.Form, in fieldsIn, failMsg string) error {
	for path, v := range in {
		if err := f.SetField(path, v); err != nil {
			return httpez.BadRequest(err.Error())
		}
	}
	err := f.Submit(c.Request.Context())
	var ve *user.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ve):
		return httpez.Invalid(ve.Fields)
	default:
		return httpez.Upstream(failMsg, err)
	}
}
