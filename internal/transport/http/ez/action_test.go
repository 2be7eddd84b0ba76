package ez

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

type idIn struct {
	ID int `uri:"id" binding:"required"`
}

func newEngine() *gin.Engine {
	r := gin.New()
	e := New(r.Group("/v1"))
	RegisterAction(e, Action[echoIn, map[string]string]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *echoIn) (map[string]string, error) {
			return map[string]string{"name": in.Name}, nil
		},
	})
	RegisterAction(e, Action[idIn, int]{
		Method: http.MethodGet,
		Path:   "/items/:id",
		Binder: BindURI,
		Handler: func(c *gin.Context, in *idIn) (int, error) {
			switch in.ID {
			case 1:
				return 1, nil
			case 2:
				return 0, Invalid(map[string]string{"name": "too short"})
			case 3:
				return 0, Upstream("Error fetching user", errors.New("dial tcp"))
			case 4:
				return 0, NotFound("user not found")
			}
			return 0, errors.New("boom")
		},
	})
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAction_OK(t *testing.T) {
	w := do(newEngine(), http.MethodPost, "/v1/echo", `{"name":"Ann"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":{"name":"Ann"}}`, w.Body.String())
}

func TestRegisterAction_BindError(t *testing.T) {
	w := do(newEngine(), http.MethodPost, "/v1/echo", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":400`)
}

func TestRegisterAction_ErrorMapping(t *testing.T) {
	r := newEngine()
	cases := []struct {
		path   string
		status int
		body   string
	}{
		{"/v1/items/2", http.StatusBadRequest, `{"code":400,"msg":"validation failed","data":{},"details":{"name":"too short"}}`},
		{"/v1/items/3", http.StatusBadGateway, `{"code":502,"msg":"Error fetching user","data":{}}`},
		{"/v1/items/4", http.StatusNotFound, `{"code":404,"msg":"user not found","data":{}}`},
		{"/v1/items/5", http.StatusInternalServerError, `{"code":500,"msg":"Internal Server Error","data":{}}`},
	}
	for _, tc := range cases {
		w := do(r, http.MethodGet, tc.path, "")
		assert.Equal(t, tc.status, w.Code, tc.path)
		assert.JSONEq(t, tc.body, w.Body.String(), tc.path)
	}
}

func TestFail_UnclassifiedErrorKeepsCauseForLogs(t *testing.T) {
	r := gin.New()
	var logged []error
	r.Use(func(c *gin.Context) {
		c.Next()
		for _, e := range c.Errors {
			logged = append(logged, e.Err)
		}
	})
	r.GET("/x", func(c *gin.Context) { Fail(c, errors.New("db password=hunter2")) })

	w := do(r, http.MethodGet, "/x", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")
	require.Len(t, logged, 1)
	assert.EqualError(t, logged[0], "db password=hunter2")
}

func TestAErr_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp")
	err := Upstream("Error fetching user", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Error fetching user", err.Error())
}
