package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-gin-user-console/internal/console"
	"go-gin-user-console/internal/core/config"
	"go-gin-user-console/internal/core/session"
	"go-gin-user-console/internal/domain"
	"go-gin-user-console/internal/transport/http/router"
)

func init() { gin.SetMode(gin.TestMode) }

var errDown = errors.New("upstream down")

type memAPI struct {
	mu        sync.Mutex
	records   []domain.Record
	failWrite bool
	failList  bool
	created   []domain.Record
}

func (m *memAPI) List(context.Context) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList {
		return nil, errDown
	}
	return append([]domain.Record(nil), m.records...), nil
}

func (m *memAPI) Get(_ context.Context, id domain.ID) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memAPI) Create(_ context.Context, r domain.Record) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return nil, errDown
	}
	r.ID = 11
	m.created = append(m.created, r)
	return &r, nil
}

func (m *memAPI) Update(_ context.Context, id domain.ID, r domain.Record) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return nil, errDown
	}
	r.ID = id
	return &r, nil
}

func (m *memAPI) Delete(context.Context, domain.ID) error { return nil }

func people() []domain.Record {
	addr := domain.Address{Street: "Kulas Light", City: "Gwenborough"}
	return []domain.Record{
		{ID: 1, Name: "Leanne Graham", Username: "Bret", Email: "l@g.io", Phone: "5551234", Address: addr},
		{ID: 2, Name: "Ervin Howell", Username: "Antonette", Email: "e@h.io", Phone: "5555678", Address: addr},
	}
}

func newEngine(api domain.UserAPI) *gin.Engine {
	cfg := &config.Config{
		App:     config.App{Env: "local"},
		Session: config.Session{Cookie: "console_sid", TTLMin: 60},
	}
	log := zap.NewNop()
	mods := router.NewRegistry(
		NewAPIHandler(api),
		NewConsoleHandler(console.NewService(api, log)),
	)
	return router.NewConsoleEngine(router.Deps{
		Log:     log,
		Config:  cfg,
		Store:   console.NewStore(time.Hour),
		Signer:  &session.Signer{Secret: []byte("k"), Issuer: "test", TTL: time.Hour},
		Modules: mods,
	})
}

// browser 保存 cookie，模拟同一个浏览器
type browser struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.h.ServeHTTP(w, req)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		b.cookies = cs
	}
	return w
}

func TestConsole_ListAndFilter(t *testing.T) {
	b := &browser{t: t, h: newEngine(&memAPI{records: people()})}

	w := b.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Leanne Graham")
	assert.Contains(t, w.Body.String(), "Ervin Howell")

	w = b.do(http.MethodGet, "/?q=ERV", nil)
	assert.NotContains(t, w.Body.String(), "Leanne Graham")
	assert.Contains(t, w.Body.String(), "Ervin Howell")
	assert.Contains(t, w.Body.String(), `value="ERV"`)

	// 不带 q 时保留搜索词
	w = b.do(http.MethodGet, "/", nil)
	assert.NotContains(t, w.Body.String(), "Leanne Graham")
}

func TestConsole_LoadFailure(t *testing.T) {
	b := &browser{t: t, h: newEngine(&memAPI{failList: true})}
	w := b.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch users")
}

func TestConsole_CreateFlow(t *testing.T) {
	api := &memAPI{records: people()}
	b := &browser{t: t, h: newEngine(api)}
	b.do(http.MethodGet, "/", nil)

	w := b.do(http.MethodGet, "/users/new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Create New User")

	bad := url.Values{"name": {"Al"}, "email": {"x@y.io"}, "phone": {"12a"}, "address.street": {"s"}, "address.city": {"c"}}
	w = b.do(http.MethodPost, "/users", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Name must be at least 3 characters")
	assert.Contains(t, w.Body.String(), "Phone number must be numeric")
	assert.Empty(t, api.created)

	good := url.Values{"name": {"Jo Ann Smith"}, "email": {"x@y.io"}, "phone": {"123"}, "address.street": {"s"}, "address.city": {"c"}}
	w = b.do(http.MethodPost, "/users", good)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	require.Len(t, api.created, 1)
	assert.Equal(t, "USER-jo-ann-smith", api.created[0].Username)

	w = b.do(http.MethodGet, "/", nil)
	assert.Contains(t, w.Body.String(), "Jo Ann Smith")
	assert.Contains(t, w.Body.String(), "User created")
}

func TestConsole_EditFailureKeepsDraft(t *testing.T) {
	api := &memAPI{records: people(), failWrite: true}
	b := &browser{t: t, h: newEngine(api)}
	b.do(http.MethodGet, "/", nil)

	w := b.do(http.MethodGet, "/users/2/edit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Ervin Howell"`)

	w = b.do(http.MethodPost, "/users/2", url.Values{"name": {"Ervin H"}})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Error updating user")
	assert.Contains(t, w.Body.String(), `value="Ervin H"`)

	w = b.do(http.MethodPost, "/form/cancel", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	w = b.do(http.MethodGet, "/", nil)
	assert.Contains(t, w.Body.String(), "Ervin Howell")
}

func TestConsole_ViewAndDelete(t *testing.T) {
	b := &browser{t: t, h: newEngine(&memAPI{records: people()})}

	w := b.do(http.MethodGet, "/user/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>Leanne Graham</h1>")
	assert.Contains(t, w.Body.String(), "Company: N/A")

	w = b.do(http.MethodGet, "/user/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Error fetching user")

	w = b.do(http.MethodGet, "/user/abc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	b.do(http.MethodGet, "/", nil)
	w = b.do(http.MethodPost, "/users/1/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	w = b.do(http.MethodGet, "/", nil)
	assert.NotContains(t, w.Body.String(), "Leanne Graham")
	assert.Contains(t, w.Body.String(), "User deleted")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func apiDo(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAPI_ListAndGet(t *testing.T) {
	h := newEngine(&memAPI{records: people()})

	w := apiDo(h, http.MethodGet, "/api/v1/users?q=leanne", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.EqualValues(t, 2, data["total"])
	assert.Len(t, data["items"], 1)

	w = apiDo(h, http.MethodGet, "/api/v1/users/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ervin Howell", decode(t, w)["data"].(map[string]any)["name"])

	w = apiDo(h, http.MethodGet, "/api/v1/users/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_Create(t *testing.T) {
	api := &memAPI{records: people()}
	h := newEngine(api)

	w := apiDo(h, http.MethodPost, "/api/v1/users", `{"name":"Al","email":"bad"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	details := decode(t, w)["details"].(map[string]any)
	assert.Equal(t, "Name must be at least 3 characters", details["name"])
	assert.Equal(t, "Invalid email format", details["email"])
	assert.Contains(t, details, "street")

	w = apiDo(h, http.MethodPost, "/api/v1/users",
		`{"name":"Ann <Lee>","email":"a@b.io","phone":"1","address.street":"Main","address.city":"Town"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Must not contain markup", decode(t, w)["details"].(map[string]any)["name"])
	assert.Empty(t, api.created)

	w = apiDo(h, http.MethodPost, "/api/v1/users", `{"username":"hacker"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["msg"], "read-only")

	w = apiDo(h, http.MethodPost, "/api/v1/users", `{"nickname":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["msg"], "unknown field")

	body := `{"name":"Mary Jane","email":"m@j.io","phone":"42","address.street":"Main","address.city":"Town","website":"https://mj.dev"}`
	w = apiDo(h, http.MethodPost, "/api/v1/users", body)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.EqualValues(t, 11, data["id"])
	assert.Equal(t, "USER-mary-jane", data["username"])

	api.failWrite = true
	w = apiDo(h, http.MethodPost, "/api/v1/users", body)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Error creating user", decode(t, w)["msg"])
}

func TestAPI_UpdateAndDelete(t *testing.T) {
	h := newEngine(&memAPI{records: people()})

	w := apiDo(h, http.MethodPut, "/api/v1/users/1", `{"address.city":"Springfield"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "Leanne Graham", data["name"])
	assert.Equal(t, "Bret", data["username"])
	assert.Equal(t, "Springfield", data["address"].(map[string]any)["city"])

	w = apiDo(h, http.MethodPut, "/api/v1/users/1", `{"phone":"1-770"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = apiDo(h, http.MethodDelete, "/api/v1/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["data"].(map[string]any)["id"])
}

func TestHealthAndMetrics(t *testing.T) {
	h := newEngine(&memAPI{})
	w := apiDo(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = apiDo(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
