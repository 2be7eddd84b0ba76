package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-gin-user-console/internal/console"
	"go-gin-user-console/internal/core/config"
	"go-gin-user-console/internal/core/server"
	"go-gin-user-console/internal/core/session"
	mdw "go-gin-user-console/internal/transport/http/middleware"
	"go-gin-user-console/internal/transport/http/view"
)

type Deps struct {
	Log     *zap.Logger
	Config  *config.Config
	Store   *console.Store
	Signer  *session.Signer
	Modules *Registry
}

func NewConsoleEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, mdw.PanicAbort)
	r.SetHTMLTemplate(view.Must())

	lim := d.Config.Limits
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst),
		mdw.ConcurrencyLimit(lim.Concurrency),
		mdw.MaxBodyBytes(lim.MaxBodyMB<<20),
		mdw.Timeout(time.Duration(d.Config.App.HTTP.RequestTimeoutSec)*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())

	// JSON 接口（无会话）
	d.Modules.MountAPI(r.Group("/api/v1"))

	// 页面（按浏览器会话）
	sc := d.Config.Session
	web := r.Group("/")
	web.Use(mdw.Session(mdw.SessionOptions{
		Store:  d.Store,
		Signer: d.Signer,
		Cookie: sc.Cookie,
		MaxAge: sc.TTLMin * 60,
		Secure: d.Config.App.Env != "local",
	}))
	d.Modules.MountConsole(web)

	return r
}
