package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-user-console/internal/core/config"
	"go-gin-user-console/internal/core/logger"
)

// NewRouter 基础 engine：唯一的 panic 恢复（带栈写 zap）+ CORS；请求日志走 middleware.AccessLog。
// onPanic 负责给客户端的响应，为 nil 时回空 500
func NewRouter(l *zap.Logger, onPanic gin.RecoveryFunc) *gin.Engine {
	gin.DefaultWriter = logger.ToWriter(l, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l, zapcore.ErrorLevel)

	r := gin.New()
	if onPanic == nil {
		r.Use(ginzap.RecoveryWithZap(l, true))
	} else {
		r.Use(ginzap.CustomRecoveryWithZap(l, true, onPanic))
	}
	r.Use(cors.Default())
	return r
}

// New 按 app.http 配置构建 http.Server
func New(c config.HTTP, handler http.Handler) *http.Server {
	return BuildServer(
		Addr(c.Host, c.Port), handler,
		time.Duration(c.ReadTimeoutSec)*time.Second,
		time.Duration(c.WriteTimeoutSec)*time.Second,
		time.Duration(c.IdleTimeoutSec)*time.Second,
	)
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// HumanURL 启动日志里打印可点击地址
func HumanURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return "http://" + Addr(host, port)
}
