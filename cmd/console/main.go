package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-gin-user-console/internal/console"
	"go-gin-user-console/internal/core/config"
	"go-gin-user-console/internal/core/logger"
	"go-gin-user-console/internal/core/server"
	"go-gin-user-console/internal/core/session"
	"go-gin-user-console/internal/repo"
	"go-gin-user-console/internal/transport/http/handler"
	"go-gin-user-console/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 远端 users API；timeoutSec=0 时不设客户端超时
	hc := &http.Client{Timeout: time.Duration(cfg.Upstream.TimeoutSec) * time.Second}
	users := repo.NewUserRepo(cfg.Upstream.BaseURL, hc, log.Named("upstream"))

	// 会话
	store := console.NewStore(time.Duration(cfg.Session.IdleMin) * time.Minute)
	signer := &session.Signer{
		Secret: []byte(cfg.Session.Secret),
		Issuer: cfg.Session.Issuer,
		TTL:    time.Duration(cfg.Session.TTLMin) * time.Minute,
	}

	// 路由
	mods := router.NewRegistry(
		handler.NewAPIHandler(users),
		handler.NewConsoleHandler(console.NewService(users, log.Named("console"))),
	)
	r := router.NewConsoleEngine(router.Deps{
		Log:     log,
		Config:  cfg,
		Store:   store,
		Signer:  signer,
		Modules: mods,
	})

	// HTTP Server
	srv := server.New(cfg.App.HTTP, r)
	baseURL := server.HumanURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	log.Info("user console starting",
		zap.String("addr", srv.Addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
		zap.String("upstream", cfg.Upstream.BaseURL),
	)

	// 异步启动；失败立即退出
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("user console start FAILED", zap.Error(err))
		}
	}()
	log.Info("user console started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("user console stopped gracefully")
}
