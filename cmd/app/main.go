package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"questline/internal/app"
	"questline/internal/bot"
	"questline/internal/clock"
	"questline/internal/config"
	"questline/internal/db"
	httpServer "questline/internal/http"
	"questline/internal/http/handlers"
	"questline/internal/http/middleware"
	"questline/internal/logger"
	"questline/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret, cfg.JWTTTL)

	dbPool := db.Connect(cfg.DatabaseURL, cfg.DBMaxConns)
	defer dbPool.Close()

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer middleware.CloseRedis()

	a := app.New(app.PostgresStores(dbPool), clock.System(), app.Options{
		StartingCoins: cfg.StartingCoins,
		Timezones:     cfg.DailyResetTimezones,
	})

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := a.Seed(seedCtx); err != nil {
		logger.Fatal("catalog sync failed", "error", err)
	}
	cancel()

	if err := a.Scheduler.Start(); err != nil {
		logger.Fatal("failed to start daily reset scheduler", "error", err)
	}

	if err := handlers.RegisterValidators(); err != nil {
		logger.Fatal("failed to register validators", "error", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := a.Router(dbPool, httpServer.RouteConfig{
		Version:            cfg.AppVersion,
		AllowedOrigin:      cfg.AllowedOrigin,
		AdminAPIKey:        cfg.AdminAPIKey,
		APIRateLimit:       cfg.APIRateLimit,
		APIRateWindow:      cfg.APIRateWindow,
		AuthRateLimit:      cfg.AuthRateLimit,
		AuthRateWindow:     cfg.AuthRateWindow,
		CompleteRateLimit:  cfg.CompleteRateLimit,
		CompleteRateWindow: cfg.CompleteRateWindow,
	})

	var adminBot *bot.AdminBot
	if cfg.AdminBotEnabled {
		adminBot, err = bot.NewAdminBot(cfg.AdminBotToken, a.Admin, a.Scheduler, a.Rewards, cfg.AdminTelegramIDs)
		if err != nil {
			logger.Error("admin bot disabled", "error", err)
		} else {
			go adminBot.Start()
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "env", cfg.AppEnv, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if adminBot != nil {
		adminBot.Stop()
	}
	a.Scheduler.Stop(ctx)

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
