package http

import (
	"time"

	"questline/internal/http/handlers"
	"questline/internal/http/middleware"
	"questline/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteConfig carries the limits and keys the router needs.
type RouteConfig struct {
	Version       string
	AllowedOrigin string
	AdminAPIKey   string

	APIRateLimit       int
	APIRateWindow      time.Duration
	AuthRateLimit      int
	AuthRateWindow     time.Duration
	CompleteRateLimit  int
	CompleteRateWindow time.Duration
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, health *handlers.HealthHandler, hub *ws.Hub, cfg RouteConfig) {
	r.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.Metrics(), middleware.CORS(cfg.AllowedOrigin))

	// Health checks (no rate limiting)
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Realtime reward events
	r.GET("/ws", ws.HandleWS(hub, cfg.AllowedOrigin))

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(api, h, cfg)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg RouteConfig) {
	authRL := middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow)
	admin := middleware.AdminKey(cfg.AdminAPIKey)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authRL, h.Register)
		auth.POST("/login", authRL, h.Login)
		auth.GET("/me", middleware.JWT(), h.Me)
	}

	users := api.Group("/users")
	{
		users.GET("/profile", middleware.JWT(), h.Me)
		users.PATCH("/profile", middleware.JWT(), h.UpdateProfile)
		users.PATCH("/settings", middleware.JWT(), h.UpdateSettings)
		users.GET("/stats", middleware.JWT(), h.UserStats)
		users.GET("/:id", h.PublicProfile)
	}

	// Forced reset is operator-only and sits outside the JWT group.
	api.POST("/tasks/reset-daily", admin, h.ResetDaily)

	tasks := api.Group("/tasks")
	tasks.Use(middleware.JWT())
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/history/completions", h.CompletionHistory)
		tasks.GET("/stats/summary", h.TaskStatistics)
		tasks.GET("/:id", h.GetTask)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
		tasks.POST("/:id/complete", middleware.UserRateLimit("complete", cfg.CompleteRateLimit, cfg.CompleteRateWindow), h.CompleteTask)
	}

	achievements := api.Group("/achievements")
	achievements.Use(middleware.JWT())
	{
		achievements.GET("", h.ListAchievements)
		achievements.POST("/check", h.CheckAchievements)
		achievements.GET("/stats", h.AchievementStats)
		achievements.GET("/:id", h.GetAchievement)
	}

	wallet := api.Group("/wallet")
	wallet.Use(middleware.JWT())
	{
		wallet.GET("", h.GetWallet)
		wallet.GET("/transactions", h.ListTransactions)
		wallet.GET("/summary", h.WalletSummary)
	}

	shop := api.Group("/shop")
	{
		shop.GET("/catalog", h.Catalog)
		shop.GET("/catalog/:id", h.GetEquipment)
		shop.POST("/catalog", admin, h.CreateEquipment)
		shop.POST("/catalog/sync", admin, h.SyncCatalog)

		shop.GET("/available", middleware.JWT(), h.AvailableEquipment)
		shop.GET("/inventory", middleware.JWT(), h.Inventory)
		shop.POST("/purchase/:equipmentId", middleware.JWT(), h.Purchase)
		shop.POST("/equip/:id", middleware.JWT(), h.Equip)
		shop.POST("/unequip/:id", middleware.JWT(), h.Unequip)
		shop.GET("/stats", middleware.JWT(), h.EquippedStats)
	}

	adm := api.Group("/admin")
	adm.Use(admin)
	{
		adm.GET("/stats", h.AdminStats)
		adm.GET("/users/:identifier", h.AdminUser)
		adm.POST("/users/:identifier/coins", h.AdminAddCoins)
		adm.GET("/audit", h.AdminAudit)
	}
}
