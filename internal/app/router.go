package app

import (
	httpServer "questline/internal/http"
	"questline/internal/http/handlers"
	"questline/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// Router returns a gin engine with every route registered. db backs the
// required readiness check; Redis is probed as optional.
func (a *App) Router(db handlers.Pinger, cfg httpServer.RouteConfig) *gin.Engine {
	health := handlers.NewHealthHandler(cfg.Version,
		handlers.Check{Name: "database", Ping: db.Ping},
		handlers.Check{Name: "redis", Ping: middleware.PingRedis, Optional: true},
	)

	r := gin.New()
	r.Use(gin.Recovery())
	httpServer.RegisterRoutes(r, a.Handler(), health, a.Hub, cfg)
	return r
}
