package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"questline/internal/domain"
	"questline/internal/logger"
	"questline/internal/service"

	"github.com/gin-gonic/gin"
)

// DailyResetter forces the daily reset sweep.
type DailyResetter interface {
	ForceReset(ctx context.Context) domain.ResetResult
}

// Services bundles everything the handlers call.
type Services struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Tasks        *service.TaskService
	Rewards      *service.RewardCoordinator
	Achievements *service.AchievementEngine
	Ledger       *service.WalletLedger
	Shop         *service.ShopService
	Admin        *service.AdminService
	Resetter     DailyResetter
}

type Handler struct {
	Services
	log *logger.Logger
}

func NewHandler(s Services) *Handler {
	return &Handler{Services: s, log: logger.With("component", "handlers")}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// requireUser writes 401 and returns false when no user is attached.
func requireUser(c *gin.Context) (int64, bool) {
	id, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func pageQuery(c *gin.Context) service.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return service.NewPage(page, limit)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "bad request", "details": err.Error()})
}

// writeError maps domain error kinds to HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient funds"})
		return
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	default:
		h.log.Error("request failed", "path", c.FullPath(), "request_id", c.GetString("request_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
