package handlers

import (
	"net/http"

	"questline/internal/service"

	"github.com/gin-gonic/gin"
)

type updateProfileRequest struct {
	Username        *string `json:"username" binding:"omitempty,min=2,max=50"`
	ProfileImageURL *string `json:"profileImageUrl" binding:"omitempty,url"`
}

type updateSettingsRequest struct {
	Theme               *string `json:"theme" binding:"omitempty,oneof=light dark"`
	EnableNotifications *bool   `json:"enableNotifications"`
	Timezone            *string `json:"timezone" binding:"omitempty,iana_tz"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.Users.UpdateProfile(c.Request.Context(), userID, req.Username, req.ProfileImageURL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	settings, err := h.Users.UpdateSettings(c.Request.Context(), userID, service.SettingsPatch{
		Theme:               req.Theme,
		EnableNotifications: req.EnableNotifications,
		Timezone:            req.Timezone,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) UserStats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	stats, err := h.Users.Stats(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// PublicProfile is readable without authentication.
func (h *Handler) PublicProfile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	profile, err := h.Users.PublicProfile(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
