package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// adminActorID marks actions taken through the X-Admin-Key API rather
// than by a known operator.
const adminActorID int64 = 0

type addCoinsRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.Admin.GetStats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) AdminUser(c *gin.Context) {
	info, err := h.Admin.GetUser(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) AdminAddCoins(c *gin.Context) {
	id, ok := idParam(c, "identifier")
	if !ok {
		return
	}
	var req addCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	w, err := h.Admin.AddCoins(c.Request.Context(), adminActorID, id, req.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *Handler) AdminAudit(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.Admin.RecentAudit(c.Request.Context(), c.Query("category"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
