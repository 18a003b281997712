package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetWallet(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	w, err := h.Ledger.GetWallet(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	page := pageQuery(c)
	items, total, err := h.Ledger.History(c.Request.Context(), userID, page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transactions": items,
		"total":        total,
		"page":         page.Number,
		"limit":        page.Limit,
	})
}

func (h *Handler) WalletSummary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	s, err := h.Ledger.Summary(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
