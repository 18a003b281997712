package handlers

import (
	"net/http"

	"questline/internal/domain"

	"github.com/gin-gonic/gin"
)

type createEquipmentRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	Type          string `json:"type" binding:"required,oneof=head body accessory"`
	Rarity        string `json:"rarity" binding:"required,oneof=common rare epic legendary"`
	Price         int64  `json:"price" binding:"min=0"`
	XPBonus       int    `json:"xpBonus" binding:"min=0,max=100"`
	CoinBonus     int    `json:"coinBonus" binding:"min=0,max=100"`
	RequiredLevel int    `json:"requiredLevel" binding:"min=1"`
}

func (h *Handler) Catalog(c *gin.Context) {
	var f domain.EquipmentFilter
	if v := c.Query("type"); v != "" {
		t := domain.EquipmentType(v)
		if !t.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type"})
			return
		}
		f.Type = &t
	}
	if v := c.Query("rarity"); v != "" {
		r := domain.Rarity(v)
		if !r.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rarity"})
			return
		}
		f.Rarity = &r
	}
	items, err := h.Shop.Catalog(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) AvailableEquipment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	items, err := h.Shop.Available(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetEquipment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := h.Shop.GetEquipment(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) CreateEquipment(c *gin.Context) {
	var req createEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item := &domain.Equipment{
		Name:          req.Name,
		Description:   req.Description,
		Icon:          req.Icon,
		Type:          domain.EquipmentType(req.Type),
		Rarity:        domain.Rarity(req.Rarity),
		Price:         req.Price,
		Stats:         domain.EquipmentStats{XPBonus: req.XPBonus, CoinBonus: req.CoinBonus},
		RequiredLevel: req.RequiredLevel,
	}
	if err := h.Shop.CreateEquipment(c.Request.Context(), item); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) SyncCatalog(c *gin.Context) {
	added, err := h.Shop.SyncCatalog(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

func (h *Handler) Inventory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	items, err := h.Shop.Inventory(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "equipmentId")
	if !ok {
		return
	}
	ue, err := h.Shop.Purchase(c.Request.Context(), userID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ue)
}

func (h *Handler) Equip(c *gin.Context) {
	h.setEquipped(c, true)
}

func (h *Handler) Unequip(c *gin.Context) {
	h.setEquipped(c, false)
}

func (h *Handler) setEquipped(c *gin.Context, equip bool) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var (
		ue  *domain.UserEquipment
		err error
	)
	if equip {
		ue, err = h.Shop.Equip(c.Request.Context(), userID, id)
	} else {
		ue, err = h.Shop.Unequip(c.Request.Context(), userID, id)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ue)
}

func (h *Handler) EquippedStats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	stats, err := h.Shop.EquippedStats(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
