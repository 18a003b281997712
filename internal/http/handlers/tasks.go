package handlers

import (
	"net/http"
	"time"

	"questline/internal/domain"
	"questline/internal/service"

	"github.com/gin-gonic/gin"
)

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"max=2000"`
	Type        string     `json:"type" binding:"required,oneof=daily mission"`
	XPReward    int64      `json:"xpReward" binding:"required,min=1,max=100"`
	CoinReward  int64      `json:"coinReward" binding:"min=0,max=50"`
	DueDate     *time.Time `json:"dueDate"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	XPReward    *int64     `json:"xpReward" binding:"omitempty,min=1,max=100"`
	CoinReward  *int64     `json:"coinReward" binding:"omitempty,min=0,max=50"`
	DueDate     *time.Time `json:"dueDate"`
}

func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var f domain.TaskFilter
	if v := c.Query("type"); v != "" {
		t := domain.TaskType(v)
		f.Type = &t
	}
	tasks, err := h.Tasks.List(c.Request.Context(), userID, f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.Tasks.Create(c.Request.Context(), userID, service.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.TaskType(req.Type),
		XPReward:    req.XPReward,
		CoinReward:  req.CoinReward,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	task, err := h.Tasks.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, err := h.Tasks.Update(c.Request.Context(), userID, id, domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		XPReward:    req.XPReward,
		CoinReward:  req.CoinReward,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Tasks.Delete(c.Request.Context(), userID, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// CompleteTask grants the task reward. The response carries XP, coins,
// level state and any achievements unlocked by this completion.
func (h *Handler) CompleteTask(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	result, err := h.Rewards.GrantTaskReward(c.Request.Context(), userID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) CompletionHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	page := pageQuery(c)
	items, total, err := h.Tasks.History(c.Request.Context(), userID, page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"completions": items,
		"total":       total,
		"page":        page.Number,
		"limit":       page.Limit,
	})
}

func (h *Handler) TaskStatistics(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	stats, err := h.Tasks.Statistics(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ResetDaily(c *gin.Context) {
	res := h.Resetter.ForceReset(c.Request.Context())
	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, res)
}
