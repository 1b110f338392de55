package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pushup-tracker/internal/model"
	"pushup-tracker/internal/service"
)

// ActivityHandler exposes the state-changing operations over HTTP.
type ActivityHandler struct {
	svc *service.ActivityService
}

func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

type registerRequest struct {
	Username   string   `json:"username"`
	WeightLbs  *float64 `json:"weightLbs"`
	Weight     *float64 `json:"weight"`
	CreateOnly bool     `json:"createOnly"`
}

type logRequest struct {
	Username string  `json:"username"`
	Count    float64 `json:"count"`
}

type undoRequest struct {
	Username string `json:"username"`
}

// GetUser handles GET /api/users?username=
func (h *ActivityHandler) GetUser(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), c.Query("username"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"exists": false, "user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"exists": true,
		"user": gin.H{
			"username":  user.Username,
			"weightLbs": user.WeightLbs,
			"createdAt": user.CreatedAt,
		},
	})
}

// Register handles POST /api/users
func (h *ActivityHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	weight := req.WeightLbs
	if weight == nil {
		weight = req.Weight
	}
	stored, err := h.svc.Register(c.Request.Context(), req.Username, weight, req.CreateOnly)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"user":      model.NormalizeUsername(req.Username),
		"weightLbs": stored,
	})
}

// Log handles POST /api/log
func (h *ActivityHandler) Log(c *gin.Context) {
	var req logRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	totals, err := h.svc.Log(c.Request.Context(), req.Username, req.Count)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"today":           totals.Today,
		"allTime":         totals.AllTime,
		"todayCalories":   totals.TodayCalories,
		"allTimeCalories": totals.AllTimeCalories,
	})
}

// Undo handles POST /api/undo
func (h *ActivityHandler) Undo(c *gin.Context) {
	var req undoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.UndoLast(c.Request.Context(), req.Username)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"undone":          result.Undone,
		"today":           result.Today,
		"allTime":         result.AllTime,
		"todayCalories":   result.TodayCalories,
		"allTimeCalories": result.AllTimeCalories,
	})
}
