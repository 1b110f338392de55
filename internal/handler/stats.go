package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pushup-tracker/internal/model"
	"pushup-tracker/internal/service"
)

// StatsHandler exposes the read-only aggregate queries over HTTP.
type StatsHandler struct {
	stats *service.StatsService
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Leaderboard handles GET /api/leaderboard
func (h *StatsHandler) Leaderboard(c *gin.Context) {
	rows, err := h.stats.Leaderboard(c.Request.Context())
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"updatedAt":   time.Now().UnixMilli(),
		"leaderboard": rows,
	})
}

// History handles GET /api/history?username=&mode=&days|hours|months=
func (h *StatsHandler) History(c *gin.Context) {
	username := model.NormalizeUsername(c.Query("username"))
	if username == "" {
		fail(c, http.StatusBadRequest, "username required")
		return
	}

	mode := service.HistoryMode(c.Query("mode"))
	var countField string
	switch mode {
	case service.ModeHour:
		countField = "hours"
	case service.ModeMonth:
		countField = "months"
	default:
		mode = service.ModeDay
		countField = "days"
	}

	requested, _ := strconv.Atoi(c.Query(countField))
	n := service.ClampBuckets(mode, requested)

	buckets, err := h.stats.History(c.Request.Context(), username, mode, n)
	if err != nil {
		failFromErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":     username,
		"mode":     mode,
		countField: n,
		"data":     buckets,
	})
}
