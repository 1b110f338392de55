package router

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pushup-tracker/internal/config"
	"pushup-tracker/internal/handler"
	"pushup-tracker/internal/repository"
	"pushup-tracker/internal/service"
)

// Setup configures the Gin engine: API routes plus the static web client.
func Setup(cfg *config.Config, activity *service.ActivityService, stats *service.StatsService, entries *repository.EntryRepository) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.CorsOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.CorsOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	activityHandler := handler.NewActivityHandler(activity)
	statsHandler := handler.NewStatsHandler(stats)
	exportHandler := handler.NewExportHandler(entries)

	api := r.Group("/api")
	api.GET("/users", activityHandler.GetUser)
	api.POST("/users", activityHandler.Register)
	api.POST("/log", activityHandler.Log)
	api.POST("/undo", activityHandler.Undo)
	api.GET("/leaderboard", statsHandler.Leaderboard)
	api.GET("/history", statsHandler.History)
	api.GET("/export/csv", exportHandler.ExportCSV)
	api.GET("/export/xlsx", exportHandler.ExportXLSX)

	registerStatic(r, cfg.Server.PublicDir)

	return r
}

// registerStatic serves the web client from the public dir at the site
// root, leaving /api untouched. Skipped when the dir does not exist.
func registerStatic(r *gin.Engine, dir string) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}
	fs := http.FileServer(http.Dir(dir))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method == http.MethodGet && !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			fs.ServeHTTP(c.Writer, c.Request)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
}
