package handlers

import (
	"taskboard/internal/config"
	"taskboard/internal/middleware"
	"taskboard/internal/monitoring"
	"taskboard/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RouterConfig carries the explicitly constructed collaborators the HTTP
// surface depends on.
type RouterConfig struct {
	Config      *config.Config
	DB          *gorm.DB
	TaskService services.TaskService
	Metrics     *monitoring.Metrics
	Health      *monitoring.HealthChecker
	Limiter     middleware.RateLimiter
}

func NewRouter(rc RouterConfig) *gin.Engine {
	if rc.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RecoveryWithLog())
	if rc.Metrics != nil {
		router.Use(rc.Metrics.Middleware())
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: rc.Config.CORS.AllowOrigins,
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-User-Id", "X-Request-Id", "Authorization"},
	}))
	if rc.Limiter != nil {
		router.Use(middleware.RateLimit(rc.Limiter))
	}

	if rc.Health != nil {
		router.GET("/health", rc.Health.Handler())
	}
	if rc.Metrics != nil {
		router.GET("/metrics", rc.Metrics.Handler())
	}

	handler := NewTaskHandler(rc.DB, rc.TaskService)

	tasks := router.Group("/tasks")
	tasks.Use(middleware.Identity(rc.Config.Auth))
	tasks.POST("", handler.CreateTask)
	tasks.GET("", handler.ListTasks)
	tasks.GET("/:id", handler.GetTask)
	tasks.PATCH("/:id", handler.UpdateTask)
	tasks.DELETE("/:id", handler.DeleteTask)
	tasks.POST("/:id/archive", handler.ArchiveTask)
	tasks.POST("/:id/unarchive", handler.UnarchiveTask)

	return router
}
