// Package api wires the HTTP surface: entity CRUD under /api, derived views
// under /api/attendance, and the operational endpoints /healthz and /metrics.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/logesh2496/imayavarman-silambam/internal/achievement"
	"github.com/logesh2496/imayavarman-silambam/internal/config"
	"github.com/logesh2496/imayavarman-silambam/internal/httpmiddleware"
	"github.com/logesh2496/imayavarman-silambam/internal/logbook"
	"github.com/logesh2496/imayavarman-silambam/internal/report"
	"github.com/logesh2496/imayavarman-silambam/internal/store"
	"github.com/logesh2496/imayavarman-silambam/internal/student"
)

// Handlers bundles the services behind the HTTP surface.
type Handlers struct {
	students     *student.Service
	logs         *logbook.Service
	achievements *achievement.Service
	reports      *report.Service
	log          *zap.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(students *student.Service, logs *logbook.Service, achievements *achievement.Service, reports *report.Service, log *zap.Logger) *Handlers {
	return &Handlers{
		students:     students,
		logs:         logs,
		achievements: achievements,
		reports:      reports,
		log:          log,
	}
}

// NewRouter builds the gin engine with the full middleware chain and routes.
func NewRouter(cfg config.App, h *Handlers, db *store.DB, redis *store.Redis) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(httpmiddleware.AccessLog(h.log, "/healthz", "/metrics"))
	r.Use(corsMiddleware())
	r.Use(securityHeaders(cfg.Env))
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).Middleware())
	r.Use(httpmiddleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		dbHealthy := db != nil && db.Client.PingContext(c.Request.Context()) == nil
		redisHealthy := cfg.CacheBackend != "redis" && cfg.QueueBackend != "redis" || redis.Healthy(c.Request.Context())
		status := http.StatusOK
		if !dbHealthy || !redisHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
	})

	h.Register(r)
	return r
}

// Register attaches the API routes to an engine. Split from NewRouter so
// handler tests can run without the operational middleware.
func (h *Handlers) Register(r *gin.Engine) {
	apiGroup := r.Group("/api")

	apiGroup.GET("/students", h.listStudents)
	apiGroup.POST("/students", h.createStudent)
	apiGroup.GET("/students/:id", h.getStudent)
	apiGroup.PATCH("/students/:id", h.updateStudent)
	apiGroup.DELETE("/students/:id", h.deleteStudent)

	apiGroup.GET("/students/:id/logs", h.listStudentLogs)
	apiGroup.POST("/students/:id/logs", h.createStudentLog)
	apiGroup.GET("/students/:id/achievements", h.listAchievements)
	apiGroup.POST("/students/:id/achievements", h.createAchievement)
	apiGroup.GET("/students/:id/medals", h.medalTally)

	apiGroup.GET("/logs", h.listLogs)
	apiGroup.DELETE("/logs/:id", h.deleteLog)

	apiGroup.GET("/attendance/matrix", h.attendanceMatrix)
	apiGroup.GET("/attendance/matrix/export", h.exportAttendanceMatrix)
	apiGroup.POST("/attendance/mark-all", h.markAllPresent)
}

// CORS middleware for browser requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware.
func securityHeaders(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if env == "production" || env == "prod" {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
