package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/procureflow/backend/internal/infrastructure/scheduler"
	"github.com/procureflow/backend/internal/interfaces/http/dto"
)

// SystemHandler serves health checks and operational endpoints
type SystemHandler struct {
	BaseHandler
	db        *gorm.DB
	scheduler *scheduler.QuoteExpirationScheduler
	appName   string
	startedAt time.Time
}

// NewSystemHandler creates a new system handler. The scheduler may be nil
// when quote expiration runs elsewhere.
func NewSystemHandler(db *gorm.DB, sched *scheduler.QuoteExpirationScheduler, appName string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		scheduler: sched,
		appName:   appName,
		startedAt: time.Now().UTC(),
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(r *gin.Engine, api *gin.RouterGroup) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)

	admin := api.Group("/admin")
	{
		admin.POST("/quote-expiration/run", h.TriggerQuoteExpiration)
		admin.GET("/quote-expiration/status", h.QuoteExpirationStatus)
	}
}

// Health handles GET /health. It reports liveness only.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"app":     h.appName,
		"uptime":  time.Since(h.startedAt).Truncate(time.Second).String(),
		"started": h.startedAt,
	})
}

// Ready handles GET /ready. It verifies the database connection.
func (h *SystemHandler) Ready(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// TriggerQuoteExpiration handles POST /admin/quote-expiration/run. It runs
// one expiration sweep immediately and returns its stats.
func (h *SystemHandler) TriggerQuoteExpiration(c *gin.Context) {
	if h.scheduler == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInternal, "Quote expiration scheduler is not configured")
		return
	}

	stats, err := h.scheduler.TriggerNow(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrSchedulerNotRunning):
			h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInternal, "Quote expiration scheduler is not running")
		case errors.Is(err, scheduler.ErrSweepAlreadyRunning):
			h.Error(c, http.StatusConflict, dto.ErrCodeConflict, "A quote expiration sweep is already in progress")
		default:
			h.HandleError(c, err)
		}
		return
	}

	h.Success(c, stats)
}

// QuoteExpirationStatus handles GET /admin/quote-expiration/status
func (h *SystemHandler) QuoteExpirationStatus(c *gin.Context) {
	if h.scheduler == nil {
		h.Success(c, gin.H{"enabled": false})
		return
	}

	h.Success(c, gin.H{
		"enabled":    true,
		"running":    h.scheduler.IsRunning(),
		"last_sweep": h.scheduler.LastStats(),
	})
}
