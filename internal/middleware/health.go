package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthStatus struct {
	Status      string    `json:"status"`
	Database    string    `json:"database"`
	LastChecked time.Time `json:"last_checked"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
}

// HealthChecker reports liveness and database reachability. Results are cached
// for cacheDuration.
type HealthChecker struct {
	db            Pinger
	logger        *zap.Logger
	version       string
	startTime     time.Time
	cacheDuration time.Duration
	now           func() time.Time

	mu   sync.Mutex
	last *HealthStatus
}

func NewHealthChecker(db Pinger, version string, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		db:            db,
		logger:        logger,
		version:       version,
		startTime:     time.Now(),
		cacheDuration: 5 * time.Second,
		now:           time.Now,
	}
}

func (h *HealthChecker) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := h.check(c.Request.Context())
		code := http.StatusOK
		if status.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}

func (h *HealthChecker) check(ctx context.Context) HealthStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if h.last != nil && now.Sub(h.last.LastChecked) < h.cacheDuration {
		status := *h.last
		status.Uptime = now.Sub(h.startTime).Round(time.Second).String()
		return status
	}

	status := HealthStatus{
		Status:      "ok",
		Database:    "ok",
		LastChecked: now,
		Uptime:      now.Sub(h.startTime).Round(time.Second).String(),
		Version:     h.version,
	}
	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(pingCtx); err != nil {
			h.logger.Warn("Health check: database unreachable", zap.Error(err))
			status.Status = "degraded"
			status.Database = "unreachable"
		}
	}

	h.last = &status
	return status
}
