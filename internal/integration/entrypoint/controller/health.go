package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func(ctx context.Context) bool

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker    HealthChecker
	redisHealthChecker HealthChecker
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
// A nil redis checker reports the cache as disabled.
func NewHealthController(dbHealthChecker, redisHealthChecker HealthChecker) *HealthController {
	return &HealthController{
		dbHealthChecker:    dbHealthChecker,
		redisHealthChecker: redisHealthChecker,
	}
}

// Check handles GET /health requests.
// The service is degraded when the database is unreachable.
func (h *HealthController) Check(c *gin.Context) {
	reqCtx := c.Request.Context()

	status := "ok"
	statusCode := http.StatusOK

	dbStatus := "disconnected"
	if h.dbHealthChecker != nil && h.dbHealthChecker(reqCtx) {
		dbStatus = "connected"
	} else {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	cacheStatus := "disabled"
	if h.redisHealthChecker != nil {
		cacheStatus = "disconnected"
		if h.redisHealthChecker(reqCtx) {
			cacheStatus = "connected"
		}
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Database:  dbStatus,
		Cache:     cacheStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
