package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docinsight/internal/domain"
)

// StatusProvider reports the watcher's progress.
type StatusProvider interface {
	Ready() bool
	Status() domain.RunStatus
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	watcher StatusProvider
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(watcher StatusProvider) *HealthHandler {
	return &HealthHandler{watcher: watcher}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. The watcher is ready once its baseline snapshot is taken.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.watcher.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "baseline snapshot not taken"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status handles GET /api/v1/status
func (h *HealthHandler) Status(c *gin.Context) {
	RespondOK(c, h.watcher.Status())
}
