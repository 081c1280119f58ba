// Package api provides the HTTP trigger surface for the campaign engine.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cheersai/campaign-engine/internal/domain"
	"github.com/cheersai/campaign-engine/internal/logger"
)

// BatchRunner is the trigger surface of the worker's batch runner.
type BatchRunner interface {
	Run(ctx context.Context, now time.Time) (int, error)
}

// StatsSource provides content pipeline counts.
type StatsSource interface {
	Stats(ctx context.Context) (*domain.ContentStats, error)
}

// Handlers provides HTTP handlers for the engine API.
type Handlers struct {
	runner  BatchRunner
	stats   StatsSource
	logger  logger.Logger
	version string
}

// NewHandlers creates a new handlers instance.
func NewHandlers(runner BatchRunner, stats StatsSource, log logger.Logger, version string) *Handlers {
	return &Handlers{
		runner:  runner,
		stats:   stats,
		logger:  log,
		version: version,
	}
}

// TriggerRun handles POST /run: one full materialisation pass. Only a
// failure to load the campaign list surfaces here; per-campaign failures
// are absorbed by the runner.
func (h *Handlers) TriggerRun(c *gin.Context) {
	created, err := h.runner.Run(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.logger.Error("batch run failed",
			logger.Error(err),
			logger.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"created": created,
	})
}

// GetStats handles GET /api/v1/stats.
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to get stats",
			logger.Error(err),
			logger.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve statistics",
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}
