package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/cheersai/campaign-engine/internal/logger"
)

const (
	healthCheckTimeout   = 2 * time.Second
	healthStatusHealthy  = "healthy"
	healthStatusDegraded = "degraded"
)

// Pinger checks a dependency's liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router wires the engine's HTTP routes.
type Router struct {
	handlers    *Handlers
	db          Pinger
	redisClient *redis.Client // optional
	registry    *prometheus.Registry
	debug       bool
}

// NewRouter creates a new API router. redisClient may be nil when summary
// events are disabled.
func NewRouter(handlers *Handlers, db Pinger, redisClient *redis.Client, registry *prometheus.Registry, debug bool) *Router {
	return &Router{
		handlers:    handlers,
		db:          db,
		redisClient: redisClient,
		registry:    registry,
		debug:       debug,
	}
}

// Engine builds the gin engine with all routes registered. Non-POST
// requests to /run receive a 405.
func (r *Router) Engine(log logger.Logger) *gin.Engine {
	if !r.debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.HandleMethodNotAllowed = true
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"ok":    false,
			"error": "method not allowed",
		})
	})

	engine.POST("/run", r.handlers.TriggerRun)
	engine.GET("/health", r.health)
	engine.GET("/api/v1/stats", r.handlers.GetStats)

	if r.registry != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))
	}

	return engine
}

func (r *Router) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := healthStatusHealthy
	checks := gin.H{}

	if err := r.db.Ping(ctx); err != nil {
		status = healthStatusDegraded
		checks["database"] = err.Error()
	} else {
		checks["database"] = "ok"
	}

	if r.redisClient != nil {
		if err := r.redisClient.Ping(ctx).Err(); err != nil {
			status = healthStatusDegraded
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	code := http.StatusOK
	if status != healthStatusHealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": "campaign-engine",
		"checks":  checks,
	})
}
