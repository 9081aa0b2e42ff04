package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether the backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the operational endpoints: health checks and metrics.
type Handler struct {
	store        Pinger
	gatherer     prometheus.Gatherer
	readyTimeout time.Duration
	now          func() time.Time
}

func NewHandler(store Pinger, gatherer prometheus.Gatherer) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		store:        store,
		gatherer:     gatherer,
		readyTimeout: 2 * time.Second,
		now:          time.Now,
	}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	Respond(c, http.StatusOK, gin.H{
		"status": "alive",
		"time":   h.now().UTC(),
	})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.readyTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("readiness check failed")
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse("store unavailable"))
		return
	}
	Respond(c, http.StatusOK, gin.H{
		"status": "ready",
		"time":   h.now().UTC(),
	})
}

func (h *Handler) MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}
