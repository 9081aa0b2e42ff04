package router

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

// Handler mounts its routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// AuthHandler has public and protected routes.
type AuthHandler interface {
	Handler
	RegisterProtectedRoutes(*gin.RouterGroup)
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	authH   AuthHandler
	routes  []Handler
	h       *handler.Handler
	metrics *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	RateLimit     rate.Limit
	RateBurst     int
	Timeout       time.Duration
	MaxBodySize   int64
	CORSConfig    middleware.CORSConfig
	Security      middleware.SecurityConfig
	MetricsPrefix string
	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH AuthHandler,
	h *handler.Handler,
	config RouterConfig,
	routes ...Handler,
) (*Router, error) {
	if err := validator.RegisterGin(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	engine := gin.New()

	r := &Router{
		engine:  engine,
		auth:    auth,
		authH:   authH,
		routes:  routes,
		h:       h,
		metrics: initRouterMetrics(config.MetricsPrefix, config.Registerer),
	}

	if config.MaxBodySize <= 0 {
		config.MaxBodySize = middleware.DefaultMaxBodySize
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		r.metricsMiddleware(),
		middleware.CORS(config.CORSConfig),
		middleware.SecurityHeaders(config.Security),
		middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		}).RateLimit(),
		middleware.SizeLimit(config.MaxBodySize),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
		middleware.ErrorHandler(),
	)

	r.setup()
	return r, nil
}

func (r *Router) setup() {
	api := r.engine.Group("/api")

	r.setupHealthCheck(api)
	api.GET("/metrics", r.h.MetricsHandler())

	r.authH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.authH.RegisterProtectedRoutes(protected)
	for _, h := range r.routes {
		h.RegisterRoutes(protected)
	}
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string, reg prometheus.Registerer) *routerMetrics {
	if prefix == "" {
		prefix = "hospital_api"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &routerMetrics{
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "class"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		code := c.Writer.Status()
		status := strconv.Itoa(code)

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		switch {
		case code >= 500:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "server").Inc()
		case code >= 400:
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "client").Inc()
		}
	}
}
