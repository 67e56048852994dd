package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/healthecon360/analytics-api/internal/handler"
	"github.com/healthecon360/analytics-api/internal/middleware"
	"github.com/healthecon360/analytics-api/internal/model"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine          *gin.Engine
	auth            *middleware.AuthMiddleware
	authH           Handler
	pricingH        Handler
	resourceH       Handler
	outcomeH        Handler
	recommendationH Handler
	analyticsH      Handler
	dashboardH      Handler
	datasetH        Handler
	h               *handler.Handler
	metrics         *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	RateLimit        rate.Limit
	RateBurst        int
	RateLimitEnabled bool
	RequestTimeout   time.Duration
	CORSConfig       middleware.CORSConfig
	MetricsPrefix    string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH Handler,
	pricingH Handler,
	resourceH Handler,
	outcomeH Handler,
	recommendationH Handler,
	analyticsH Handler,
	dashboardH Handler,
	datasetH Handler,
	h *handler.Handler,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:          engine,
		auth:            auth,
		authH:           authH,
		pricingH:        pricingH,
		resourceH:       resourceH,
		outcomeH:        outcomeH,
		recommendationH: recommendationH,
		analyticsH:      analyticsH,
		dashboardH:      dashboardH,
		datasetH:        datasetH,
		h:               h,
		metrics:         initRouterMetrics(config.MetricsPrefix),
	}

	timeout := config.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	engine.Use(
		middleware.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: timeout}),
		middleware.RequestID(),
		middleware.SizeLimit(middleware.DefaultSizeLimitConfig()),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	// Public routes
	r.authH.RegisterRoutes(api)

	// Protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	// Reports are expensive to compute and safe to cache briefly.
	reports := protected.Group("")
	reports.Use(middleware.Cache(middleware.DefaultCacheConfig()))
	r.analyticsH.RegisterRoutes(reports)

	r.dashboardH.RegisterRoutes(protected)

	// Datasets are readable by anyone authenticated; mutations need analysts.
	data := protected.Group("")
	data.Use(r.auth.RequireRoleForWrites(model.RoleAnalyst))
	r.pricingH.RegisterRoutes(data)
	r.resourceH.RegisterRoutes(data)
	r.outcomeH.RegisterRoutes(data)
	r.recommendationH.RegisterRoutes(data)
	r.datasetH.RegisterRoutes(data)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("", r.h.HealthCheck)
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}

func (r *Router) Use(middleware ...gin.HandlerFunc) {
	r.engine.Use(middleware...)
}
