package api

import (
	"net/http"

	"ecoip/internal/config"
	"ecoip/internal/geoip"
	"ecoip/internal/metrics"
	"ecoip/internal/server/api/middleware"
	av1 "ecoip/internal/server/api/v1"
	"ecoip/internal/version"
	"ecoip/internal/view"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Router handles all routing logic
type Router struct {
	engine   *gin.Engine
	config   *config.Config
	source   av1.Source
	renderer *view.Renderer
	geo      *geoip.Resolver
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewRouter creates and configures a new router. geo and m may be nil.
func NewRouter(cfg *config.Config, source av1.Source, renderer *view.Renderer, geo *geoip.Resolver, m *metrics.Metrics, logger *zap.Logger) (*Router, error) {
	// Set gin mode based on config
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		config:   cfg,
		source:   source,
		renderer: renderer,
		geo:      geo,
		metrics:  m,
		logger:   logger,
	}

	if err := r.engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, err
	}

	r.setupMiddleware()
	r.setupPages()
	r.setupAPIV1()
	r.setupOps()

	return r, nil
}

// Handler returns the HTTP handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// setupMiddleware configures all middleware
func (r *Router) setupMiddleware() {
	m := middleware.New(r.metrics, r.logger)

	r.engine.Use(m.RequestID())
	r.engine.Use(m.Logger())
	r.engine.Use(m.Recovery())
	r.engine.Use(m.Secure())

	if r.metrics != nil {
		r.engine.Use(m.Metrics())
	}

	r.engine.NoRoute(m.NotFound())
}

// setupPages configures the HTML routes
func (r *Router) setupPages() {
	m := middleware.New(r.metrics, r.logger)
	h := &pageHandler{
		source:    r.source,
		renderer:  r.renderer,
		heartbeat: r.config.Server.SSEHeartbeat,
		logger:    r.logger,
	}

	pages := r.engine.Group("/", m.NoCache())
	pages.GET("/", h.page)
	pages.GET("/section", h.section)
	pages.GET(r.config.Page.EventsPath, h.events)
}

// setupAPIV1 configures v1 API routes
func (r *Router) setupAPIV1() {
	m := middleware.New(r.metrics, r.logger)
	api := av1.NewAPI(r.source, r.renderer, r.geo, r.config.Server.EnableRefresh, r.logger)

	v1Router := r.engine.Group("/api/v1", m.NoCache())
	api.RegisterRoutes(v1Router)
}

// setupOps configures health, version and metrics routes
func (r *Router) setupOps() {
	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"lookup": r.source.Status().Get().Branch(),
		})
	})

	r.engine.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, version.GetInfo())
	})

	if r.metrics != nil && r.config.Metrics.Enabled {
		r.engine.GET(r.config.Metrics.Path, gin.WrapH(r.metrics.Handler()))
	}
}
