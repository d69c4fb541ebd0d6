package http

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/unilite/internal/domain/proxy"
	"github.com/GriffinCanCode/unilite/internal/domain/session"
	"github.com/GriffinCanCode/unilite/internal/domain/stats"
	"github.com/GriffinCanCode/unilite/internal/infrastructure/logging"
	"github.com/GriffinCanCode/unilite/internal/infrastructure/resilience"
)

// BreakerReporter exposes the origin circuit state for health checks.
type BreakerReporter interface {
	BreakerState() resilience.State
}

// Handlers contains all HTTP handlers
type Handlers struct {
	proxy     *proxy.Service
	sessions  *session.Registry
	stats     *stats.Cache
	breaker   BreakerReporter
	staticDir string
	static    http.FileSystem
	logger    *logging.Logger
}

// Deps bundles what the handlers need.
type Deps struct {
	Proxy     *proxy.Service
	Sessions  *session.Registry
	Stats     *stats.Cache
	Breaker   BreakerReporter
	StaticDir string
	Logger    *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(deps Deps) *Handlers {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	return &Handlers{
		proxy:     deps.Proxy,
		sessions:  deps.Sessions,
		stats:     deps.Stats,
		breaker:   deps.Breaker,
		staticDir: deps.StaticDir,
		static:    gin.Dir(deps.StaticDir, false),
		logger:    deps.Logger.Named("http"),
	}
}

// Health reports liveness plus session and origin breaker state.
func (h *Handlers) Health(c *gin.Context) {
	breaker := "unknown"
	if h.breaker != nil {
		breaker = h.breaker.BreakerState().String()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"sessions": h.sessions.Len(),
		"breaker":  breaker,
	})
}

// Static serves the client shell for unmatched GET requests. Directory
// listings are disabled.
func (h *Handlers) Static() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.FileFromFS(c.Request.URL.Path, h.static)
	}
}

func (h *Handlers) serveIndex(c *gin.Context) {
	c.File(filepath.Join(h.staticDir, "index.html"))
}

// Routes mounts the proxy, session, data and health endpoints.
func (h *Handlers) Routes(r gin.IRouter) {
	r.GET("/proxy", h.Proxy)
	r.POST("/proxy", h.Proxy)
	r.POST("/", h.Root)
	r.POST("/proxy-login", h.ProxyLogin)

	api := r.Group("/api")
	api.GET("/session/new", h.NewSession)
	api.GET("/session/:id", h.GetSession)
	api.DELETE("/session/:id", h.DeleteSession)
	api.GET("/data", h.Data)

	r.GET("/health", h.Health)
}
