package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/unilite/internal/api/http"
	"github.com/GriffinCanCode/unilite/internal/api/middleware"
	"github.com/GriffinCanCode/unilite/internal/domain/proxy"
	"github.com/GriffinCanCode/unilite/internal/domain/session"
	"github.com/GriffinCanCode/unilite/internal/domain/stats"
	"github.com/GriffinCanCode/unilite/internal/infrastructure/config"
	"github.com/GriffinCanCode/unilite/internal/infrastructure/logging"
	"github.com/GriffinCanCode/unilite/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/unilite/internal/mockorigin"
	"github.com/GriffinCanCode/unilite/internal/providers/http/client"
	"github.com/GriffinCanCode/unilite/internal/providers/transform"
)

const staticMaxAge = 24 * time.Hour

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	handler  http.Handler
	sessions *session.Registry
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		logger = logging.NewDefault()
		logger.Warn("Invalid log level, using default", zap.String("level", cfg.Logging.Level))
	}
	return newServer(cfg, logger)
}

func newServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	logger.Info("Initializing UniLite proxy",
		zap.String("port", cfg.Server.Port),
		zap.String("origin", cfg.Origin.BaseURL),
		zap.Bool("mock_origin", cfg.Mock.Enabled),
	)

	metrics := monitoring.NewMetrics()

	sessions := session.NewRegistry(session.Options{
		TTL:      cfg.Session.TTL,
		Observer: metrics,
		Logger:   logger,
	})

	factory := client.NewFactory(sessions, client.Options{
		Timeout:      cfg.Origin.Timeout,
		MaxRedirects: cfg.Origin.MaxRedirects,
		UserAgent:    cfg.Origin.UserAgent,
		RateLimit:    cfg.Origin.RateLimitRPS,
		Metrics:      metrics,
		Logger:       logger,
	})

	pipeline, err := transform.New(cfg.Origin.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build transform pipeline: %w", err)
	}
	pipeline.WithLogger(logger)

	proxyService, err := proxy.NewService(factory, pipeline, proxy.Options{
		BaseURL: cfg.Origin.BaseURL,
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build proxy service: %w", err)
	}

	staticCache, err := middleware.StaticCache(cfg.Static.CacheGlobs, staticMaxAge)
	if err != nil {
		return nil, err
	}

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Named("access")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := api.NewHandlers(api.Deps{
		Proxy:     proxyService,
		Sessions:  sessions,
		Stats:     stats.NewCache(metrics),
		Breaker:   factory,
		StaticDir: cfg.Static.Dir,
		Logger:    logger,
	})

	// Register routes
	handlers.Routes(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	if cfg.Mock.Enabled {
		mockorigin.RegisterRoutes(router)
		logger.Info("Mock origin mounted",
			zap.String("dashboard", mockorigin.DashboardPath),
			zap.String("login", mockorigin.LoginPath),
		)
	}
	router.NoRoute(staticCache, handlers.Static())

	gzip, err := gzhttp.NewWrapper(gzhttp.MinSize(gzhttp.DefaultMinSize))
	if err != nil {
		return nil, fmt.Errorf("failed to build compression wrapper: %w", err)
	}

	logger.Info("Server initialized successfully")

	return &Server{
		router:   router,
		handler:  gzip(router),
		sessions: sessions,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Handler returns the compressed root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.Run(sweepCtx, s.config.Session.SweepInterval)

	s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	_ = s.logger.Sync()
	return nil
}
