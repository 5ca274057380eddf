package server

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shieldgate/widgethost/internal/api/middleware"
	"github.com/shieldgate/widgethost/internal/boundary"
	"github.com/shieldgate/widgethost/internal/http"
	"github.com/shieldgate/widgethost/internal/infrastructure/config"
	"github.com/shieldgate/widgethost/internal/infrastructure/monitoring"
	"github.com/shieldgate/widgethost/internal/logging"
	"github.com/shieldgate/widgethost/internal/messenger"
	"github.com/shieldgate/widgethost/internal/page"
	"github.com/shieldgate/widgethost/internal/ws"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and dependencies.
type Server struct {
	router  *gin.Engine
	pages   *page.Manager
	metrics *monitoring.Metrics
	logger  *logging.Logger
	httpSrv *nethttp.Server
}

// NewServer creates a fully wired server instance.
func NewServer(cfg *config.Config, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewDefault()
	}

	var loader *boundary.Loader
	if cfg.Challenge.Prefetch {
		loader = boundary.NewLoader(logger)
	}
	factory := boundary.NewFactory(cfg.Challenge.Origin, loader)

	metrics := monitoring.NewMetrics()
	pages := page.NewManager(factory, messenger.New(logger), logger)

	handlers := http.NewHandlers(pages, metrics, logger)
	wsHandler := ws.NewHandler(pages, metrics, logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(metrics.Middleware())
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", metrics.Handler())

	// Page hosting
	router.POST("/pages", handlers.LoadPage)
	router.DELETE("/pages/:id", handlers.ClosePage)

	// Widget lifecycle
	router.GET("/pages/:id/widgets", handlers.ListWidgets)
	router.POST("/pages/:id/widgets/render", handlers.RenderWidget)
	router.POST("/pages/:id/widgets/execute", handlers.ExecuteWidget)
	router.POST("/pages/:id/widgets/reset", handlers.ResetWidget)
	router.POST("/pages/:id/widgets/remove", handlers.RemoveWidget)

	// Boundary event ingress
	router.GET("/events", wsHandler.HandleConnection)

	return &Server{
		router:  router,
		pages:   pages,
		metrics: metrics,
		logger:  logger,
	}
}

// Router exposes the configured engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the server and blocks until it stops serving.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting widget host", zap.String("addr", addr))

	s.httpSrv = &nethttp.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.httpSrv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and tears down all hosted pages.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}

	for _, p := range s.pages.List() {
		s.pages.Close(p.ID)
	}
	s.logger.Info("widget host stopped")
	return err
}
