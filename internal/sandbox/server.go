package sandbox

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ochronus/gopastebin/internal/app"
	"github.com/ochronus/gopastebin/internal/config"
	"github.com/sirupsen/logrus"
)

// Server represents the sandbox HTTP server
type Server struct {
	container *app.Container
	config    *config.SandboxConfig
	handler   *Handler
	logger    *logrus.Logger
	router    *gin.Engine
	srv       *http.Server
}

// NewServer creates a new sandbox server with an empty store
func NewServer(container *app.Container) (*Server, error) {
	cfg := &container.Config.Sandbox

	// Set gin mode based on log level
	if container.Config.Loglevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := NewStore(cfg.Capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create paste store: %w", err)
	}
	metrics := NewMetrics(func() float64 { return float64(store.Len()) })
	accounts := NewAccounts(cfg.DevKeys, cfg.Accounts)
	handler := NewHandler(cfg, store, accounts, metrics, container.Logger)

	router := gin.New()

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add logging middleware
	router.Use(requestLogger(container.Logger))

	// Register routes
	router.POST("/api/api_login.php", handler.Login)
	router.POST("/api/api_post.php", handler.Post)
	router.POST("/api/api_raw.php", handler.Raw)
	router.GET("/raw/:key", handler.PublicRaw)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return &Server{
		container: container,
		config:    cfg,
		handler:   handler,
		logger:    container.Logger,
		router:    router,
	}, nil
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("request")
	}
}

// Start starts the HTTP server with a background context.
func (s *Server) Start() error {
	return s.StartWithContext(context.Background())
}

// StartWithContext starts the HTTP server and shuts down gracefully when the context is canceled.
func (s *Server) StartWithContext(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.BindAddress, s.config.Port)
	s.logger.Infof("Starting sandbox at http://%s", addr)

	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

// GetRouter returns the underlying gin router (useful for testing)
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
