package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikey/email-guardian/internal/config"
	"github.com/mikey/email-guardian/internal/core"
	"go.uber.org/zap"
)

const (
	serviceName    = "Email Guardian API"
	serviceVersion = "1.0.0"
)

// Server exposes the guard service over HTTP
type Server struct {
	service    *core.GuardService
	logger     *zap.Logger
	cfg        config.APIConfig
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer creates the HTTP API. An API key is required.
func NewServer(service *core.GuardService, logger *zap.Logger, cfg config.APIConfig) (*Server, error) {
	if cfg.Key == "" {
		return nil, fmt.Errorf("api.key must be set to start the API server")
	}
	if cfg.DefaultHistoryLimit <= 0 {
		cfg.DefaultHistoryLimit = 10
	}

	s := &Server{
		service: service,
		logger:  logger,
		cfg:     cfg,
	}
	s.router = s.newRouter()

	return s, nil
}

func (s *Server) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(s.logger), Recovery(s.logger), CORS(s.cfg.CORSAllowedOrigins))

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)

	protected := router.Group("/", APIKeyAuth(s.cfg.Key, s.logger))
	{
		protected.POST("/scan", s.handleScan)
		protected.GET("/history", s.handleHistory)
		protected.GET("/stats", s.handleStats)
	}

	return router
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts listening in the background
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.ListenAddress,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("API server starting", zap.String("address", s.cfg.ListenAddress))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
