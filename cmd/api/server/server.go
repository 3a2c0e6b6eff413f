package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"library-management-service/cmd/api/di"
	"library-management-service/internal/adapter/gin/router"
	"library-management-service/internal/config"
)

// Server struct holds the HTTP server and its dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance with the router wired from the container
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	engine := router.SetupRouter(
		c.BookHandler,
		c.AuthHandler,
		c.AuthUC,
		c.RedisClient.Client,
		c.RateLimit,
		l,
	)

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: &http.Server{
			Addr:              ":" + cfg.App.HTTPPort,
			Handler:           engine,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))
	return s.HTTP.ListenAndServe()
}
