package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Server wraps the HTTP server around the configured gin engine.
type Server struct {
	http   *http.Server
	logger *slog.Logger
}

// New creates a new server instance
func New(router *gin.Engine, addr string, logger *slog.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		logger: logger,
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
