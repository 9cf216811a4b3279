// Package api assembles the career coach HTTP server.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Fozan3060/ai-career-coach/internal/config"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
	"github.com/Fozan3060/ai-career-coach/internal/middleware"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 120 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// Server is an HTTP server with lifecycle management. Write timeout is long
// because agent endpoints hold the request open while a run is polled to
// completion.
type Server struct {
	server *http.Server
	log    logger.Logger
	name   string
}

// NewServer creates an HTTP server for the given service. setupRoutes is
// called after the standard middleware has been applied.
func NewServer(svc *config.ServiceConfig, log logger.Logger, setupRoutes func(*gin.Engine)) *Server {
	if svc.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(nil))

	if setupRoutes != nil {
		setupRoutes(router)
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", svc.Port),
			Handler:      router,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
		log:  log,
		name: svc.Name,
	}
}

// Run starts the server and blocks until SIGINT/SIGTERM or context
// cancellation, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server",
			logger.String("service", s.name),
			logger.String("address", s.server.Addr),
		)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		s.log.Info("Shutdown signal received", logger.String("signal", sig.String()))
	case <-ctx.Done():
		s.log.Info("Context cancelled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.log.Info("HTTP server stopped gracefully")
	return nil
}
