package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskman/internal/infrastructure/config"
)

// Server is the taskman REST backend
type Server struct {
	cfg    config.ServerConfig
	router *gin.Engine
	logger *log.Logger
}

// NewServer creates a new server with every route mounted
func NewServer(cfg config.ServerConfig, tasks *TaskHandler, db Pinger, logger *log.Logger) *Server {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestID(),
		AccessLog(logger),
		CORS(cfg.AllowedOrigins),
	)

	router.GET("/health", healthHandler)
	router.GET("/readyz", readyzHandler(db))
	tasks.Register(router)

	return &Server{
		cfg:    cfg,
		router: router,
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", ln.Addr())
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

	s.logger.Printf("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
