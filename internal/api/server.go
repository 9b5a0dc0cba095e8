// Package api exposes the pipeline over a thin JSON HTTP surface.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfminer/shelfminer/internal/config"
	"github.com/shelfminer/shelfminer/internal/pipeline"
)

// Server serves the scraper API.
type Server struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
	httpSrv  *http.Server
}

// NewServer creates the API server and mounts its routes.
func NewServer(cfg *config.Config, p *pipeline.Pipeline, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		pipeline: p,
		logger:   logger.With("component", "api_server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.API.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/sites", s.handleSites)
	r.Post("/api/scrape", s.handleScrape)
	r.Post("/api/process", s.handleProcess)

	s.httpSrv = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.API.Port),
		Handler: r,
	}
	return s
}

// Handler returns the mounted router, for tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

// Start serves until the context is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting", "addr", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.API.ShutdownTimeout)
	defer cancel()
	s.logger.Info("API server shutting down")
	return s.httpSrv.Shutdown(shutdownCtx)
}
