// Package server exposes the claim extraction pipeline and claim store
// over a small REST surface.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vanadhikar/fra-claims/internal/common"
)

// Server wraps the HTTP server instance and its routes.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New builds and wires all routes.
func New(cfg common.ServerConfig, h *Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// the review dashboard calls the /api prefix; bare paths are kept for
	// direct integrations
	mountRoutes(r, h)
	r.Route("/api", func(api chi.Router) {
		mountRoutes(api, h)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: r,
		},
		logger: logger,
	}
}

func mountRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", h.Health)
	r.Post("/upload-document", h.UploadDocument)
	r.Post("/save-claim", h.SaveClaim)
	r.Get("/claims", h.ListClaims)
	r.Get("/claims/export", h.ExportClaims)
	r.Get("/claim/{id}", h.GetClaim)
	r.Put("/claim/{id}/status", h.UpdateClaimStatus)
	r.Delete("/claims/{id}", h.DeleteClaim)
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
