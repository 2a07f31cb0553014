// Package server provides the HTTP API for Senko.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/senko/internal/config"
	"github.com/hyperjump/senko/internal/matcher"
	"github.com/hyperjump/senko/internal/records"
)

// Server is the HTTP server for the Senko API.
type Server struct {
	matcher *matcher.Matcher
	records records.Store
	config  *config.ServerConfig
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	m *matcher.Matcher,
	recordStore records.Store,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		matcher: m,
		records: recordStore,
		config:  cfg,
		logger:  logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/postings", s.handleCreatePosting)
	r.Get("/api/v1/postings", s.handleListPostings)
	r.Get("/api/v1/postings/{id}", s.handleGetPosting)
	r.Delete("/api/v1/postings/{id}", s.handleDeletePosting)
	r.Get("/api/v1/postings/{id}/candidates", s.handleCandidates)
	r.Get("/api/v1/postings/{id}/shortlist", s.handleShortlist)
	r.Post("/api/v1/postings/search", s.handleSearchPostings)

	r.Post("/api/v1/profiles", s.handleCreateProfile)
	r.Get("/api/v1/profiles", s.handleListProfiles)
	r.Get("/api/v1/profiles/{id}", s.handleGetProfile)
	r.Get("/api/v1/profiles/{id}/matches", s.handleMatches)

	r.Post("/api/v1/score", s.handleScorePair)

	r.Get("/health", s.handleHealth)
	r.Get("/api/v1/status", s.handleStatus)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
