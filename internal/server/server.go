// Package server provides the HTTP API for the virtual teaching assistant.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/vta/internal/assistant"
	"github.com/hyperjump/vta/internal/config"
	"github.com/hyperjump/vta/internal/search"
	"github.com/hyperjump/vta/internal/storage"
	"go.uber.org/zap"
)

// DefaultVersion is reported by / and /api/health unless WithVersion is used.
const DefaultVersion = "1.0.0"

// Server is the HTTP server for the assistant API.
type Server struct {
	assistant *assistant.Service
	engine    *search.Engine
	storage   storage.Storage
	config    *config.Config
	logger    *zap.Logger
	version   string
	server    *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithArchive enables the post search and archive statistics endpoints.
func WithArchive(engine *search.Engine, store storage.Storage) Option {
	return func(s *Server) {
		s.engine = engine
		s.storage = store
	}
}

// WithVersion sets the reported API version.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer creates a server with the given dependencies.
func NewServer(svc *assistant.Service, cfg *config.Config, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{
		assistant: svc,
		config:    cfg,
		logger:    logger,
		version:   DefaultVersion,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if s.config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.config.Server.RequestTimeout))
	}
	r.Use(middleware.Compress(5))
	r.Use(CORS(s.config.Server.AllowedOrigins))

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Get("/", s.handleRoot)
	r.Get("/api/health", s.handleHealth)
	r.Post("/api/", s.handleAsk)
	r.Post("/api", s.handleAsk)
	r.Get("/api/v1/posts/search", s.handleSearchPosts)
	r.Get("/api/v1/status", s.handleStatus)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
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
