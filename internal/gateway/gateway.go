// Package gateway runs the public entry point: it accepts uploads into the
// file store, serves rendered artifacts, and forwards namespaced requests to
// the three agents after validating their shape.
package gateway

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/kyoshi/internal/config"
	"github.com/hyperjump/kyoshi/internal/filestore"
	"go.uber.org/zap"
)

// Server is the gateway HTTP server.
type Server struct {
	store  *filestore.Store
	config *config.Config
	client *http.Client
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a gateway with the given dependencies.
func NewServer(store *filestore.Store, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		store:  store,
		config: cfg,
		client: &http.Client{Timeout: cfg.Agents.ForwardTimeout()},
		logger: logger,
	}
}

// Routes returns the gateway router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.Agents.ForwardTimeout()))
	r.Use(middleware.Compress(5))

	r.Post("/upload", s.handleUpload)
	r.Post("/image/worksheet", s.forwardWorksheet)
	r.Post("/studyplan/from-syllabus", s.forwardStudyPlan)
	r.Post("/voice/explain", s.forwardVoice)
	r.Get("/health", s.handleHealth)
	r.Mount(s.store.URLPrefix(), s.store.FileServer())
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{Addr: addr, Handler: s.Routes()}
	s.logger.Info("Starting gateway", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
