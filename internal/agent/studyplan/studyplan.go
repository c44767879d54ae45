// Package studyplan runs the studyplan agent: a syllabus document in, a
// week-by-week teaching plan with a printable artifact out.
package studyplan

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/kyoshi/internal/config"
	"github.com/hyperjump/kyoshi/internal/extract"
	"github.com/hyperjump/kyoshi/internal/filestore"
	"github.com/hyperjump/kyoshi/internal/llm"
	"github.com/hyperjump/kyoshi/internal/metrics"
	"github.com/hyperjump/kyoshi/internal/render"
	"go.uber.org/zap"
)

// Server is the studyplan agent's HTTP server.
type Server struct {
	store     *filestore.Store
	extractor *extract.Extractor
	renderer  *render.Renderer
	client    llm.Client
	config    *config.Config
	logger    *zap.Logger
	metrics   *metrics.Logger
	eval      *metrics.Evaluator
	server    *http.Server
}

// NewServer creates a studyplan agent server with the given dependencies.
func NewServer(
	store *filestore.Store,
	client llm.Client,
	cfg *config.Config,
	logger *zap.Logger,
	metricsLog *metrics.Logger,
) *Server {
	return &Server{
		store:     store,
		extractor: extract.New(store),
		renderer:  render.New(store, render.DefaultConfig()),
		client:    client,
		config:    cfg,
		logger:    logger,
		metrics:   metricsLog,
		eval:      metrics.NewEvaluator(client, cfg.Metrics.Judge, logger),
	}
}

// Routes returns the agent's router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.Oracle.Timeout() + 30*time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/from-syllabus", s.handleFromSyllabus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{Addr: addr, Handler: s.Routes()}
	s.logger.Info("Starting studyplan agent", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
