// Package voice runs the voice agent: a recorded spoken question in, a
// transcript, a leveled explanation, and a synthesized audio answer out.
package voice

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/kyoshi/internal/config"
	"github.com/hyperjump/kyoshi/internal/filestore"
	"github.com/hyperjump/kyoshi/internal/llm"
	"github.com/hyperjump/kyoshi/internal/metrics"
	"go.uber.org/zap"
)

// Server is the voice agent's HTTP server.
type Server struct {
	store   *filestore.Store
	client  llm.Client
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Logger
	eval    *metrics.Evaluator
	server  *http.Server
}

// NewServer creates a voice agent server with the given dependencies.
func NewServer(
	store *filestore.Store,
	client llm.Client,
	cfg *config.Config,
	logger *zap.Logger,
	metricsLog *metrics.Logger,
) *Server {
	return &Server{
		store:   store,
		client:  client,
		config:  cfg,
		logger:  logger,
		metrics: metricsLog,
		eval:    metrics.NewEvaluator(client, cfg.Metrics.Judge, logger),
	}
}

// Routes returns the agent's router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.Oracle.Timeout() + 30*time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/explain", s.handleExplain)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{Addr: addr, Handler: s.Routes()}
	s.logger.Info("Starting voice agent", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
