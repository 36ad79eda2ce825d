// Package httpapi exposes the thin upload/list/status surface around the
// processing pipeline. It owns no analysis logic: uploads create an
// UPLOADED match and submit it to the worker pool, and every read endpoint
// is a straight view of the stored match document.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/u759/AllanAI-sub001/application/pipeline"
	"github.com/u759/AllanAI-sub001/domain/match"
	"github.com/u759/AllanAI-sub001/infrastructure/storage"
)

// Server wires the HTTP routes to the repository, video store and pool.
type Server struct {
	repo   match.Repository
	store  *storage.VideoStore
	pool   *pipeline.Pool
	logger *slog.Logger
	router *mux.Router
}

// NewServer builds the router. gatherer may be nil to disable /metrics.
func NewServer(
	repo match.Repository,
	store *storage.VideoStore,
	pool *pipeline.Pool,
	logger *slog.Logger,
	gatherer prometheus.Gatherer,
) *Server {
	s := &Server{
		repo:   repo,
		store:  store,
		pool:   pool,
		logger: logger,
		router: mux.NewRouter(),
	}

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/matches", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/matches", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}", s.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}", s.handleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/matches/{id}/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/statistics", s.handleStatistics).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/events", s.handleEvents).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/highlights", s.handleHighlights).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/video", s.handleVideo).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return s
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return handlers.RecoveryHandler()(cors(s.router))
}

// ListenAndServe runs the HTTP server until it fails or is shut down.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("http server listening", "addr", addr)
	return srv.ListenAndServe()
}
