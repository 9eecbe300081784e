package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/pos-import-service/internal/domain"
)

// Importer imports a single OSM node as a point of sale.
type Importer interface {
	ImportFromOSM(ctx context.Context, nodeID string) (*domain.PointOfSale, error)
}

// Server exposes the import API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	importer   Importer
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the import route and /healthz,
// /readyz, and /metrics.
func NewServer(addr string, importer Importer, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		importer: importer,
		logger:   logger,
	}

	mux.HandleFunc("POST /api/pos/import/osm/{nodeId}", s.handleImport)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	pos, err := s.importer.ImportFromOSM(r.Context(), r.PathValue("nodeId"))
	if err != nil {
		kind := domain.KindOf(err)
		sharedobs.WriteJSON(w, statusForKind(kind), map[string]string{
			"error": err.Error(),
			"kind":  kind.String(),
		})
		return
	}
	sharedobs.WriteJSON(w, http.StatusCreated, pos)
}

// statusForKind maps an error kind to the HTTP status of the import route.
func statusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindRecordNotFound:
		return http.StatusNotFound
	case domain.KindTransportFailure:
		return http.StatusBadGateway
	case domain.KindPersistenceFailure, domain.KindUnknown:
		return http.StatusInternalServerError
	default:
		if kind.Validation() {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
}
