// Package importer turns an OpenStreetMap node into a saved point of sale.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/pos-import-service/internal/domain"
	"github.com/couchcryptid/pos-import-service/internal/observability"
)

// NodeFetcher returns the raw XML document for an OSM node.
type NodeFetcher interface {
	FetchNode(ctx context.Context, nodeID string) (string, error)
}

// Repository persists new points of sale. Create returns the stored entity,
// including the ID the store assigned.
type Repository interface {
	Create(ctx context.Context, pos domain.PointOfSale) (domain.PointOfSale, error)
}

// Pinger is implemented by repositories that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EventPublisher announces successfully imported points of sale.
type EventPublisher interface {
	PublishImported(ctx context.Context, pos domain.PointOfSale) error
}

// Service runs the fetch, parse and save steps of an import.
type Service struct {
	fetcher   NodeFetcher
	repo      Repository
	publisher EventPublisher
	driver    string
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithPublisher publishes an event after every successful import.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithStoreDriver labels storage metrics with the driver name.
func WithStoreDriver(name string) Option {
	return func(s *Service) {
		s.driver = name
	}
}

// New creates a Service with its required collaborators.
func New(fetcher NodeFetcher, repo Repository, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		fetcher: fetcher,
		repo:    repo,
		driver:  "unknown",
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportFromOSM fetches the node, extracts its name and coordinates and
// creates a new point of sale. Validation errors from the domain are returned
// as they are; transport and storage failures come back wrapped as an
// "import failed" error whose cause is the original error.
func (s *Service) ImportFromOSM(ctx context.Context, nodeID string) (*domain.PointOfSale, error) {
	start := time.Now()

	pos, err := s.importNode(ctx, nodeID)
	outcome := "success"
	if err != nil {
		outcome = domain.KindOf(err).String()
	}
	s.metrics.Imports.WithLabelValues(outcome).Inc()
	s.metrics.ImportDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		if domain.IsValidation(err) {
			s.logger.Info("osm import rejected", "node_id", nodeID, "kind", domain.KindOf(err).String(), "error", err)
		} else {
			s.logger.Error("osm import failed", "node_id", nodeID, "error", err)
		}
		return nil, err
	}

	s.logger.Info("point of sale imported", "node_id", nodeID, "pos_id", pos.ID, "name", pos.Name)

	s.publish(ctx, pos)
	return &pos, nil
}

func (s *Service) importNode(ctx context.Context, nodeID string) (domain.PointOfSale, error) {
	if strings.TrimSpace(nodeID) == "" {
		return domain.PointOfSale{}, domain.ErrInvalidNodeID
	}

	body, err := s.fetcher.FetchNode(ctx, nodeID)
	if err != nil {
		return domain.PointOfSale{}, importFailed(nodeID, domain.KindTransportFailure, err)
	}

	fields, err := domain.ParseNode(body)
	if err != nil {
		return domain.PointOfSale{}, err
	}

	storeStart := time.Now()
	saved, err := s.repo.Create(ctx, domain.NewPointOfSale(fields))
	s.metrics.StoreDuration.WithLabelValues(s.driver).Observe(time.Since(storeStart).Seconds())
	if err != nil {
		return domain.PointOfSale{}, importFailed(nodeID, domain.KindPersistenceFailure, err)
	}
	return saved, nil
}

func (s *Service) publish(ctx context.Context, pos domain.PointOfSale) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishImported(ctx, pos); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("publish import event failed", "pos_id", pos.ID, "error", err)
		return
	}
	s.metrics.EventsProduced.Inc()
}

// CheckReadiness pings the repository when it supports it.
func (s *Service) CheckReadiness(ctx context.Context) error {
	p, ok := s.repo.(Pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("store not reachable: %w", err)
	}
	return nil
}

// importFailed wraps an infrastructure error. A cause that already carries an
// infrastructure kind keeps it; anything else is reported as fallback.
func importFailed(nodeID string, fallback domain.Kind, cause error) error {
	kind := domain.KindOf(cause)
	if kind == domain.KindUnknown || kind.Validation() {
		kind = fallback
	}
	return &domain.Error{
		Kind: kind,
		Msg:  fmt.Sprintf("import of OSM node %s failed: %s", nodeID, cause.Error()),
		Err:  cause,
	}
}
