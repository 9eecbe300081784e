// Package store opens the point-of-sale repository selected by STORE_DRIVER.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/pos-import-service/internal/adapter/memory"
	"github.com/couchcryptid/pos-import-service/internal/adapter/mongo"
	"github.com/couchcryptid/pos-import-service/internal/adapter/postgres"
	"github.com/couchcryptid/pos-import-service/internal/adapter/sqlite"
	"github.com/couchcryptid/pos-import-service/internal/config"
	"github.com/couchcryptid/pos-import-service/internal/importer"
)

// Store is an opened repository together with its release function.
type Store struct {
	Repo   importer.Repository
	Driver string
	close  func() error
}

// Close releases the underlying connection, if any.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects the configured driver and applies its schema.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return &Store{Repo: memory.NewRepository(), Driver: cfg.StoreDriver}, nil

	case config.StoreSQLite:
		repo, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			_ = repo.Close()
			return nil, err
		}
		logger.Info("sqlite store ready", "path", cfg.SQLitePath)
		return &Store{Repo: repo, Driver: cfg.StoreDriver, close: repo.Close}, nil

	case config.StorePostgres:
		repo, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			repo.Close()
			return nil, err
		}
		logger.Info("postgres store ready")
		return &Store{Repo: repo, Driver: cfg.StoreDriver, close: func() error {
			repo.Close()
			return nil
		}}, nil

	case config.StoreMongo:
		client, err := mongo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		logger.Info("mongo store ready", "database", cfg.MongoDatabase, "collection", cfg.MongoCollection)
		return &Store{
			Repo:   mongo.NewRepository(client, cfg.MongoDatabase, cfg.MongoCollection),
			Driver: cfg.StoreDriver,
			close:  func() error { return client.Disconnect(context.Background()) },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
