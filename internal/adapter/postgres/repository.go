package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/couchcryptid/pos-import-service/internal/domain"
)

// Pool is the subset of pgxpool.Pool used by the repository. pgxmock's pool
// satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Repository stores points of sale in PostgreSQL.
type Repository struct {
	pool Pool
}

// New connects a pgx pool and verifies it with a ping.
func New(ctx context.Context, connString string) (*Repository, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 1
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &Repository{pool: pool}, nil
}

// NewWithPool wraps an existing pool.
func NewWithPool(pool Pool) *Repository {
	return &Repository{pool: pool}
}

const migration = `
CREATE TABLE IF NOT EXISTS point_of_sale (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	latitude   NUMERIC NOT NULL,
	longitude  NUMERIC NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Migrate creates the schema if it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, migration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// Create inserts pos and returns it with the serial ID assigned by the database.
func (r *Repository) Create(ctx context.Context, pos domain.PointOfSale) (domain.PointOfSale, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO point_of_sale (name, latitude, longitude, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		pos.Name, domain.FormatCoordinate(pos.Latitude), domain.FormatCoordinate(pos.Longitude), pos.CreatedAt,
	).Scan(&id)
	if err != nil {
		return domain.PointOfSale{}, eris.Wrap(err, "postgres: insert point of sale")
	}
	pos.ID = strconv.FormatInt(id, 10)
	return pos, nil
}

// Ping verifies the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close releases the pool.
func (r *Repository) Close() {
	r.pool.Close()
}
