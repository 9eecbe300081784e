package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/couchcryptid/pos-import-service/internal/domain"
)

// Repository stores points of sale in a SQLite database.
type Repository struct {
	db *sql.DB
}

// Open opens a SQLite database at the given path and configures WAL mode.
func Open(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &Repository{db: db}, nil
}

// Coordinates are TEXT so the decimal representation survives unchanged;
// NUMERIC affinity would coerce them to REAL.
const migration = `
CREATE TABLE IF NOT EXISTS point_of_sale (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	latitude   TEXT NOT NULL,
	longitude  TEXT NOT NULL,
	created_at TEXT NOT NULL
);`

// Migrate creates the schema if it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, migration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	return nil
}

// Create inserts pos under a new UUID.
func (r *Repository) Create(ctx context.Context, pos domain.PointOfSale) (domain.PointOfSale, error) {
	pos.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO point_of_sale (id, name, latitude, longitude, created_at) VALUES (?, ?, ?, ?, ?)`,
		pos.ID, pos.Name, domain.FormatCoordinate(pos.Latitude), domain.FormatCoordinate(pos.Longitude), pos.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return domain.PointOfSale{}, eris.Wrap(err, "sqlite: insert point of sale")
	}
	return pos, nil
}

// Ping verifies the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}
