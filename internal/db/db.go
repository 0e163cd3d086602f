package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps pgxpool.Pool for database operations
type DB struct {
	pool *pgxpool.Pool
}

// NewDB creates a new DB connection pool
func NewDB(url string) (*DB, error) {
	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		return nil, err
	}
	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (d *DB) Close(ctx context.Context) error {
	d.pool.Close()
	return nil
}

// Pool returns the underlying pgxpool.Pool
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Migrate creates the activity log table if it does not exist.
func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS activity_logs (
			id        TEXT PRIMARY KEY,
			type      TEXT NOT NULL,
			action    TEXT NOT NULL,
			details   JSONB,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			username  TEXT NOT NULL DEFAULT 'system'
		)`)
	return err
}
