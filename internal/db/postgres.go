// internal/db/postgres.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxIdle  time.Duration
}

// ConnectDB opens a pooled database/sql handle on the pgx driver and
// verifies it with a ping.
func ConnectDB(cfg PostgresConfig) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	conn, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdle > 0 {
		conn.SetConnMaxIdleTime(cfg.ConnMaxIdle)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// Migrate creates the tables the portal owns when they are missing.
func Migrate(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS saved_views (
	id              UUID PRIMARY KEY,
	owner           TEXT NOT NULL,
	collection      TEXT NOT NULL,
	name            TEXT NOT NULL,
	search_term     TEXT NOT NULL DEFAULT '',
	status_filter   TEXT NOT NULL DEFAULT '',
	sort_field      TEXT NOT NULL DEFAULT '',
	sort_direction  TEXT NOT NULL DEFAULT '',
	tie_break       TEXT NOT NULL DEFAULT '',
	page_size       INTEGER NOT NULL DEFAULT 0,
	tags            TEXT[] NOT NULL DEFAULT '{}',
	is_default      BOOLEAN NOT NULL DEFAULT FALSE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (owner, collection, name)
);
CREATE UNIQUE INDEX IF NOT EXISTS saved_views_one_default
	ON saved_views (owner, collection) WHERE is_default;
`
