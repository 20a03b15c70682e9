// Package database opens the PostgreSQL catalog store and manages its schema.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// Config holds database connection configuration.
type Config struct {
	URL             string
	MaxConnections  int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Open creates a database/sql pool backed by the pgx driver and verifies it
// with a ping.
func Open(ctx context.Context, cfg *Config) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	db := stdlib.OpenDB(*connConfig)

	maxConns := cfg.MaxConnections
	if maxConns == 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	lifetime := cfg.MaxConnLifetime
	if lifetime == 0 {
		lifetime = time.Hour
	}
	db.SetConnMaxLifetime(lifetime)

	idle := cfg.MaxConnIdleTime
	if idle == 0 {
		idle = 30 * time.Minute
	}
	db.SetConnMaxIdleTime(idle)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
