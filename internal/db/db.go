// Package db provides PostgreSQL storage for templates, drafts and score reports.
package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Migrate creates the tables used by the store. It is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// ParseID parses a record identifier.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &InvalidIDError{Value: s, Cause: err}
	}
	return id, nil
}

// resolveID returns the parsed id, or a fresh one when s is empty.
func resolveID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}
	return ParseID(s)
}

// InvalidIDError reports an identifier that is not a UUID.
type InvalidIDError struct {
	Value string
	Cause error
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid id %q: %v", e.Value, e.Cause)
}

func (e *InvalidIDError) Unwrap() error {
	return e.Cause
}
