package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore persists blobs in a single kv_blobs table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new store over an open database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get returns the blob stored under key, or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM kv_blobs WHERE key = $1`

	var value []byte
	if err := s.db.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select blob: %w", err)
	}
	return value, nil
}

// Set writes the blob under key, replacing any previous value.
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	const upsert = `
		INSERT INTO kv_blobs (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, upsert, key, value); err != nil {
		return fmt.Errorf("upsert blob: %w", err)
	}
	return nil
}

// Delete removes the blob under key. Deleting a missing key is not an error.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	const del = `DELETE FROM kv_blobs WHERE key = $1`

	if _, err := s.db.ExecContext(ctx, del, key); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}
