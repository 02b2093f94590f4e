package postgres

import (
	"context"
	"fmt"
)

// GetOrInit returns the cursor value, storing def first when the key is new.
func (s *Store) GetOrInit(ctx context.Context, key string, def int) (int, error) {
	if _, err := s.pool.Exec(ctx, `
INSERT INTO cursors (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO NOTHING`, key, def); err != nil {
		return 0, fmt.Errorf("init cursor %q: %w", key, err)
	}
	var value int
	if err := s.pool.QueryRow(ctx, `SELECT value FROM cursors WHERE key = $1`, key).Scan(&value); err != nil {
		return 0, fmt.Errorf("read cursor %q: %w", key, notFound(err))
	}
	return value, nil
}

// Increment adds one to the cursor and returns the new value.
func (s *Store) Increment(ctx context.Context, key string) (int, error) {
	var value int
	err := s.pool.QueryRow(ctx, `
UPDATE cursors SET value = value + 1, updated_at = NOW()
WHERE key = $1
RETURNING value`, key).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("increment cursor %q: %w", key, notFound(err))
	}
	return value, nil
}

// Set overwrites the cursor value, creating the key when absent.
func (s *Store) Set(ctx context.Context, key string, value int) error {
	if _, err := s.pool.Exec(ctx, `
INSERT INTO cursors (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, key, value); err != nil {
		return fmt.Errorf("set cursor %q: %w", key, err)
	}
	return nil
}
