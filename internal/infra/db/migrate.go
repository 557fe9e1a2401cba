package db

import (
	"context"
	"database/sql"
	"fmt"
)

// MigrateUp creates the usage_counter table and its single row.
// It is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS usage_counter (
    id         SMALLINT PRIMARY KEY CHECK (id = 1),
    count      BIGINT NOT NULL DEFAULT 0 CHECK (count >= 0),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return fmt.Errorf("create usage_counter: %w", err)
	}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO usage_counter (id, count) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`); err != nil {
		return fmt.Errorf("seed usage_counter: %w", err)
	}
	return nil
}
