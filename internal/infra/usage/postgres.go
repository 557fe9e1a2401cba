package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"paper-digest/internal/resilience/circuitbreaker"
)

const (
	selectCount = `SELECT count FROM usage_counter WHERE id = 1`
	upsertCount = `INSERT INTO usage_counter (id, count, updated_at) VALUES (1, $1, now())
ON CONFLICT (id) DO UPDATE SET count = EXCLUDED.count, updated_at = now()`
)

// PostgresStore keeps the count in the single-row usage_counter table.
// Every statement runs through a circuit breaker.
type PostgresStore struct {
	db *circuitbreaker.DBCircuitBreaker
}

// NewPostgresStore creates a PostgresStore. The table is created by db.MigrateUp.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: circuitbreaker.NewDBCircuitBreaker(db)}
}

// Load implements Store. A missing row counts as zero.
func (s *PostgresStore) Load(ctx context.Context) (int64, error) {
	n, err := s.db.QueryInt64(ctx, selectCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("select usage count: %w", err)
	}
	return n, nil
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, n int64) error {
	if _, err := s.db.ExecContext(ctx, upsertCount, n); err != nil {
		return fmt.Errorf("upsert usage count: %w", err)
	}
	return nil
}
