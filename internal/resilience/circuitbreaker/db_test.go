package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sony/gobreaker"
)

func TestNewDBCircuitBreaker(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	dcb := NewDBCircuitBreaker(db)

	if dcb.db != db {
		t.Error("expected db to be set")
	}
	if dcb.State() != gobreaker.StateClosed {
		t.Errorf("expected initial state Closed, got %s", dcb.State())
	}
}

func TestDBCircuitBreaker_ExecContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO usage_counter").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	dcb := NewDBCircuitBreaker(db)
	res, err := dcb.ExecContext(context.Background(), "INSERT INTO usage_counter (id, count) VALUES (1, $1)", int64(7))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Errorf("expected 1 row affected, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDBCircuitBreaker_QueryInt64(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT count FROM usage_counter").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	dcb := NewDBCircuitBreaker(db)
	got, err := dcb.QueryInt64(context.Background(), "SELECT count FROM usage_counter WHERE id = 1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestDBCircuitBreaker_OpensAfterFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer func() { _ = db.Close() }()

	cfg := DBConfig()
	cfg.MinRequests = 2
	cfg.Timeout = time.Minute
	dcb := NewDBCircuitBreakerWithConfig(db, cfg)

	dbErr := errors.New("connection lost")
	for i := 0; i < 2; i++ {
		mock.ExpectExec("UPDATE usage_counter").WillReturnError(dbErr)
		if _, err := dcb.ExecContext(context.Background(), "UPDATE usage_counter SET count = 1"); !errors.Is(err, dbErr) {
			t.Fatalf("attempt %d: expected %v, got %v", i, dbErr, err)
		}
	}

	if !dcb.IsOpen() {
		t.Fatalf("expected open state, got %s", dcb.State())
	}

	_, err = dcb.QueryInt64(context.Background(), "SELECT count FROM usage_counter")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
