package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	appmetrics "github.com/healthecon360/analytics-api/pkg/metrics"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db      *sqlx.DB
	metrics *appmetrics.Metrics
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// WithMetrics returns a copy that records operation counts and latency.
func (r BaseRepository) WithMetrics(m *appmetrics.Metrics) BaseRepository {
	r.metrics = m
	return r
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

func (r *BaseRepository) observe(op string, start time.Time, err error) {
	if r.metrics == nil {
		return
	}
	// a missing row is an answer, not a failure
	status := "ok"
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		status = "error"
	}
	r.metrics.DatabaseOperations.WithLabelValues(op, status).Inc()
	r.metrics.DatabaseLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// ExecContext runs a statement through the instrumented connection.
func (r *BaseRepository) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := r.db.ExecContext(ctx, query, args...)
	r.observe("exec", start, err)
	return res, err
}

// GetContext scans a single row through the instrumented connection.
func (r *BaseRepository) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	err := r.db.GetContext(ctx, dest, query, args...)
	r.observe("get", start, err)
	return err
}

// SelectContext scans a result set through the instrumented connection.
func (r *BaseRepository) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	err := r.db.SelectContext(ctx, dest, query, args...)
	r.observe("select", start, err)
	return err
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
