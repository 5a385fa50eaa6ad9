package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/andresuchdata/smartgestion/backend-go/internal/config"
)

const defaultMaxConcurrency = 4

//go:embed schema.sql
var schemaSQL string

type DB struct {
	*sqlx.DB
	sem *semaphore.Weighted
}

// NewDB creates a lib/pq connection pool from the configuration
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	return Open("postgres", cfg.DSN(), cfg.MaxConcurrency)
}

// Open connects with any registered database/sql driver ("postgres", "pgx")
func Open(driverName, dsn string, maxConcurrency int64) (*DB, error) {
	db, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return Wrap(db, maxConcurrency), nil
}

// Wrap limits the number of concurrent operations on an existing pool
func Wrap(db *sqlx.DB, maxConcurrency int64) *DB {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &DB{
		DB:  db,
		sem: semaphore.NewWeighted(maxConcurrency),
	}
}

// EnsureSchema creates the notifications table when missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("could not apply schema: %w", err)
	}
	return nil
}

// withSlot runs fn while holding one semaphore slot
func (db *DB) withSlot(ctx context.Context, fn func() error) error {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer db.sem.Release(1)

	return fn()
}

// WithTx executes a function within a transaction
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return db.withSlot(ctx, func() error {
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("could not begin transaction: %w", err)
		}

		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("could not rollback transaction")
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("could not commit transaction: %w", err)
		}

		return nil
	})
}
