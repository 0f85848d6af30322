// Package postgres implements the storage contract on pgx. All locking
// is row-level: ForUpdate reads issue SELECT ... FOR UPDATE so that
// check-then-write sequences (stock reservation, cart mutation, order
// cancellation) serialize against concurrent transactions.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bakervibes/vexa-backend/internal/storage"
)

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 8
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// DB wraps a pgx pool as a storage.DB.
type DB struct {
	pool *pgxpool.Pool
}

func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

func (db *DB) InTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	pgtx, err := db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = pgtx.Rollback(ctx) }()

	if err := fn(&Tx{tx: pgtx}); err != nil {
		return err
	}
	if err := pgtx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Tx implements storage.Tx over one pgx transaction.
type Tx struct {
	tx pgx.Tx
}

var _ storage.Tx = (*Tx)(nil)

func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
