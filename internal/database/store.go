// internal/database/store.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the query surface plus transactional execution. Drivers depend on
// this interface so they can be tested against a mock.
type Store interface {
	Querier
	ExecTx(ctx context.Context, fn func(Querier) error) error
}

// PgStore is the pgx-backed Store. It is constructed once at process start
// and passed to every component that needs it.
type PgStore struct {
	*Queries
	pool *pgxpool.Pool
}

var _ Store = (*PgStore)(nil)

// NewStore wraps a connection pool.
func NewStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{
		Queries: New(pool),
		pool:    pool,
	}
}

// ExecTx runs fn inside a single transaction. The transaction is committed
// when fn returns nil and rolled back otherwise.
func (s *PgStore) ExecTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction is already committed.

	if err := fn(s.Queries.WithTx(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
