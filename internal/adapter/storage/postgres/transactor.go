package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor hands out the database transactions that transfer operations
// run inside. It implements ports.DBTransactor.
type Transactor struct {
	pool Pool
}

func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin opens a transaction on the pool. Row locks taken through it are
// held until Commit or Rollback.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.Begin(ctx)
}
