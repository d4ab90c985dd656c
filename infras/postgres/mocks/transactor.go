package mocks

import (
	"context"
	"sync"

	"sarana/infras/postgres"

	"github.com/jmoiron/sqlx"
)

// Transactor runs callbacks with a nil *sqlx.Tx and counts the outcome.
type Transactor struct {
	mu        sync.Mutex
	Commits   int
	Rollbacks int
}

var _ postgres.Transactor = (*Transactor)(nil)

func NewTransactor() *Transactor {
	return &Transactor{}
}

// WithinTx implements postgres.Transactor.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	err := fn(ctx, nil)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err != nil {
		t.Rollbacks++

		return err
	}

	t.Commits++

	return nil
}
