// Package guard serializes check-and-write work on a single resource.
package guard

import (
	"context"
	"fmt"

	"sarana/infras/postgres"
	"sarana/internal/domains/booking/conflict"
	"sarana/internal/domains/booking/model"
	"sarana/shared/failure"
	"sarana/shared/locker"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Store is the part of the booking repository the guard needs.
type Store interface {
	LockResourceTx(ctx context.Context, tx *sqlx.Tx, resourceID string) error
	ActiveForResourceTx(ctx context.Context, tx *sqlx.Tx, resourceID string, statuses ...model.Status) ([]conflict.Booking, error)
}

type Guard struct {
	locker locker.Locker
	tx     postgres.Transactor
	store  Store
}

func New(lk locker.Locker, tx postgres.Transactor, store Store) *Guard {
	return &Guard{locker: lk, tx: tx, store: store}
}

// Run executes fn in one transaction while holding both the in-process lock and the
// database advisory lock of resourceID. Distinct resources never wait on each other.
func (g *Guard) Run(ctx context.Context, resourceID string, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	release, err := g.locker.Lock(ctx, resourceID)
	if err != nil {
		log.Warn().Err(err).Str("resource_id", resourceID).Msg("failed to acquire resource lock")

		return locker.AsFailure(err) //nolint:wrapcheck
	}
	defer release()

	return g.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error { //nolint:wrapcheck
		if err := g.store.LockResourceTx(ctx, tx, resourceID); err != nil {
			return err //nolint:wrapcheck
		}

		return fn(ctx, tx)
	})
}

// Check returns a conflict failure when q overlaps a booking in one of statuses.
// It must run inside Run so the booking set cannot change underneath it.
func (g *Guard) Check(ctx context.Context, tx *sqlx.Tx, q conflict.Query, statuses ...model.Status) error {
	existing, err := g.store.ActiveForResourceTx(ctx, tx, q.ResourceID, statuses...)
	if err != nil {
		log.Error().Err(err).Str("resource_id", q.ResourceID).Msg("failed to load active bookings")

		return fmt.Errorf("failed to load active bookings: %w", err)
	}

	if hit, found := conflict.Find(q, existing); found {
		log.Info().Str("resource_id", q.ResourceID).Str("conflicting_request_id", hit.ID).Msg("booking conflict detected")

		return failure.ConflictWith(q.ResourceID, hit.ID) //nolint:wrapcheck
	}

	return nil
}
