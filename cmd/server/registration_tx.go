package main

import (
	"context"
	"database/sql"
	"time"

	regservice "motoreg/internal/registration/service"
	regstore "motoreg/internal/registration/store"
	dErrors "motoreg/pkg/domain-errors"
)

const defaultRegistrationTxTimeout = 5 * time.Second

// registrationPostgresTx runs registration read-modify-write sequences inside
// a serializable transaction so two concurrent registrations for the same
// national id cannot both observe "no person" and insert twice.
type registrationPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newRegistrationPostgresTx(db *sql.DB) *registrationPostgresTx {
	return &registrationPostgresTx{db: db}
}

func (t *registrationPostgresTx) RunInTx(ctx context.Context, fn func(store regservice.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultRegistrationTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(regstore.NewPostgresTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
