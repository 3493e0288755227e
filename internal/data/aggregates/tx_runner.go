package aggregates

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/platform/apierr"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
)

// TxRunner is the unit-of-work boundary: every mutation of a request runs in one InTx call.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner returns a transaction runner backed by GORM transactions.
func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

// InTx commits when fn returns nil and rolls back otherwise. Failures are not retried.
func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return apierr.New(apierr.KindInternal, "tx", "transaction runner has nil db", nil)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
	return MapError("tx", err)
}
