package testutil

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/yungbote/materialhub-backend/internal/data/aggregates"
	"github.com/yungbote/materialhub-backend/internal/platform/dbctx"
)

// InjectedTxRunner runs the body against DB (when set) without a real
// transaction and lets tests force begin or commit failures.
type InjectedTxRunner struct {
	mu sync.Mutex

	DB         *gorm.DB
	FailBegin  error
	FailCommit error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin, failCommit := r.FailBegin, r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	var err error
	if fn != nil {
		err = fn(dbctx.Context{Ctx: ctx, Tx: r.DB})
	}
	if err == nil {
		err = failCommit
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.RollbackCalls++
		return err
	}
	r.CommitCalls++
	return nil
}
