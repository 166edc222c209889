package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/costing-backend/internal/data/aggregates"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

// InjectedTxRunner injects transaction failures into aggregate tests. With
// Inner set the body runs in Inner's real transaction and an injected commit
// failure rolls it back; without Inner the body runs with no transaction.
type InjectedTxRunner struct {
	mu sync.Mutex

	Inner aggregates.TxRunner

	FailBegin      error
	FailBeforeBody error
	FailCommit     error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) bump(counter *int) {
	r.mu.Lock()
	*counter++
	r.mu.Unlock()
}

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failBeforeBody := r.FailBeforeBody
	failCommit := r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if failBeforeBody != nil {
		r.bump(&r.RollbackCalls)
		return failBeforeBody
	}
	if fn == nil {
		r.bump(&r.CommitCalls)
		return nil
	}

	body := func(dbc dbctx.Context) error {
		if err := fn(dbc); err != nil {
			r.bump(&r.RollbackCalls)
			return err
		}
		if failCommit != nil {
			r.bump(&r.RollbackCalls)
			return failCommit
		}
		r.bump(&r.CommitCalls)
		return nil
	}
	if r.Inner != nil {
		return r.Inner.InTx(ctx, body)
	}
	return body(dbctx.Context{Ctx: ctx})
}
