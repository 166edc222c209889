package aggregates

import (
	"context"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

// TxRunner is the transaction boundary of every aggregate write.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

// InTx commits when fn returns nil and rolls back otherwise, so row locks
// taken inside fn are held until then.
func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "transaction runner has nil db", nil)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
