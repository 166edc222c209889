package pricing

import (
	"gorm.io/gorm"

	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

type QuoteInputRepo interface {
	Create(dbc dbctx.Context, in *types.QuoteInput) (*types.QuoteInput, error)
}

type quoteInputRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuoteInputRepo(db *gorm.DB, baseLog *logger.Logger) QuoteInputRepo {
	return &quoteInputRepo{
		db:  db,
		log: baseLog.With("repo", "QuoteInputRepo"),
	}
}

func (r *quoteInputRepo) Create(dbc dbctx.Context, in *types.QuoteInput) (*types.QuoteInput, error) {
	if in == nil {
		return nil, nil
	}
	in.ID = ensureID(in.ID)
	if err := dbc.DB(r.db).Create(in).Error; err != nil {
		return nil, err
	}
	return in, nil
}
