package pricing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

type QuoteRepo interface {
	// Create writes the quote and one join row per charged process, in order.
	Create(dbc dbctx.Context, quote *types.Quote, processIDs []uuid.UUID) (*types.Quote, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quote, error)
	ListByDesignID(dbc dbctx.Context, designID uuid.UUID) ([]*types.Quote, error)
}

type quoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuoteRepo(db *gorm.DB, baseLog *logger.Logger) QuoteRepo {
	return &quoteRepo{
		db:  db,
		log: baseLog.With("repo", "QuoteRepo"),
	}
}

func (r *quoteRepo) Create(dbc dbctx.Context, quote *types.Quote, processIDs []uuid.UUID) (*types.Quote, error) {
	if quote == nil {
		return nil, nil
	}
	quote.ID = ensureID(quote.ID)
	q := dbc.DB(r.db)
	if err := q.Omit(clause.Associations).Create(quote).Error; err != nil {
		return nil, err
	}
	if len(processIDs) == 0 {
		quote.ChargedProcesses = []types.QuoteProcess{}
		return quote, nil
	}
	joins := make([]types.QuoteProcess, 0, len(processIDs))
	for i, pid := range processIDs {
		joins = append(joins, types.QuoteProcess{
			ID:        uuid.New(),
			QuoteID:   quote.ID,
			ProcessID: pid,
			Position:  i,
		})
	}
	if err := q.Omit(clause.Associations).Create(&joins).Error; err != nil {
		return nil, err
	}
	quote.ChargedProcesses = joins
	return quote, nil
}

func withChargedProcesses(q *gorm.DB) *gorm.DB {
	return q.Preload("ChargedProcesses", func(p *gorm.DB) *gorm.DB {
		return p.Order("position ASC")
	}).Preload("ChargedProcesses.Process")
}

func (r *quoteRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quote, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Quote
	if err := withChargedProcesses(dbc.DB(r.db)).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *quoteRepo) ListByDesignID(dbc dbctx.Context, designID uuid.UUID) ([]*types.Quote, error) {
	var out []*types.Quote
	if designID == uuid.Nil {
		return out, nil
	}
	err := withChargedProcesses(dbc.DB(r.db)).
		Where("design_id = ?", designID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
