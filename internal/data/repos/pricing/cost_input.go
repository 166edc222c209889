package pricing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

type CostInputRepo interface {
	Create(dbc dbctx.Context, inputs []*types.CostInput) ([]*types.CostInput, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CostInput, error)
	GetLatestActiveByDesignID(dbc dbctx.Context, designID uuid.UUID) (*types.CostInput, error)
	// LockLatestActiveByDesignID takes a row lock (SELECT ... FOR UPDATE) on
	// the active cost input; it must run inside a transaction.
	LockLatestActiveByDesignID(dbc dbctx.Context, designID uuid.UUID) (*types.CostInput, error)
	ExpireActiveByDesignID(dbc dbctx.Context, designID uuid.UUID, at time.Time) (int64, error)
}

type costInputRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCostInputRepo(db *gorm.DB, baseLog *logger.Logger) CostInputRepo {
	return &costInputRepo{
		db:  db,
		log: baseLog.With("repo", "CostInputRepo"),
	}
}

func (r *costInputRepo) Create(dbc dbctx.Context, inputs []*types.CostInput) ([]*types.CostInput, error) {
	if len(inputs) == 0 {
		return []*types.CostInput{}, nil
	}
	for _, in := range inputs {
		in.ID = ensureID(in.ID)
		for i := range in.Processes {
			in.Processes[i].ID = ensureID(in.Processes[i].ID)
			in.Processes[i].CostInputID = in.ID
			in.Processes[i].Position = i
		}
	}
	if err := dbc.DB(r.db).Create(&inputs).Error; err != nil {
		return nil, err
	}
	return inputs, nil
}

func withProcesses(q *gorm.DB) *gorm.DB {
	return q.Preload("Processes", func(p *gorm.DB) *gorm.DB {
		return p.Order("position ASC")
	})
}

func activeFor(designID uuid.UUID, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("design_id = ?", designID).
			Where("expires_at IS NULL OR expires_at > ?", now).
			Order("created_at DESC").
			Order("id DESC")
	}
}

func (r *costInputRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CostInput, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var ci types.CostInput
	if err := withProcesses(dbc.DB(r.db)).Where("id = ?", id).Limit(1).Find(&ci).Error; err != nil {
		return nil, err
	}
	if ci.ID == uuid.Nil {
		return nil, nil
	}
	return &ci, nil
}

func (r *costInputRepo) GetLatestActiveByDesignID(dbc dbctx.Context, designID uuid.UUID) (*types.CostInput, error) {
	if designID == uuid.Nil {
		return nil, nil
	}
	var ci types.CostInput
	err := withProcesses(dbc.DB(r.db)).
		Scopes(activeFor(designID, time.Now().UTC())).
		Limit(1).
		Find(&ci).Error
	if err != nil {
		return nil, err
	}
	if ci.ID == uuid.Nil {
		return nil, nil
	}
	return &ci, nil
}

func (r *costInputRepo) LockLatestActiveByDesignID(dbc dbctx.Context, designID uuid.UUID) (*types.CostInput, error) {
	if designID == uuid.Nil {
		return nil, nil
	}
	var ci types.CostInput
	err := withProcesses(dbc.DB(r.db)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(activeFor(designID, time.Now().UTC())).
		Limit(1).
		Find(&ci).Error
	if err != nil {
		return nil, err
	}
	if ci.ID == uuid.Nil {
		return nil, nil
	}
	return &ci, nil
}

func (r *costInputRepo) ExpireActiveByDesignID(dbc dbctx.Context, designID uuid.UUID, at time.Time) (int64, error) {
	res := dbc.DB(r.db).
		Model(&types.CostInput{}).
		Where("design_id = ? AND (expires_at IS NULL OR expires_at > ?)", designID, at).
		Update("expires_at", at)
	return res.RowsAffected, res.Error
}
