package design

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

type PlanRepo interface {
	// GetActiveForDesign returns the plan of the design owner's newest
	// uncancelled subscription, or nil when there is none.
	GetActiveForDesign(dbc dbctx.Context, designID uuid.UUID) (*types.Plan, error)
}

type planRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	return &planRepo{
		db:  db,
		log: baseLog.With("repo", "PlanRepo"),
	}
}

func (r *planRepo) GetActiveForDesign(dbc dbctx.Context, designID uuid.UUID) (*types.Plan, error) {
	if designID == uuid.Nil {
		return nil, nil
	}
	var plan types.Plan
	err := dbc.DB(r.db).
		Model(&types.Plan{}).
		Select("plans.*").
		Joins("JOIN subscriptions ON subscriptions.plan_id = plans.id AND subscriptions.cancelled_at IS NULL").
		Joins("JOIN product_designs ON product_designs.user_id = subscriptions.user_id AND product_designs.deleted_at IS NULL").
		Where("product_designs.id = ?", designID).
		Order("subscriptions.created_at DESC").
		Limit(1).
		Find(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == uuid.Nil {
		return nil, nil
	}
	return &plan, nil
}
