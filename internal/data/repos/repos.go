package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/costing-backend/internal/data/repos/design"
	"github.com/yungbote/costing-backend/internal/data/repos/pricing"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

type ValueRepo = pricing.ValueRepo
type PooledValueSource = pricing.PooledValueSource
type ReferenceSet = pricing.ReferenceSet
type VersionFilter = pricing.VersionFilter
type ProductMaterialFilter = pricing.ProductMaterialFilter
type ProductTypeFilter = pricing.ProductTypeFilter
type ProcessFilter = pricing.ProcessFilter
type ProcessTimelineFilter = pricing.ProcessTimelineFilter
type CostInputRepo = pricing.CostInputRepo
type QuoteRepo = pricing.QuoteRepo
type QuoteInputRepo = pricing.QuoteInputRepo

type ApprovalStepRepo = design.ApprovalStepRepo
type DesignEventRepo = design.EventRepo
type VariantRepo = design.VariantRepo
type PlanRepo = design.PlanRepo

func NewValueRepo(db *gorm.DB, baseLog *logger.Logger) ValueRepo {
	return pricing.NewValueRepo(db, baseLog)
}
func NewCostInputRepo(db *gorm.DB, baseLog *logger.Logger) CostInputRepo {
	return pricing.NewCostInputRepo(db, baseLog)
}
func NewQuoteRepo(db *gorm.DB, baseLog *logger.Logger) QuoteRepo {
	return pricing.NewQuoteRepo(db, baseLog)
}
func NewQuoteInputRepo(db *gorm.DB, baseLog *logger.Logger) QuoteInputRepo {
	return pricing.NewQuoteInputRepo(db, baseLog)
}

func NewApprovalStepRepo(db *gorm.DB, baseLog *logger.Logger) ApprovalStepRepo {
	return design.NewApprovalStepRepo(db, baseLog)
}
func NewDesignEventRepo(db *gorm.DB, baseLog *logger.Logger) DesignEventRepo {
	return design.NewEventRepo(db, baseLog)
}
func NewVariantRepo(db *gorm.DB, baseLog *logger.Logger) VariantRepo {
	return design.NewVariantRepo(db, baseLog)
}
func NewPlanRepo(db *gorm.DB, baseLog *logger.Logger) PlanRepo {
	return design.NewPlanRepo(db, baseLog)
}
