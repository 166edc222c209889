package db

import (
	types "github.com/yungbote/costing-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table the service owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		// Pricing reference tables (append-only by version)
		&types.PricingConstant{},
		&types.PricingMargin{},
		&types.PricingProductMaterial{},
		&types.PricingProductType{},
		&types.PricingProcess{},
		&types.PricingProcessTimeline{},
		&types.PricingCareLabel{},
		&types.PricingUnitMaterialMultiple{},

		// Cost inputs and quotes
		&types.CostInput{},
		&types.CostInputProcess{},
		&types.QuoteInput{},
		&types.Quote{},
		&types.QuoteProcess{},

		// Design collaborators
		&types.ProductDesign{},
		&types.ApprovalStep{},
		&types.DesignEvent{},
		&types.Variant{},
		&types.Plan{},
		&types.Subscription{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
