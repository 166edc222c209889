package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/costing-backend/internal/data/repos"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

type Repos struct {
	Values        repos.ValueRepo
	CostInputs    repos.CostInputRepo
	Quotes        repos.QuoteRepo
	QuoteInputs   repos.QuoteInputRepo
	ApprovalSteps repos.ApprovalStepRepo
	Events        repos.DesignEventRepo
	Variants      repos.VariantRepo
	Plans         repos.PlanRepo
}

func WireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Values:        repos.NewValueRepo(db, log),
		CostInputs:    repos.NewCostInputRepo(db, log),
		Quotes:        repos.NewQuoteRepo(db, log),
		QuoteInputs:   repos.NewQuoteInputRepo(db, log),
		ApprovalSteps: repos.NewApprovalStepRepo(db, log),
		Events:        repos.NewDesignEventRepo(db, log),
		Variants:      repos.NewVariantRepo(db, log),
		Plans:         repos.NewPlanRepo(db, log),
	}
}
