package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/costing-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
	"github.com/yungbote/costing-backend/internal/platform/logger"
	"github.com/yungbote/costing-backend/internal/services"
)

type Services struct {
	QuoteCheckout domainagg.QuoteCheckoutAggregate
	Quotes        services.QuoteService
	Checkout      services.CheckoutService
	CostInputs    services.CostInputService
}

func WireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")
	base := aggregates.BaseDeps{
		DB:     db,
		Log:    log,
		Runner: aggregates.NewGormTxRunner(db),
		Hooks:  aggregates.NewLogHooks(log),
	}
	checkout := aggregates.NewQuoteCheckoutAggregate(aggregates.QuoteCheckoutAggregateDeps{
		Base:          base,
		Values:        reposet.Values,
		CostInputs:    reposet.CostInputs,
		Quotes:        reposet.Quotes,
		QuoteInputs:   reposet.QuoteInputs,
		ApprovalSteps: reposet.ApprovalSteps,
		Events:        reposet.Events,
		Variants:      reposet.Variants,
		Plans:         reposet.Plans,
	})
	return Services{
		QuoteCheckout: checkout,
		Quotes: services.NewQuoteService(
			log,
			reposet.Values,
			reposet.CostInputs,
			reposet.Quotes,
			reposet.Plans,
			checkout,
			services.NewQuoteNotifier(log, clients.Bus),
			cfg.FinancingMarginPercent,
		),
		Checkout: services.NewCheckoutService(log, checkout, reposet.Events),
		CostInputs: services.NewCostInputService(
			log,
			reposet.CostInputs,
			aggregates.NewCostInputAggregate(aggregates.CostInputAggregateDeps{
				Base:       base,
				Values:     reposet.Values,
				CostInputs: reposet.CostInputs,
			}),
		),
	}
}
