package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/costing-backend/internal/http"
	httpH "github.com/yungbote/costing-backend/internal/http/handlers"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Quote     *httpH.QuoteHandler
	Checkout  *httpH.CheckoutHandler
	CostInput *httpH.CostInputHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(pingDB(db)),
		Quote:     httpH.NewQuoteHandler(services.Quotes),
		Checkout:  httpH.NewCheckoutHandler(services.Checkout),
		CostInput: httpH.NewCostInputHandler(services.CostInputs),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.CORSOrigins,
		QuoteHandler:     handlers.Quote,
		CheckoutHandler:  handlers.Checkout,
		CostInputHandler: handlers.CostInput,
		HealthHandler:    handlers.Health,
	})
}

func pingDB(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
