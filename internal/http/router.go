package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/costing-backend/internal/http/handlers"
	httpMW "github.com/yungbote/costing-backend/internal/http/middleware"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	QuoteHandler     *httpH.QuoteHandler
	CheckoutHandler  *httpH.CheckoutHandler
	CostInputHandler *httpH.CostInputHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	api.Use(httpMW.AttachRequestContext())
	{
		// Quotes (read + preview)
		if cfg.QuoteHandler != nil {
			api.POST("/quotes/preview", cfg.QuoteHandler.PreviewQuote)
			api.GET("/quotes/:id", cfg.QuoteHandler.GetQuote)
			api.GET("/designs/:id/quote", cfg.QuoteHandler.GetDesignQuote)
			api.GET("/designs/:id/quotes", cfg.QuoteHandler.ListDesignQuotes)
		}
		if cfg.CheckoutHandler != nil {
			api.GET("/designs/:id/commit-events", cfg.CheckoutHandler.ListCommitEvents)
		}
		if cfg.CostInputHandler != nil {
			api.GET("/cost-inputs/:id", cfg.CostInputHandler.GetCostInput)
		}
	}

	protected := api.Group("/")
	protected.Use(httpMW.RequireActor())
	{
		if cfg.QuoteHandler != nil {
			protected.POST("/quotes", cfg.QuoteHandler.CreateQuote)
		}
		if cfg.CheckoutHandler != nil {
			protected.POST("/quotes/checkout", cfg.CheckoutHandler.CommitQuotes)
		}
		if cfg.CostInputHandler != nil {
			protected.POST("/designs/:id/cost-inputs", cfg.CostInputHandler.CommitCostInput)
		}
	}

	return r
}
