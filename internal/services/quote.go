package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/costing-backend/internal/data/aggregates"
	"github.com/yungbote/costing-backend/internal/data/repos"
	types "github.com/yungbote/costing-backend/internal/domain"
	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
	pricingmod "github.com/yungbote/costing-backend/internal/modules/pricing"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

// QuoteService prices one design at a time. Reads use one query per
// reference category; writes go through the checkout aggregate.
type QuoteService interface {
	GetUnsavedQuote(dbc dbctx.Context, designID uuid.UUID, units int64) (*pricingmod.UnsavedQuote, error)
	// PreviewQuote prices attributes that were never committed, at the latest
	// reference versions and without a production fee.
	PreviewQuote(dbc dbctx.Context, attrs types.CostAttributes, units int64) (*pricingmod.UnsavedQuote, error)
	GetDesignQuote(dbc dbctx.Context, designID uuid.UUID, units int64) (*pricingmod.DesignQuote, error)
	CreateQuote(ctx context.Context, actorID, designID uuid.UUID, units int64) (*types.Quote, error)
	GetQuote(dbc dbctx.Context, id uuid.UUID) (*types.Quote, error)
	ListQuotesByDesign(dbc dbctx.Context, designID uuid.UUID) ([]*types.Quote, error)
}

type quoteService struct {
	log        *logger.Logger
	resolver   *pricingmod.Resolver
	costInputs repos.CostInputRepo
	quotes     repos.QuoteRepo
	plans      repos.PlanRepo
	checkout   domainagg.QuoteCheckoutAggregate
	notifier   QuoteNotifier
	financing  decimal.Decimal
}

func NewQuoteService(
	log *logger.Logger,
	values repos.ValueRepo,
	costInputs repos.CostInputRepo,
	quotes repos.QuoteRepo,
	plans repos.PlanRepo,
	checkout domainagg.QuoteCheckoutAggregate,
	notifier QuoteNotifier,
	financingMarginPercent decimal.Decimal,
) QuoteService {
	serviceLog := log.With("service", "QuoteService")
	return &quoteService{
		log:        serviceLog,
		resolver:   pricingmod.NewResolver(values, serviceLog),
		costInputs: costInputs,
		quotes:     quotes,
		plans:      plans,
		checkout:   checkout,
		notifier:   notifier,
		financing:  financingMarginPercent,
	}
}

func (s *quoteService) GetUnsavedQuote(dbc dbctx.Context, designID uuid.UUID, units int64) (*pricingmod.UnsavedQuote, error) {
	q, _, err := s.priceDesign(dbc, "QuoteService.GetUnsavedQuote", designID, units)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *quoteService) PreviewQuote(dbc dbctx.Context, attrs types.CostAttributes, units int64) (*pricingmod.UnsavedQuote, error) {
	const op = "QuoteService.PreviewQuote"
	if !types.ValidQuoteUnits(units) {
		return nil, unitsError(op)
	}
	if err := pricingmod.ValidateAttributes(op, attrs); err != nil {
		return nil, err
	}
	attrs.Versions = types.PricingVersions{}

	values, err := s.resolver.Resolve(dbc, attrs, units)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	q := pricingmod.CalculateQuote(attrs, units, values, 0)
	return &q, nil
}

func (s *quoteService) GetDesignQuote(dbc dbctx.Context, designID uuid.UUID, units int64) (*pricingmod.DesignQuote, error) {
	q, ci, err := s.priceDesign(dbc, "QuoteService.GetDesignQuote", designID, units)
	if err != nil {
		return nil, err
	}
	dq := pricingmod.BuildDesignQuote(designID, ci.MinimumOrderQuantity, q, s.financing)
	return &dq, nil
}

func (s *quoteService) CreateQuote(ctx context.Context, actorID, designID uuid.UUID, units int64) (*types.Quote, error) {
	res, err := s.checkout.CreateQuote(ctx, domainagg.CreateQuoteInput{
		ActorID:  actorID,
		DesignID: designID,
		Units:    units,
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.QuoteCommitted(ctx, res.Quote, res.EventID)
	}
	return res.Quote, nil
}

func (s *quoteService) GetQuote(dbc dbctx.Context, id uuid.UUID) (*types.Quote, error) {
	const op = "QuoteService.GetQuote"
	if id == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing quote id", nil)
	}
	q, err := s.quotes.GetByID(dbc, id)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if q == nil {
		return nil, domainagg.Newf(domainagg.CodeNotFound, op, "quote %s not found", id)
	}
	return q, nil
}

func (s *quoteService) ListQuotesByDesign(dbc dbctx.Context, designID uuid.UUID) ([]*types.Quote, error) {
	const op = "QuoteService.ListQuotesByDesign"
	if designID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing design id", nil)
	}
	out, err := s.quotes.ListByDesignID(dbc, designID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return out, nil
}

// priceDesign prices the design's active cost input with its plan's fee.
func (s *quoteService) priceDesign(dbc dbctx.Context, op string, designID uuid.UUID, units int64) (pricingmod.UnsavedQuote, *types.CostInput, error) {
	var zero pricingmod.UnsavedQuote
	if designID == uuid.Nil {
		return zero, nil, domainagg.NewError(domainagg.CodeValidation, op, "missing design id", nil)
	}
	if !types.ValidQuoteUnits(units) {
		return zero, nil, unitsError(op)
	}

	ci, err := s.costInputs.GetLatestActiveByDesignID(dbc, designID)
	if err != nil {
		return zero, nil, aggregates.MapError(op, err)
	}
	if ci == nil {
		return zero, nil, domainagg.Newf(domainagg.CodeNotFound, op, "no cost input for design %s", designID)
	}
	plan, err := s.plans.GetActiveForDesign(dbc, designID)
	if err != nil {
		return zero, nil, aggregates.MapError(op, err)
	}
	if plan == nil {
		return zero, nil, domainagg.NewError(domainagg.CodeUnauthorized, op, "no active plan for design owner", nil)
	}

	attrs := ci.Attributes()
	values, err := s.resolver.Resolve(dbc, attrs, units)
	if err != nil {
		return zero, nil, aggregates.MapError(op, err)
	}
	s.log.Debug("design priced", "design_id", designID, "units", units, "cost_input_id", ci.ID)
	return pricingmod.CalculateQuote(attrs, units, values, plan.ProductionFeeBasisPoints), ci, nil
}

func unitsError(op string) error {
	return domainagg.Newf(domainagg.CodeValidation, op, "units must be between 1 and %d", types.MaxQuoteUnits)
}
