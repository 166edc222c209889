package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/costing-backend/internal/data/aggregates"
	"github.com/yungbote/costing-backend/internal/data/repos"
	types "github.com/yungbote/costing-backend/internal/domain"
	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

type CheckoutService interface {
	// CommitQuotes prices and commits every design atomically. Quotes are
	// returned in request order.
	CommitQuotes(ctx context.Context, actorID uuid.UUID, reqs []domainagg.QuoteRequest) ([]*types.Quote, error)
	// ListCommitEvents returns the design's COMMIT_QUOTE audit trail, oldest first.
	ListCommitEvents(dbc dbctx.Context, designID uuid.UUID) ([]*types.DesignEvent, error)
}

type checkoutService struct {
	log    *logger.Logger
	agg    domainagg.QuoteCheckoutAggregate
	events repos.DesignEventRepo
}

func NewCheckoutService(log *logger.Logger, agg domainagg.QuoteCheckoutAggregate, events repos.DesignEventRepo) CheckoutService {
	return &checkoutService{log: log.With("service", "CheckoutService"), agg: agg, events: events}
}

func (s *checkoutService) CommitQuotes(ctx context.Context, actorID uuid.UUID, reqs []domainagg.QuoteRequest) ([]*types.Quote, error) {
	res, err := s.agg.CreateQuotes(ctx, domainagg.CreateQuotesInput{ActorID: actorID, Requests: reqs})
	if err != nil {
		return nil, err
	}
	return res.Quotes, nil
}

func (s *checkoutService) ListCommitEvents(dbc dbctx.Context, designID uuid.UUID) ([]*types.DesignEvent, error) {
	const op = "CheckoutService.ListCommitEvents"
	if designID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "missing design id", nil)
	}
	out, err := s.events.ListByDesignID(dbc, designID, types.EventCommitQuote)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return out, nil
}
