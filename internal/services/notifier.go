package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/logger"
	"github.com/yungbote/costing-backend/internal/realtime"
	"github.com/yungbote/costing-backend/internal/realtime/bus"
)

type QuoteNotifier interface {
	QuoteCommitted(ctx context.Context, quote *types.Quote, eventID uuid.UUID)
}

type quoteNotifier struct {
	log *logger.Logger
	bus bus.Bus
}

func NewQuoteNotifier(baseLog *logger.Logger, b bus.Bus) QuoteNotifier {
	return &quoteNotifier{log: baseLog.With("service", "QuoteNotifier"), bus: b}
}

// QuoteCommitted publishes on the design's channel. Publish failures are
// logged and dropped; the quote is already committed.
func (n *quoteNotifier) QuoteCommitted(ctx context.Context, quote *types.Quote, eventID uuid.UUID) {
	if n == nil || n.bus == nil || quote == nil {
		return
	}
	err := n.bus.Publish(ctx, realtime.Message{
		Channel: quote.DesignID.String(),
		Event:   realtime.EventQuoteCommitted,
		Data: map[string]any{
			"design_id":            quote.DesignID,
			"quote_id":             quote.ID,
			"event_id":             eventID,
			"units":                quote.Units,
			"unit_cost_cents":      quote.UnitCostCents,
			"production_fee_cents": quote.ProductionFeeCents,
		},
	})
	if err != nil {
		n.log.Warn("publish quote committed failed", "design_id", quote.DesignID, "quote_id", quote.ID, "error", err)
	}
}
