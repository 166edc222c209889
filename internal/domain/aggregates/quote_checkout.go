package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/costing-backend/internal/domain/pricing"
)

var QuoteCheckoutAggregateContract = Contract{
	Name:             "Pricing.QuoteCheckoutAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	LockPolicy:       LockPolicyCostInputSorted,
	Notes:            "Locks every design's active cost input, prices the batch from one value pool, and writes quotes plus COMMIT_QUOTE events atomically.",
}

// QuoteCheckoutAggregate commits quotes for designs checked out together.
//
// A commit is keyed by the design's CHECKOUT step and its active cost input.
// Both CreateQuotes and CreateQuote reject a design whose step already has a
// COMMIT_QUOTE for that cost input, whichever path wrote it. Committing a new
// cost input for the design opens it for quoting again.
//
// Failures are *aggregates.Error with codes:
// CodeValidation, CodeUnauthorized, CodeNotFound, CodeConflict, CodeRetryable, CodeInternal.
// Any failure rolls back the whole batch.
type QuoteCheckoutAggregate interface {
	Aggregate

	CreateQuotes(ctx context.Context, in CreateQuotesInput) (CreateQuotesResult, error)
	// CreateQuote prices and commits one design without the value pool. It
	// skips the colorway minimum check but shares the commit guard above.
	CreateQuote(ctx context.Context, in CreateQuoteInput) (CreateQuoteResult, error)
}

type QuoteRequest struct {
	DesignID uuid.UUID `json:"design_id"`
	Units    int64     `json:"units"`
}

type CreateQuotesInput struct {
	ActorID  uuid.UUID
	Requests []QuoteRequest
}

type CreateQuotesResult struct {
	Quotes []*pricing.Quote
	// EventIDs[i] is the COMMIT_QUOTE event written for Quotes[i].
	EventIDs []uuid.UUID
}

type CreateQuoteInput struct {
	ActorID  uuid.UUID
	DesignID uuid.UUID
	Units    int64
}

type CreateQuoteResult struct {
	Quote   *pricing.Quote
	EventID uuid.UUID
}
