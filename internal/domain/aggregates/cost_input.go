package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/costing-backend/internal/domain/pricing"
)

var CostInputAggregateContract = Contract{
	Name:             "Pricing.CostInputAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	LockPolicy:       LockPolicyCostInputSorted,
	Notes:            "Locks the design's active cost input, expires it, and inserts the replacement pinned to released reference versions.",
}

// CostInputAggregate owns the cost input lifecycle. A design has at most one
// active cost input; committing a new one expires the previous one in the
// same transaction.
//
// Failures are *aggregates.Error with codes:
// CodeValidation, CodePreconditionFailed, CodeRetryable, CodeInternal.
type CostInputAggregate interface {
	Aggregate

	CommitCostInput(ctx context.Context, in CommitCostInputInput) (CommitCostInputResult, error)
}

type CommitCostInputInput struct {
	ActorID  uuid.UUID
	DesignID uuid.UUID
	// Unpinned (zero) versions are pinned to the latest release.
	Attributes pricing.Attributes
}

type CommitCostInputResult struct {
	CostInput *pricing.CostInput
	// Superseded counts the cost inputs expired by this commit.
	Superseded int64
}
