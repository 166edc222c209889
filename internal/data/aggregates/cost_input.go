package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/costing-backend/internal/data/repos"
	types "github.com/yungbote/costing-backend/internal/domain"
	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
	pricingmod "github.com/yungbote/costing-backend/internal/modules/pricing"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

type CostInputAggregateDeps struct {
	Base BaseDeps

	Values     repos.ValueRepo
	CostInputs repos.CostInputRepo
}

type costInputAggregate struct {
	deps CostInputAggregateDeps
}

func NewCostInputAggregate(deps CostInputAggregateDeps) domainagg.CostInputAggregate {
	deps.Base = deps.Base.withDefaults()
	deps.Base.Log = deps.Base.Log.With("aggregate", "CostInput")
	return &costInputAggregate{deps: deps}
}

func (a *costInputAggregate) Contract() domainagg.Contract {
	return domainagg.CostInputAggregateContract
}

// CommitCostInput takes the same row lock as checkout, so a commit waits for
// an in-flight checkout of the design and the reverse.
func (a *costInputAggregate) CommitCostInput(ctx context.Context, in domainagg.CommitCostInputInput) (domainagg.CommitCostInputResult, error) {
	const op = "Pricing.CostInput.CommitCostInput"
	var out domainagg.CommitCostInputResult
	if in.DesignID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing design_id", nil)
	}
	if in.ActorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing actor_id", nil)
	}
	if err := pricingmod.ValidateAttributes(op, in.Attributes); err != nil {
		return out, err
	}
	if in.Attributes.MinimumOrderQuantity < 1 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "minimum_order_quantity must be at least 1", nil)
	}
	if a.deps.Values == nil || a.deps.CostInputs == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "cost input repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		latest, err := a.deps.Values.LatestVersions(dbc)
		if err != nil {
			return err
		}
		attrs := in.Attributes
		if attrs.Versions, err = pricingmod.PinLatest(op, attrs.Versions, latest); err != nil {
			return err
		}

		prev, err := a.deps.CostInputs.LockLatestActiveByDesignID(dbc, in.DesignID)
		if err != nil {
			return err
		}
		if prev != nil {
			n, err := a.deps.CostInputs.ExpireActiveByDesignID(dbc, in.DesignID, time.Now().UTC())
			if err != nil {
				return err
			}
			out.Superseded = n
		}

		created, err := a.deps.CostInputs.Create(dbc, []*types.CostInput{types.NewCostInput(in.DesignID, attrs)})
		if err != nil {
			return err
		}
		out.CostInput = created[0]
		return nil
	})
	if err != nil {
		return domainagg.CommitCostInputResult{}, err
	}
	a.deps.Base.Log.Info("cost input committed",
		"design_id", in.DesignID,
		"actor_id", in.ActorID,
		"cost_input_id", out.CostInput.ID,
		"superseded", out.Superseded,
	)
	return out, nil
}
