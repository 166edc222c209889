package aggregates

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"

	"github.com/yungbote/costing-backend/internal/data/repos"
	types "github.com/yungbote/costing-backend/internal/domain"
	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
	pricingmod "github.com/yungbote/costing-backend/internal/modules/pricing"
	"github.com/yungbote/costing-backend/internal/observability"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

type QuoteCheckoutAggregateDeps struct {
	Base BaseDeps

	Values        repos.ValueRepo
	CostInputs    repos.CostInputRepo
	Quotes        repos.QuoteRepo
	QuoteInputs   repos.QuoteInputRepo
	ApprovalSteps repos.ApprovalStepRepo
	Events        repos.DesignEventRepo
	Variants      repos.VariantRepo
	Plans         repos.PlanRepo
}

type quoteCheckoutAggregate struct {
	deps     QuoteCheckoutAggregateDeps
	resolver *pricingmod.Resolver
}

func NewQuoteCheckoutAggregate(deps QuoteCheckoutAggregateDeps) domainagg.QuoteCheckoutAggregate {
	deps.Base = deps.Base.withDefaults()
	deps.Base.Log = deps.Base.Log.With("aggregate", "QuoteCheckout")
	return &quoteCheckoutAggregate{
		deps:     deps,
		resolver: pricingmod.NewResolver(deps.Values, deps.Base.Log),
	}
}

func (a *quoteCheckoutAggregate) Contract() domainagg.Contract {
	return domainagg.QuoteCheckoutAggregateContract
}

func (a *quoteCheckoutAggregate) configured() bool {
	d := a.deps
	return d.Values != nil && d.CostInputs != nil && d.Quotes != nil && d.QuoteInputs != nil &&
		d.ApprovalSteps != nil && d.Events != nil && d.Variants != nil && d.Plans != nil
}

// checkoutDesign is everything read, under lock, before a design is priced.
type checkoutDesign struct {
	req         domainagg.QuoteRequest
	step        *types.ApprovalStep
	costInput   *types.CostInput
	basisPoints int64
}

func validateBatch(op string, reqs []domainagg.QuoteRequest) error {
	if len(reqs) == 0 {
		return domainagg.NewError(domainagg.CodeValidation, op, "no designs to quote", nil)
	}
	seen := make(map[uuid.UUID]struct{}, len(reqs))
	for _, r := range reqs {
		if r.DesignID == uuid.Nil {
			return domainagg.NewError(domainagg.CodeValidation, op, "missing design_id", nil)
		}
		if !types.ValidQuoteUnits(r.Units) {
			return domainagg.Newf(domainagg.CodeValidation, op, "design %s: units must be between 1 and %d", r.DesignID, types.MaxQuoteUnits)
		}
		if _, ok := seen[r.DesignID]; ok {
			return domainagg.Newf(domainagg.CodeValidation, op, "design %s appears more than once", r.DesignID)
		}
		seen[r.DesignID] = struct{}{}
	}
	return nil
}

// CreateQuotes commits one quote per requested design. Designs are locked in
// ascending id order so overlapping batches cannot deadlock.
func (a *quoteCheckoutAggregate) CreateQuotes(ctx context.Context, in domainagg.CreateQuotesInput) (domainagg.CreateQuotesResult, error) {
	const op = "Pricing.QuoteCheckout.CreateQuotes"
	var out domainagg.CreateQuotesResult
	if err := validateBatch(op, in.Requests); err != nil {
		return out, err
	}
	if in.ActorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing actor_id", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "quote checkout repos not configured", nil)
	}

	ordered := append([]domainagg.QuoteRequest(nil), in.Requests...)
	sort.Slice(ordered, func(i, j int) bool {
		return bytes.Compare(ordered[i].DesignID[:], ordered[j].DesignID[:]) < 0
	})

	start := time.Now()
	byDesign := make(map[uuid.UUID]*types.Quote, len(ordered))
	eventByDesign := make(map[uuid.UUID]uuid.UUID, len(ordered))

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		designs := make([]checkoutDesign, 0, len(ordered))
		for _, r := range ordered {
			d, err := a.prepare(dbc, op, r, true)
			if err != nil {
				return err
			}
			designs = append(designs, d)
		}

		poolReqs := make([]pricingmod.PoolRequest, 0, len(designs))
		for _, d := range designs {
			poolReqs = append(poolReqs, pricingmod.PoolRequest{Attributes: d.costInput.Attributes(), Units: d.req.Units})
		}
		pctx, span := observability.StartSpan(dbc.Ctx, "pricing.pool.build", attribute.Int("designs", len(poolReqs)))
		pool, err := pricingmod.BuildPool(dbctx.Context{Ctx: pctx, Tx: dbc.Tx}, a.deps.Values, poolReqs)
		observability.EndSpan(span, err)
		if err != nil {
			return err
		}

		events := make([]*types.DesignEvent, 0, len(designs))
		for _, d := range designs {
			values, err := pool.Pick(d.costInput.Attributes(), d.req.Units)
			if err != nil {
				return err
			}
			quote, event, err := a.persist(dbc, in.ActorID, d, values)
			if err != nil {
				return err
			}
			byDesign[d.req.DesignID] = quote
			events = append(events, event)
		}
		// COMMIT_QUOTE events are written in one statement and are not
		// published; commit fan-out for batches happens downstream.
		if _, err := a.deps.Events.Create(dbc, events); err != nil {
			return err
		}
		for _, e := range events {
			eventByDesign[e.DesignID] = e.ID
		}
		return nil
	})
	if err != nil {
		a.deps.Base.Log.Warn("quote checkout rejected",
			"designs", len(in.Requests),
			"code", string(domainagg.CodeOf(err)),
			"error", err,
		)
		return domainagg.CreateQuotesResult{}, err
	}

	for _, r := range in.Requests {
		out.Quotes = append(out.Quotes, byDesign[r.DesignID])
		out.EventIDs = append(out.EventIDs, eventByDesign[r.DesignID])
	}
	a.deps.Base.Log.Info("quote checkout committed",
		"designs", len(in.Requests),
		"quotes", len(out.Quotes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// CreateQuote commits a single design priced with one query per category.
// Colorway minimums are a checkout rule and are not enforced here.
func (a *quoteCheckoutAggregate) CreateQuote(ctx context.Context, in domainagg.CreateQuoteInput) (domainagg.CreateQuoteResult, error) {
	const op = "Pricing.QuoteCheckout.CreateQuote"
	var out domainagg.CreateQuoteResult
	req := domainagg.QuoteRequest{DesignID: in.DesignID, Units: in.Units}
	if err := validateBatch(op, []domainagg.QuoteRequest{req}); err != nil {
		return out, err
	}
	if in.ActorID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing actor_id", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "quote checkout repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		d, err := a.prepare(dbc, op, req, false)
		if err != nil {
			return err
		}
		values, err := a.resolver.Resolve(dbc, d.costInput.Attributes(), d.req.Units)
		if err != nil {
			return err
		}
		quote, event, err := a.persist(dbc, in.ActorID, d, values)
		if err != nil {
			return err
		}
		if _, err := a.deps.Events.Create(dbc, []*types.DesignEvent{event}); err != nil {
			return err
		}
		out.Quote = quote
		out.EventID = event.ID
		return nil
	})
	if err != nil {
		return domainagg.CreateQuoteResult{}, err
	}
	return out, nil
}

// prepare reads and checks one design under its cost input row lock.
func (a *quoteCheckoutAggregate) prepare(dbc dbctx.Context, op string, r domainagg.QuoteRequest, checkColorways bool) (checkoutDesign, error) {
	d := checkoutDesign{req: r}

	step, err := a.deps.ApprovalSteps.GetByDesignIDAndType(dbc, r.DesignID, types.ApprovalStepCheckout)
	if err != nil {
		return d, err
	}
	if step == nil {
		return d, domainagg.Newf(domainagg.CodeInternal, op, "design %s has no %s approval step", r.DesignID, types.ApprovalStepCheckout)
	}
	d.step = step

	ci, err := a.deps.CostInputs.LockLatestActiveByDesignID(dbc, r.DesignID)
	if err != nil {
		return d, err
	}
	if ci == nil {
		return d, domainagg.Newf(domainagg.CodeInternal, op, "no cost input for design %s", r.DesignID)
	}
	d.costInput = ci

	committed, err := a.deps.Events.ExistsForApprovalStep(dbc, step.ID, ci.ID, types.EventCommitQuote)
	if err != nil {
		return d, err
	}
	if committed {
		return d, domainagg.Newf(domainagg.CodeConflict, op, "design %s already has a committed quote for cost input %s", r.DesignID, ci.ID)
	}

	if checkColorways {
		colorways, err := a.deps.Variants.ColorwayUnits(dbc, r.DesignID)
		if err != nil {
			return d, err
		}
		for _, cw := range colorways {
			if cw.Units < ci.MinimumOrderQuantity {
				return d, domainagg.Newf(domainagg.CodeValidation, op,
					"design %s colorway %q has %d units, below the minimum order quantity of %d",
					r.DesignID, cw.ColorName, cw.Units, ci.MinimumOrderQuantity)
			}
		}
	}

	plan, err := a.deps.Plans.GetActiveForDesign(dbc, r.DesignID)
	if err != nil {
		return d, err
	}
	if plan == nil {
		return d, domainagg.Newf(domainagg.CodeUnauthorized, op, "design %s has no active plan", r.DesignID)
	}
	d.basisPoints = plan.ProductionFeeBasisPoints
	return d, nil
}

// persist writes the quote input, the quote with its process rows, and
// returns the unsaved COMMIT_QUOTE event.
func (a *quoteCheckoutAggregate) persist(dbc dbctx.Context, actorID uuid.UUID, d checkoutDesign, values pricingmod.ResolvedValues) (*types.Quote, *types.DesignEvent, error) {
	unsaved := pricingmod.CalculateQuote(d.costInput.Attributes(), d.req.Units, values, d.basisPoints)

	qi, err := a.deps.QuoteInputs.Create(dbc, values.QuoteInput())
	if err != nil {
		return nil, nil, err
	}
	costInputID := d.costInput.ID
	quote, err := a.deps.Quotes.Create(dbc, unsaved.Quote(d.req.DesignID, &costInputID, qi.ID), values.ProcessIDs())
	if err != nil {
		return nil, nil, err
	}

	meta, err := json.Marshal(map[string]any{
		"units":                d.req.Units,
		"cost_input_id":        costInputID.String(),
		"unit_cost_cents":      quote.UnitCostCents,
		"production_fee_cents": quote.ProductionFeeCents,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("encode event metadata: %w", err)
	}
	stepID, quoteID := d.step.ID, quote.ID
	event := &types.DesignEvent{
		ID:             uuid.New(),
		DesignID:       d.req.DesignID,
		ActorID:        actorID,
		Type:           types.EventCommitQuote,
		ApprovalStepID: &stepID,
		QuoteID:        &quoteID,
		CostInputID:    &costInputID,
		Metadata:       datatypes.JSON(meta),
	}
	return quote, event, nil
}
