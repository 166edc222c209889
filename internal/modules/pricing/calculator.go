package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	types "github.com/yungbote/costing-backend/internal/domain"
)

// UnsavedQuote is a priced request that has not been persisted.
type UnsavedQuote struct {
	Units int64 `json:"units"`

	BaseCostCents        int64 `json:"base_cost_cents"`
	MaterialCostCents    int64 `json:"material_cost_cents"`
	ProcessCostCents     int64 `json:"process_cost_cents"`
	DevelopmentCostCents int64 `json:"development_cost_cents"`
	UnitCostCents        int64 `json:"unit_cost_cents"`
	ProductionFeeCents   int64 `json:"production_fee_cents"`

	CreationTimeMs      int64 `json:"creation_time_ms"`
	SpecificationTimeMs int64 `json:"specification_time_ms"`
	SourcingTimeMs      int64 `json:"sourcing_time_ms"`
	SamplingTimeMs      int64 `json:"sampling_time_ms"`
	PreProductionTimeMs int64 `json:"pre_production_time_ms"`
	ProcessTimeMs       int64 `json:"process_time_ms"`
	ProductionTimeMs    int64 `json:"production_time_ms"`
	FulfillmentTimeMs   int64 `json:"fulfillment_time_ms"`
}

var (
	one        = decimal.NewFromInt(1)
	hundred    = decimal.NewFromInt(100)
	basisPoint = decimal.NewFromInt(10000)
)

// CalculateQuote prices units of attrs against values. Every amortization
// rounds up so a quote never under-charges. units must be positive.
func CalculateQuote(attrs types.CostAttributes, units int64, values ResolvedValues, productionFeeBasisPoints int64) UnsavedQuote {
	if units <= 0 {
		panic(fmt.Sprintf("pricing: units must be positive, got %d", units))
	}
	c := values.Constant
	pt := values.ProductType

	q := UnsavedQuote{
		Units:               units,
		CreationTimeMs:      pt.CreationTimeMs,
		SpecificationTimeMs: pt.SpecificationTimeMs,
		SourcingTimeMs:      pt.SourcingTimeMs,
		SamplingTimeMs:      pt.SamplingTimeMs,
		PreProductionTimeMs: pt.PreProductionTimeMs,
		ProductionTimeMs:    pt.ProductionTimeMs,
		FulfillmentTimeMs:   pt.FulfillmentTimeMs,
	}
	if values.ProcessTimeline != nil {
		q.ProcessTimeMs = values.ProcessTimeline.TimeMs
	}

	if !pt.IsPackaging() {
		q.BaseCostCents = pt.UnitCents + values.CareLabel.UnitCents + labelsAndDesignPerUnit(c, units)
	}

	q.MaterialCostCents = materialCost(attrs.MaterialBudgetCents, values)

	var setup, perUnit int64
	for _, p := range values.Processes {
		setup += p.SetupCents
		perUnit += p.UnitCents
	}
	q.ProcessCostCents = perUnit + ceilDiv(setup, units)

	if attrs.ProductComplexity != types.ComplexityBlank {
		sample := max(c.SampleMinimumCents, pt.SampleUnitCents) + q.MaterialCostCents
		total := c.WorkingSessionCents + c.PatternRevisionCents + c.GradingCents + c.MarkingCents + sample + pt.PatternMinimumCents
		q.DevelopmentCostCents = ceilDiv(total, units)
	}

	sum := q.BaseCostCents + q.MaterialCostCents + q.ProcessCostCents + q.DevelopmentCostCents
	q.UnitCostCents = AddMargin(sum, values.Margin.Margin.Div(hundred))
	q.ProductionFeeCents = ProductionFeeCents(q.UnitCostCents, units, productionFeeBasisPoints)
	return q
}

// labelsAndDesignPerUnit spreads branded labels and technical design over
// units. The per-order total can exceed int64 cents at large unit counts.
func labelsAndDesignPerUnit(c *types.PricingConstant, units int64) int64 {
	u := decimal.NewFromInt(units)
	additional := decimal.NewFromInt(max(0, units-c.BrandedLabelsMinimumUnits)).Mul(decimal.NewFromInt(c.BrandedLabelsAdditionalCents))
	total := decimal.NewFromInt(c.BrandedLabelsMinimumCents + c.TechnicalDesignCents).Add(additional)
	if !total.IsPositive() {
		return 0
	}
	q, r := total.QuoRem(u, 0)
	if r.IsPositive() {
		q = q.Add(one)
	}
	return q.IntPart()
}

func materialCost(budgetCents int64, values ResolvedValues) int64 {
	unit := decimal.NewFromInt(values.ProductMaterial.UnitCents)
	pt := values.ProductType
	computed := unit.Mul(pt.Yield).Add(unit.Mul(pt.Contrast)).Ceil().IntPart()
	if budgetCents > computed {
		computed = budgetCents
	}
	return decimal.NewFromInt(computed).Mul(values.UnitMaterialMultiple.Multiple).Ceil().IntPart()
}

// AddMargin returns the smallest whole-cent price that keeps the given
// fractional margin (0.35 for 35%) over cents. A margin of 1 or more is
// corrupt reference data and panics.
func AddMargin(cents int64, margin decimal.Decimal) int64 {
	if margin.GreaterThanOrEqual(one) {
		panic(fmt.Sprintf("pricing: margin %s must be below 1", margin))
	}
	return decimal.NewFromInt(cents).DivRound(one.Sub(margin), 32).Ceil().IntPart()
}

// ProductionFeeCents is the plan fee on the order total, rounded half up.
func ProductionFeeCents(unitCostCents, units, basisPoints int64) int64 {
	if basisPoints == 0 {
		return 0
	}
	total := decimal.NewFromInt(unitCostCents).Mul(decimal.NewFromInt(units))
	return total.Mul(decimal.NewFromInt(basisPoints)).Div(basisPoint).Round(0).IntPart()
}

func ceilDiv(n, d int64) int64 {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

// TimeTotalMs sums every phase, process time included.
func (q UnsavedQuote) TimeTotalMs() int64 {
	return q.CreationTimeMs + q.SpecificationTimeMs + q.SourcingTimeMs + q.SamplingTimeMs +
		q.PreProductionTimeMs + q.ProcessTimeMs + q.ProductionTimeMs + q.FulfillmentTimeMs
}

// Quote builds the persistable row.
func (q UnsavedQuote) Quote(designID uuid.UUID, costInputID *uuid.UUID, quoteInputID uuid.UUID) *types.Quote {
	return &types.Quote{
		ID:                   uuid.New(),
		DesignID:             designID,
		CostInputID:          costInputID,
		QuoteInputID:         quoteInputID,
		Units:                q.Units,
		BaseCostCents:        q.BaseCostCents,
		MaterialCostCents:    q.MaterialCostCents,
		ProcessCostCents:     q.ProcessCostCents,
		DevelopmentCostCents: q.DevelopmentCostCents,
		UnitCostCents:        q.UnitCostCents,
		ProductionFeeCents:   q.ProductionFeeCents,
		CreationTimeMs:       q.CreationTimeMs,
		SpecificationTimeMs:  q.SpecificationTimeMs,
		SourcingTimeMs:       q.SourcingTimeMs,
		SamplingTimeMs:       q.SamplingTimeMs,
		PreProductionTimeMs:  q.PreProductionTimeMs,
		ProcessTimeMs:        q.ProcessTimeMs,
		ProductionTimeMs:     q.ProductionTimeMs,
		FulfillmentTimeMs:    q.FulfillmentTimeMs,
	}
}
