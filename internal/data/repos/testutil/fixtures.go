package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/yungbote/costing-backend/internal/domain"
)

const (
	MaterialBasic      = "BASIC"
	ProductTeeshirt    = "TEESHIRT"
	ProcessScreenPrint = "SCREEN_PRINTING"
	ProcessEmbroidery  = "EMBROIDERY"

	day = int64(24 * time.Hour / time.Millisecond)
)

func create(tb testing.TB, ctx context.Context, tx *gorm.DB, what string, v any) {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed %s: %v", what, err)
	}
}

// SeedReferenceTables writes pricing version 1 (the regression fixture) plus
// a version 2 margin table so "latest" and pinned lookups differ.
//
// A SIMPLE teeshirt at 100,000 units with two SIMPLE screen prints prices at
// base 386, material 660, process 101, development 8, unit 1777.
func SeedReferenceTables(tb testing.TB, ctx context.Context, tx *gorm.DB) {
	tb.Helper()

	create(tb, ctx, tx, "constants", []*types.PricingConstant{{
		ID:                           uuid.New(),
		Version:                      1,
		BrandedLabelsMinimumCents:    100000,
		BrandedLabelsMinimumUnits:    1000,
		BrandedLabelsAdditionalCents: 5,
		GradingCents:                 50000,
		MarkingCents:                 50000,
		PatternRevisionCents:         100000,
		SampleMinimumCents:           15000,
		TechnicalDesignCents:         750000,
		WorkingSessionCents:          200000,
	}})

	margins := []*types.PricingMargin{}
	for _, m := range []struct {
		version int
		units   int64
		pct     int64
	}{
		{1, 0, 50}, {1, 1000, 45}, {1, 10000, 40}, {1, 100000, 35},
		{2, 0, 55}, {2, 100000, 30},
	} {
		margins = append(margins, &types.PricingMargin{
			ID: uuid.New(), Version: m.version, MinimumUnits: m.units, Margin: decimal.NewFromInt(m.pct),
		})
	}
	create(tb, ctx, tx, "margins", margins)

	create(tb, ctx, tx, "product materials", []*types.PricingProductMaterial{
		{ID: uuid.New(), Version: 1, Category: MaterialBasic, MinimumUnits: 0, UnitCents: 500},
		{ID: uuid.New(), Version: 1, Category: MaterialBasic, MinimumUnits: 50000, UnitCents: 400},
		{ID: uuid.New(), Version: 1, Category: "SPECIALTY", MinimumUnits: 0, UnitCents: 1200},
	})

	teeshirt := func(complexity string, units, unitCents int64) *types.PricingProductType {
		return &types.PricingProductType{
			ID:                  uuid.New(),
			Version:             1,
			Name:                ProductTeeshirt,
			Complexity:          complexity,
			MinimumUnits:        units,
			UnitCents:           unitCents,
			PatternMinimumCents: 300000,
			SampleUnitCents:     3000,
			Yield:               decimal.RequireFromString("1.5"),
			Contrast:            decimal.RequireFromString("0.15"),
			CreationTimeMs:      1 * day,
			SpecificationTimeMs: 2 * day,
			SourcingTimeMs:      3 * day,
			SamplingTimeMs:      4 * day,
			PreProductionTimeMs: 5 * day,
			ProductionTimeMs:    6 * day,
			FulfillmentTimeMs:   7 * day,
		}
	}
	packaging := teeshirt(types.ComplexitySimple, 0, 200)
	packaging.Name = types.ProductTypePackaging
	create(tb, ctx, tx, "product types", []*types.PricingProductType{
		teeshirt(types.ComplexitySimple, 0, 500),
		teeshirt(types.ComplexitySimple, 50000, 360),
		teeshirt(types.ComplexityBlank, 0, 300),
		packaging,
	})

	create(tb, ctx, tx, "processes", []*types.PricingProcess{
		{ID: uuid.New(), Version: 1, Name: ProcessScreenPrint, Complexity: types.ComplexitySimple, MinimumUnits: 0, SetupCents: 25000, UnitCents: 100},
		{ID: uuid.New(), Version: 1, Name: ProcessScreenPrint, Complexity: types.ComplexitySimple, MinimumUnits: 10000, SetupCents: 25000, UnitCents: 50},
		{ID: uuid.New(), Version: 1, Name: ProcessEmbroidery, Complexity: types.ComplexitySimple, MinimumUnits: 0, SetupCents: 10000, UnitCents: 200},
	})

	create(tb, ctx, tx, "process timelines", []*types.PricingProcessTimeline{
		{ID: uuid.New(), Version: 1, MinimumUnits: 0, UniqueProcesses: 1, TimeMs: 1 * day},
		{ID: uuid.New(), Version: 1, MinimumUnits: 0, UniqueProcesses: 2, TimeMs: 2 * day},
		{ID: uuid.New(), Version: 1, MinimumUnits: 10000, UniqueProcesses: 1, TimeMs: 2 * day},
		{ID: uuid.New(), Version: 1, MinimumUnits: 10000, UniqueProcesses: 2, TimeMs: 3 * day},
	})

	create(tb, ctx, tx, "care labels", []*types.PricingCareLabel{
		{ID: uuid.New(), Version: 1, MinimumUnits: 0, UnitCents: 15},
		{ID: uuid.New(), Version: 1, MinimumUnits: 10000, UnitCents: 12},
	})

	create(tb, ctx, tx, "unit material multiples", []*types.PricingUnitMaterialMultiple{
		{ID: uuid.New(), Version: 1, MinimumUnits: 0, Multiple: decimal.NewFromInt(1)},
	})
}

// V1 pins every category to version 1.
var V1 = types.PricingVersions{
	Constants:             1,
	Margins:               1,
	ProductMaterials:      1,
	ProductTypes:          1,
	Processes:             1,
	ProcessTimelines:      1,
	CareLabels:            1,
	UnitMaterialMultiples: 1,
}

// TeeshirtCostInput is an unsaved SIMPLE teeshirt cost input pinned to V1.
func TeeshirtCostInput(designID uuid.UUID, processes ...types.ProcessSelection) *types.CostInput {
	ci := &types.CostInput{
		ID:                          uuid.New(),
		DesignID:                    designID,
		ProductType:                 ProductTeeshirt,
		ProductComplexity:           types.ComplexitySimple,
		MaterialCategory:            MaterialBasic,
		MinimumOrderQuantity:        1,
		ConstantsVersion:            V1.Constants,
		MarginVersion:               V1.Margins,
		ProductMaterialsVersion:     V1.ProductMaterials,
		ProductTypeVersion:          V1.ProductTypes,
		ProcessesVersion:            V1.Processes,
		ProcessTimelinesVersion:     V1.ProcessTimelines,
		CareLabelsVersion:           V1.CareLabels,
		UnitMaterialMultipleVersion: V1.UnitMaterialMultiples,
	}
	for i, p := range processes {
		ci.Processes = append(ci.Processes, types.CostInputProcess{
			ID:          uuid.New(),
			CostInputID: ci.ID,
			Position:    i,
			Name:        p.Name,
			Complexity:  p.Complexity,
		})
	}
	return ci
}

func ScreenPrint() types.ProcessSelection {
	return types.ProcessSelection{Name: ProcessScreenPrint, Complexity: types.ComplexitySimple}
}

func Embroidery() types.ProcessSelection {
	return types.ProcessSelection{Name: ProcessEmbroidery, Complexity: types.ComplexitySimple}
}

// DesignFixture is a design ready for checkout: owner on a plan, a CHECKOUT
// step, an active cost input and variants.
type DesignFixture struct {
	Design    *types.ProductDesign
	Step      *types.ApprovalStep
	CostInput *types.CostInput
	Plan      *types.Plan
}

func SeedPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, basisPoints int64) *types.Plan {
	tb.Helper()
	plan := &types.Plan{ID: uuid.New(), Title: "Pro", ProductionFeeBasisPoints: basisPoints}
	create(tb, ctx, tx, "plan", plan)
	create(tb, ctx, tx, "subscription", &types.Subscription{ID: uuid.New(), UserID: userID, PlanID: plan.ID})
	return plan
}

// SeedDesign seeds a checkout-ready design. colorways maps color name to
// units; nil plan basis points skips the subscription.
func SeedDesign(tb testing.TB, ctx context.Context, tx *gorm.DB, ci *types.CostInput, colorways map[string]int64, basisPoints *int64) *DesignFixture {
	tb.Helper()
	userID := uuid.New()
	d := &types.ProductDesign{ID: ci.DesignID, UserID: userID, Title: "design"}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
		ci.DesignID = d.ID
	}
	create(tb, ctx, tx, "design", d)

	step := &types.ApprovalStep{ID: uuid.New(), DesignID: d.ID, Type: types.ApprovalStepCheckout, Ordering: 3}
	create(tb, ctx, tx, "approval step", step)

	create(tb, ctx, tx, "cost input", ci)

	pos := 0
	for color, units := range colorways {
		create(tb, ctx, tx, "variant", &types.Variant{
			ID: uuid.New(), DesignID: d.ID, ColorName: color, SizeName: "M", Position: pos, UnitsToProduce: units,
		})
		pos++
	}

	out := &DesignFixture{Design: d, Step: step, CostInput: ci}
	if basisPoints != nil {
		out.Plan = SeedPlan(tb, ctx, tx, userID, *basisPoints)
	}
	return out
}

func BasisPoints(bp int64) *int64 { return &bp }
