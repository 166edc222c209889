package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/costing-backend/internal/domain"
	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

const ErrMsgNoPricingValues = "no appropriate pricing values found"

// ResolvedValues is exactly one reference row per category for one
// (cost input, units) pair. Processes holds one row per selected process in
// selection order, repeats included. ProcessTimeline is nil when nothing
// applies, which is always the case for designs without processes.
type ResolvedValues struct {
	Constant             *types.PricingConstant
	Margin               *types.PricingMargin
	ProductMaterial      *types.PricingProductMaterial
	ProductType          *types.PricingProductType
	Processes            []*types.PricingProcess
	ProcessTimeline      *types.PricingProcessTimeline
	CareLabel            *types.PricingCareLabel
	UnitMaterialMultiple *types.PricingUnitMaterialMultiple
}

// QuoteInput records the ids of the rows used.
func (v ResolvedValues) QuoteInput() *types.QuoteInput {
	qi := &types.QuoteInput{
		ConstantID:             v.Constant.ID,
		MarginID:               v.Margin.ID,
		ProductMaterialID:      v.ProductMaterial.ID,
		ProductTypeID:          v.ProductType.ID,
		CareLabelID:            v.CareLabel.ID,
		UnitMaterialMultipleID: v.UnitMaterialMultiple.ID,
	}
	if v.ProcessTimeline != nil {
		id := v.ProcessTimeline.ID
		qi.ProcessTimelineID = &id
	}
	return qi
}

func (v ResolvedValues) ProcessIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(v.Processes))
	for _, p := range v.Processes {
		out = append(out, p.ID)
	}
	return out
}

func notFound(op, category string, version int, units int64) error {
	return domainagg.NewError(
		domainagg.CodeNotFound,
		op,
		ErrMsgNoPricingValues,
		fmt.Errorf("%s: version=%d units=%d", category, version, units),
	)
}

// pinVersions replaces unpinned (latest) categories with the given versions.
func pinVersions(v, latest types.PricingVersions) types.PricingVersions {
	pin := func(dst *int, l int) {
		if *dst == types.LatestVersion {
			*dst = l
		}
	}
	pin(&v.Constants, latest.Constants)
	pin(&v.Margins, latest.Margins)
	pin(&v.ProductMaterials, latest.ProductMaterials)
	pin(&v.ProductTypes, latest.ProductTypes)
	pin(&v.Processes, latest.Processes)
	pin(&v.ProcessTimelines, latest.ProcessTimelines)
	pin(&v.CareLabels, latest.CareLabels)
	pin(&v.UnitMaterialMultiples, latest.UnitMaterialMultiples)
	return v
}

func hasUnpinned(v types.PricingVersions) bool {
	return v.Constants == types.LatestVersion ||
		v.Margins == types.LatestVersion ||
		v.ProductMaterials == types.LatestVersion ||
		v.ProductTypes == types.LatestVersion ||
		v.Processes == types.LatestVersion ||
		v.ProcessTimelines == types.LatestVersion ||
		v.CareLabels == types.LatestVersion ||
		v.UnitMaterialMultiples == types.LatestVersion
}

// distinctProcesses returns each (name, complexity) pair once, first-seen order.
func distinctProcesses(sel []types.ProcessSelection) []types.ProcessSelection {
	seen := make(map[types.ProcessSelection]struct{}, len(sel))
	out := make([]types.ProcessSelection, 0, len(sel))
	for _, p := range sel {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// fanOut runs independent lookups concurrently. Inside a transaction they run
// one at a time because a transaction owns a single connection.
func fanOut(dbc dbctx.Context, tasks ...func(dbctx.Context) error) error {
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	g, gctx := errgroup.WithContext(ctx)
	if dbc.InTx() {
		g.SetLimit(1)
	}
	sub := dbctx.Context{Ctx: gctx, Tx: dbc.Tx}
	for _, task := range tasks {
		task := task
		g.Go(func() error { return task(sub) })
	}
	return g.Wait()
}
