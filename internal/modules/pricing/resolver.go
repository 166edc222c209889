package pricing

import (
	"sync"

	"github.com/yungbote/costing-backend/internal/data/repos"
	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

// ValueSource is the single-lookup half of the reference store.
type ValueSource interface {
	GetConstant(dbc dbctx.Context, version int) (*types.PricingConstant, error)
	GetMargin(dbc dbctx.Context, version int, units int64) (*types.PricingMargin, error)
	GetProductMaterial(dbc dbctx.Context, version int, category string, units int64) (*types.PricingProductMaterial, error)
	GetProductType(dbc dbctx.Context, version int, name, complexity string, units int64) (*types.PricingProductType, error)
	GetProcess(dbc dbctx.Context, version int, name, complexity string, units int64) (*types.PricingProcess, error)
	GetProcessTimeline(dbc dbctx.Context, version int, uniqueProcesses int, units int64) (*types.PricingProcessTimeline, error)
	GetCareLabel(dbc dbctx.Context, version int, units int64) (*types.PricingCareLabel, error)
	GetUnitMaterialMultiple(dbc dbctx.Context, version int, units int64) (*types.PricingUnitMaterialMultiple, error)
}

var _ ValueSource = repos.ValueRepo(nil)

// Resolver resolves the values for one request with one query per category
// (one per distinct process). Unpinned versions resolve to each table's
// latest version inside the query itself.
type Resolver struct {
	values ValueSource
	log    *logger.Logger
}

func NewResolver(values ValueSource, baseLog *logger.Logger) *Resolver {
	return &Resolver{values: values, log: baseLog.With("module", "PricingResolver")}
}

func (r *Resolver) Resolve(dbc dbctx.Context, attrs types.CostAttributes, units int64) (ResolvedValues, error) {
	const op = "Pricing.Resolve"
	var out ResolvedValues
	v := attrs.Versions

	distinct := distinctProcesses(attrs.Processes)
	byPair := make(map[types.ProcessSelection]*types.PricingProcess, len(distinct))
	var mu sync.Mutex

	tasks := []func(dbctx.Context) error{
		func(d dbctx.Context) error {
			row, err := r.values.GetConstant(d, v.Constants)
			if err != nil {
				return err
			}
			if row == nil {
				return notFound(op, "constants", v.Constants, units)
			}
			out.Constant = row
			return nil
		},
		func(d dbctx.Context) error {
			row, err := r.values.GetMargin(d, v.Margins, units)
			if err != nil {
				return err
			}
			if row == nil {
				return notFound(op, "margin", v.Margins, units)
			}
			out.Margin = row
			return nil
		},
		func(d dbctx.Context) error {
			row, err := r.values.GetProductMaterial(d, v.ProductMaterials, attrs.MaterialCategory, units)
			if err != nil {
				return err
			}
			if row == nil {
				return notFound(op, "product material "+attrs.MaterialCategory, v.ProductMaterials, units)
			}
			out.ProductMaterial = row
			return nil
		},
		func(d dbctx.Context) error {
			row, err := r.values.GetProductType(d, v.ProductTypes, attrs.ProductType, attrs.ProductComplexity, units)
			if err != nil {
				return err
			}
			if row == nil {
				return notFound(op, "product type "+attrs.ProductType+"/"+attrs.ProductComplexity, v.ProductTypes, units)
			}
			out.ProductType = row
			return nil
		},
		func(d dbctx.Context) error {
			row, err := r.values.GetCareLabel(d, v.CareLabels, units)
			if err != nil {
				return err
			}
			if row == nil {
				return notFound(op, "care label", v.CareLabels, units)
			}
			out.CareLabel = row
			return nil
		},
		func(d dbctx.Context) error {
			row, err := r.values.GetUnitMaterialMultiple(d, v.UnitMaterialMultiples, units)
			if err != nil {
				return err
			}
			if row == nil {
				return notFound(op, "unit material multiple", v.UnitMaterialMultiples, units)
			}
			out.UnitMaterialMultiple = row
			return nil
		},
	}

	if len(distinct) > 0 {
		unique := attrs.UniqueProcessCount()
		tasks = append(tasks, func(d dbctx.Context) error {
			row, err := r.values.GetProcessTimeline(d, v.ProcessTimelines, unique, units)
			if err != nil {
				return err
			}
			out.ProcessTimeline = row
			return nil
		})
	}
	for _, pair := range distinct {
		pair := pair
		tasks = append(tasks, func(d dbctx.Context) error {
			row, err := r.values.GetProcess(d, v.Processes, pair.Name, pair.Complexity, units)
			if err != nil {
				return err
			}
			if row == nil {
				return notFound(op, "process "+pair.Name+"/"+pair.Complexity, v.Processes, units)
			}
			mu.Lock()
			byPair[pair] = row
			mu.Unlock()
			return nil
		})
	}

	if err := fanOut(dbc, tasks...); err != nil {
		return ResolvedValues{}, err
	}

	out.Processes = make([]*types.PricingProcess, 0, len(attrs.Processes))
	for _, p := range attrs.Processes {
		out.Processes = append(out.Processes, byPair[p])
	}
	return out, nil
}
