package pricing

import (
	"github.com/yungbote/costing-backend/internal/data/repos"
	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

// PoolSource is what BuildPool needs from the reference store.
type PoolSource interface {
	repos.PooledValueSource
	LatestVersions(dbc dbctx.Context) (types.PricingVersions, error)
}

type PoolRequest struct {
	Attributes types.CostAttributes
	Units      int64
}

// Pool holds every reference row a batch of requests can resolve to. It is
// built with one query per category and then answers Pick from memory.
type Pool struct {
	latest types.PricingVersions

	constants             []*types.PricingConstant
	margins               []*types.PricingMargin
	productMaterials      []*types.PricingProductMaterial
	productTypes          []*types.PricingProductType
	processes             []*types.PricingProcess
	processTimelines      []*types.PricingProcessTimeline
	careLabels            []*types.PricingCareLabel
	unitMaterialMultiples []*types.PricingUnitMaterialMultiple
}

// keySet keeps the first occurrence of each filter, in insertion order.
type keySet[K comparable] struct {
	seen  map[K]struct{}
	items []K
}

func newKeySet[K comparable]() *keySet[K] {
	return &keySet[K]{seen: map[K]struct{}{}}
}

func (s *keySet[K]) add(k K) {
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.items = append(s.items, k)
}

// BuildPool collects the deduplicated filters of all requests and issues one
// query per category. Unpinned versions are pinned to the latest versions
// read once up front, so every request in the batch sees the same release.
func BuildPool(dbc dbctx.Context, src PoolSource, reqs []PoolRequest) (*Pool, error) {
	p := &Pool{}
	for _, r := range reqs {
		if hasUnpinned(r.Attributes.Versions) {
			latest, err := src.LatestVersions(dbc)
			if err != nil {
				return nil, err
			}
			p.latest = latest
			break
		}
	}

	constants := newKeySet[int]()
	margins := newKeySet[repos.VersionFilter]()
	materials := newKeySet[repos.ProductMaterialFilter]()
	productTypes := newKeySet[repos.ProductTypeFilter]()
	processes := newKeySet[repos.ProcessFilter]()
	timelines := newKeySet[repos.ProcessTimelineFilter]()
	careLabels := newKeySet[repos.VersionFilter]()
	multiples := newKeySet[repos.VersionFilter]()

	for _, r := range reqs {
		a := r.Attributes
		v := pinVersions(a.Versions, p.latest)
		u := r.Units

		constants.add(v.Constants)
		margins.add(repos.VersionFilter{Version: v.Margins, Units: u})
		materials.add(repos.ProductMaterialFilter{Version: v.ProductMaterials, Category: a.MaterialCategory, Units: u})
		productTypes.add(repos.ProductTypeFilter{Version: v.ProductTypes, Name: a.ProductType, Complexity: a.ProductComplexity, Units: u})
		careLabels.add(repos.VersionFilter{Version: v.CareLabels, Units: u})
		multiples.add(repos.VersionFilter{Version: v.UnitMaterialMultiples, Units: u})

		distinct := distinctProcesses(a.Processes)
		for _, sel := range distinct {
			processes.add(repos.ProcessFilter{Version: v.Processes, Name: sel.Name, Complexity: sel.Complexity, Units: u})
		}
		if len(distinct) > 0 {
			timelines.add(repos.ProcessTimelineFilter{Version: v.ProcessTimelines, UniqueProcesses: a.UniqueProcessCount(), Units: u})
		}
	}

	err := fanOut(dbc,
		func(d dbctx.Context) (err error) {
			p.constants, err = src.FindConstants(d, constants.items)
			return err
		},
		func(d dbctx.Context) (err error) {
			p.margins, err = src.FindMargins(d, margins.items)
			return err
		},
		func(d dbctx.Context) (err error) {
			p.productMaterials, err = src.FindProductMaterials(d, materials.items)
			return err
		},
		func(d dbctx.Context) (err error) {
			p.productTypes, err = src.FindProductTypes(d, productTypes.items)
			return err
		},
		func(d dbctx.Context) (err error) {
			p.processes, err = src.FindProcesses(d, processes.items)
			return err
		},
		func(d dbctx.Context) (err error) {
			p.processTimelines, err = src.FindProcessTimelines(d, timelines.items)
			return err
		},
		func(d dbctx.Context) (err error) {
			p.careLabels, err = src.FindCareLabels(d, careLabels.items)
			return err
		},
		func(d dbctx.Context) (err error) {
			p.unitMaterialMultiples, err = src.FindUnitMaterialMultiples(d, multiples.items)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type tiered interface {
	Tier() int64
}

// pickTier returns the first row at or below units that matches. Rows arrive
// highest tier first, so the first hit is the tier in effect.
func pickTier[T tiered](rows []T, units int64, match func(T) bool) (T, bool) {
	for _, row := range rows {
		if row.Tier() <= units && match(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// Pick resolves one request from the pooled rows. It returns the same rows
// Resolver.Resolve would for the same arguments.
func (p *Pool) Pick(attrs types.CostAttributes, units int64) (ResolvedValues, error) {
	const op = "Pricing.Pick"
	v := pinVersions(attrs.Versions, p.latest)
	var out ResolvedValues

	for _, c := range p.constants {
		if c.Version == v.Constants {
			out.Constant = c
			break
		}
	}
	if out.Constant == nil {
		return ResolvedValues{}, notFound(op, "constants", v.Constants, units)
	}

	var ok bool
	if out.Margin, ok = pickTier(p.margins, units, func(m *types.PricingMargin) bool {
		return m.Version == v.Margins
	}); !ok {
		return ResolvedValues{}, notFound(op, "margin", v.Margins, units)
	}
	if out.ProductMaterial, ok = pickTier(p.productMaterials, units, func(m *types.PricingProductMaterial) bool {
		return m.Version == v.ProductMaterials && m.Category == attrs.MaterialCategory
	}); !ok {
		return ResolvedValues{}, notFound(op, "product material "+attrs.MaterialCategory, v.ProductMaterials, units)
	}
	if out.ProductType, ok = pickTier(p.productTypes, units, func(t *types.PricingProductType) bool {
		return t.Version == v.ProductTypes && t.Name == attrs.ProductType && t.Complexity == attrs.ProductComplexity
	}); !ok {
		return ResolvedValues{}, notFound(op, "product type "+attrs.ProductType+"/"+attrs.ProductComplexity, v.ProductTypes, units)
	}
	if out.CareLabel, ok = pickTier(p.careLabels, units, func(c *types.PricingCareLabel) bool {
		return c.Version == v.CareLabels
	}); !ok {
		return ResolvedValues{}, notFound(op, "care label", v.CareLabels, units)
	}
	if out.UnitMaterialMultiple, ok = pickTier(p.unitMaterialMultiples, units, func(m *types.PricingUnitMaterialMultiple) bool {
		return m.Version == v.UnitMaterialMultiples
	}); !ok {
		return ResolvedValues{}, notFound(op, "unit material multiple", v.UnitMaterialMultiples, units)
	}

	out.Processes = make([]*types.PricingProcess, 0, len(attrs.Processes))
	for _, sel := range attrs.Processes {
		row, found := pickTier(p.processes, units, func(pr *types.PricingProcess) bool {
			return pr.Version == v.Processes && pr.Name == sel.Name && pr.Complexity == sel.Complexity
		})
		if !found {
			return ResolvedValues{}, notFound(op, "process "+sel.Name+"/"+sel.Complexity, v.Processes, units)
		}
		out.Processes = append(out.Processes, row)
	}

	if len(attrs.Processes) > 0 {
		unique := attrs.UniqueProcessCount()
		out.ProcessTimeline, _ = pickTier(p.processTimelines, units, func(t *types.PricingProcessTimeline) bool {
			return t.Version == v.ProcessTimelines && t.UniqueProcesses <= unique
		})
	}
	return out, nil
}
