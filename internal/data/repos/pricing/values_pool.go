package pricing

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

// Filters are comparable so callers can deduplicate them as map keys.
// Versions must be pinned; pooled lookups never resolve "latest".

type VersionFilter struct {
	Version int
	Units   int64
}

type ProductMaterialFilter struct {
	Version  int
	Category string
	Units    int64
}

type ProductTypeFilter struct {
	Version    int
	Name       string
	Complexity string
	Units      int64
}

type ProcessFilter struct {
	Version    int
	Name       string
	Complexity string
	Units      int64
}

type ProcessTimelineFilter struct {
	Version         int
	UniqueProcesses int
	Units           int64
}

// PooledValueSource answers many filters of one category with one query.
// Results come back highest tier first, lowest id on ties; timelines are
// additionally ordered by unique_processes descending within a tier.
type PooledValueSource interface {
	FindConstants(dbc dbctx.Context, versions []int) ([]*types.PricingConstant, error)
	FindMargins(dbc dbctx.Context, filters []VersionFilter) ([]*types.PricingMargin, error)
	FindProductMaterials(dbc dbctx.Context, filters []ProductMaterialFilter) ([]*types.PricingProductMaterial, error)
	FindProductTypes(dbc dbctx.Context, filters []ProductTypeFilter) ([]*types.PricingProductType, error)
	FindProcesses(dbc dbctx.Context, filters []ProcessFilter) ([]*types.PricingProcess, error)
	FindProcessTimelines(dbc dbctx.Context, filters []ProcessTimelineFilter) ([]*types.PricingProcessTimeline, error)
	FindCareLabels(dbc dbctx.Context, filters []VersionFilter) ([]*types.PricingCareLabel, error)
	FindUnitMaterialMultiples(dbc dbctx.Context, filters []VersionFilter) ([]*types.PricingUnitMaterialMultiple, error)
}

func eq(column string, value any) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: column}, Value: value}
}

// anyOf ORs the per-filter conditions. A lone condition is returned as is:
// gorm joins a single-element OR group to the previous WHERE with OR.
func anyOf(conds []clause.Expression) clause.Expression {
	if len(conds) == 1 {
		return conds[0]
	}
	return clause.Or(conds...)
}

func maxUnits[F any](filters []F, units func(F) int64) int64 {
	var out int64
	for _, f := range filters {
		if u := units(f); u > out {
			out = u
		}
	}
	return out
}

func findTiers[T any](q *gorm.DB, maxUnits int64, match clause.Expression, order ...string) ([]*T, error) {
	q = q.Model(new(T)).Where("minimum_units <= ?", maxUnits).Where(match)
	if len(order) == 0 {
		order = []string{"minimum_units DESC"}
	}
	for _, o := range order {
		q = q.Order(o)
	}
	var rows []*T
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *valueRepo) FindConstants(dbc dbctx.Context, versions []int) ([]*types.PricingConstant, error) {
	var rows []*types.PricingConstant
	if len(versions) == 0 {
		return rows, nil
	}
	err := dbc.DB(r.db).
		Where("version IN ?", versions).
		Order("version DESC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *valueRepo) FindMargins(dbc dbctx.Context, filters []VersionFilter) ([]*types.PricingMargin, error) {
	if len(filters) == 0 {
		return []*types.PricingMargin{}, nil
	}
	conds := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		conds = append(conds, eq("version", f.Version))
	}
	return findTiers[types.PricingMargin](dbc.DB(r.db), maxUnits(filters, versionUnits), anyOf(conds))
}

func (r *valueRepo) FindProductMaterials(dbc dbctx.Context, filters []ProductMaterialFilter) ([]*types.PricingProductMaterial, error) {
	if len(filters) == 0 {
		return []*types.PricingProductMaterial{}, nil
	}
	conds := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		conds = append(conds, clause.And(eq("version", f.Version), eq("category", f.Category)))
	}
	units := maxUnits(filters, func(f ProductMaterialFilter) int64 { return f.Units })
	return findTiers[types.PricingProductMaterial](dbc.DB(r.db), units, anyOf(conds))
}

func (r *valueRepo) FindProductTypes(dbc dbctx.Context, filters []ProductTypeFilter) ([]*types.PricingProductType, error) {
	if len(filters) == 0 {
		return []*types.PricingProductType{}, nil
	}
	conds := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		conds = append(conds, clause.And(eq("version", f.Version), eq("name", f.Name), eq("complexity", f.Complexity)))
	}
	units := maxUnits(filters, func(f ProductTypeFilter) int64 { return f.Units })
	return findTiers[types.PricingProductType](dbc.DB(r.db), units, anyOf(conds))
}

func (r *valueRepo) FindProcesses(dbc dbctx.Context, filters []ProcessFilter) ([]*types.PricingProcess, error) {
	if len(filters) == 0 {
		return []*types.PricingProcess{}, nil
	}
	conds := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		conds = append(conds, clause.And(eq("version", f.Version), eq("name", f.Name), eq("complexity", f.Complexity)))
	}
	units := maxUnits(filters, func(f ProcessFilter) int64 { return f.Units })
	return findTiers[types.PricingProcess](dbc.DB(r.db), units, anyOf(conds))
}

func (r *valueRepo) FindProcessTimelines(dbc dbctx.Context, filters []ProcessTimelineFilter) ([]*types.PricingProcessTimeline, error) {
	if len(filters) == 0 {
		return []*types.PricingProcessTimeline{}, nil
	}
	var maxUnique int
	versions := make([]int, 0, len(filters))
	seen := make(map[int]struct{}, len(filters))
	for _, f := range filters {
		if f.UniqueProcesses > maxUnique {
			maxUnique = f.UniqueProcesses
		}
		if _, ok := seen[f.Version]; !ok {
			seen[f.Version] = struct{}{}
			versions = append(versions, f.Version)
		}
	}
	units := maxUnits(filters, func(f ProcessTimelineFilter) int64 { return f.Units })
	q := dbc.DB(r.db).Where("unique_processes <= ?", maxUnique)
	return findTiers[types.PricingProcessTimeline](
		q,
		units,
		clause.Expr{SQL: "version IN ?", Vars: []any{versions}},
		"minimum_units DESC",
		"unique_processes DESC",
	)
}

func (r *valueRepo) FindCareLabels(dbc dbctx.Context, filters []VersionFilter) ([]*types.PricingCareLabel, error) {
	if len(filters) == 0 {
		return []*types.PricingCareLabel{}, nil
	}
	conds := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		conds = append(conds, eq("version", f.Version))
	}
	return findTiers[types.PricingCareLabel](dbc.DB(r.db), maxUnits(filters, versionUnits), anyOf(conds))
}

func (r *valueRepo) FindUnitMaterialMultiples(dbc dbctx.Context, filters []VersionFilter) ([]*types.PricingUnitMaterialMultiple, error) {
	if len(filters) == 0 {
		return []*types.PricingUnitMaterialMultiple{}, nil
	}
	conds := make([]clause.Expression, 0, len(filters))
	for _, f := range filters {
		conds = append(conds, eq("version", f.Version))
	}
	return findTiers[types.PricingUnitMaterialMultiple](dbc.DB(r.db), maxUnits(filters, versionUnits), anyOf(conds))
}

func versionUnits(f VersionFilter) int64 { return f.Units }
