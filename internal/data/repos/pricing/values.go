package pricing

import (
	"gorm.io/gorm"

	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

// ValueRepo reads the tiered pricing reference tables. Single lookups return
// (nil, nil) when no tier applies; version LatestVersion means the table's
// highest version.
type ValueRepo interface {
	GetConstant(dbc dbctx.Context, version int) (*types.PricingConstant, error)
	GetMargin(dbc dbctx.Context, version int, units int64) (*types.PricingMargin, error)
	GetProductMaterial(dbc dbctx.Context, version int, category string, units int64) (*types.PricingProductMaterial, error)
	GetProductType(dbc dbctx.Context, version int, name, complexity string, units int64) (*types.PricingProductType, error)
	GetProcess(dbc dbctx.Context, version int, name, complexity string, units int64) (*types.PricingProcess, error)
	GetProcessTimeline(dbc dbctx.Context, version int, uniqueProcesses int, units int64) (*types.PricingProcessTimeline, error)
	GetCareLabel(dbc dbctx.Context, version int, units int64) (*types.PricingCareLabel, error)
	GetUnitMaterialMultiple(dbc dbctx.Context, version int, units int64) (*types.PricingUnitMaterialMultiple, error)

	PooledValueSource

	LatestVersions(dbc dbctx.Context) (types.PricingVersions, error)
	Seed(dbc dbctx.Context, set ReferenceSet) error
}

type valueRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewValueRepo(db *gorm.DB, baseLog *logger.Logger) ValueRepo {
	return &valueRepo{
		db:  db,
		log: baseLog.With("repo", "ValueRepo"),
	}
}

// versionScope pins a lookup to version, or to the table-wide max version.
func versionScope[T any](version int) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if version != types.LatestVersion {
			return q.Where("version = ?", version)
		}
		latest := q.Session(&gorm.Session{NewDB: true}).Model(new(T)).Select("MAX(version)")
		return q.Where("version = (?)", latest)
	}
}

// firstTier returns the highest tier of q, lowest id on ties.
func firstTier[T any](q *gorm.DB, order ...string) (*T, error) {
	if len(order) == 0 {
		order = []string{"minimum_units DESC"}
	}
	for _, o := range order {
		q = q.Order(o)
	}
	var rows []*T
	if err := q.Order("id ASC").Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *valueRepo) GetConstant(dbc dbctx.Context, version int) (*types.PricingConstant, error) {
	q := dbc.DB(r.db).Model(&types.PricingConstant{}).Scopes(versionScope[types.PricingConstant](version))
	return firstTier[types.PricingConstant](q, "version DESC")
}

func (r *valueRepo) GetMargin(dbc dbctx.Context, version int, units int64) (*types.PricingMargin, error) {
	q := dbc.DB(r.db).Model(&types.PricingMargin{}).
		Scopes(versionScope[types.PricingMargin](version)).
		Where("minimum_units <= ?", units)
	return firstTier[types.PricingMargin](q)
}

func (r *valueRepo) GetProductMaterial(dbc dbctx.Context, version int, category string, units int64) (*types.PricingProductMaterial, error) {
	q := dbc.DB(r.db).Model(&types.PricingProductMaterial{}).
		Scopes(versionScope[types.PricingProductMaterial](version)).
		Where("category = ? AND minimum_units <= ?", category, units)
	return firstTier[types.PricingProductMaterial](q)
}

func (r *valueRepo) GetProductType(dbc dbctx.Context, version int, name, complexity string, units int64) (*types.PricingProductType, error) {
	q := dbc.DB(r.db).Model(&types.PricingProductType{}).
		Scopes(versionScope[types.PricingProductType](version)).
		Where("name = ? AND complexity = ? AND minimum_units <= ?", name, complexity, units)
	return firstTier[types.PricingProductType](q)
}

func (r *valueRepo) GetProcess(dbc dbctx.Context, version int, name, complexity string, units int64) (*types.PricingProcess, error) {
	q := dbc.DB(r.db).Model(&types.PricingProcess{}).
		Scopes(versionScope[types.PricingProcess](version)).
		Where("name = ? AND complexity = ? AND minimum_units <= ?", name, complexity, units)
	return firstTier[types.PricingProcess](q)
}

func (r *valueRepo) GetProcessTimeline(dbc dbctx.Context, version int, uniqueProcesses int, units int64) (*types.PricingProcessTimeline, error) {
	q := dbc.DB(r.db).Model(&types.PricingProcessTimeline{}).
		Scopes(versionScope[types.PricingProcessTimeline](version)).
		Where("unique_processes <= ? AND minimum_units <= ?", uniqueProcesses, units)
	return firstTier[types.PricingProcessTimeline](q, "minimum_units DESC", "unique_processes DESC")
}

func (r *valueRepo) GetCareLabel(dbc dbctx.Context, version int, units int64) (*types.PricingCareLabel, error) {
	q := dbc.DB(r.db).Model(&types.PricingCareLabel{}).
		Scopes(versionScope[types.PricingCareLabel](version)).
		Where("minimum_units <= ?", units)
	return firstTier[types.PricingCareLabel](q)
}

func (r *valueRepo) GetUnitMaterialMultiple(dbc dbctx.Context, version int, units int64) (*types.PricingUnitMaterialMultiple, error) {
	q := dbc.DB(r.db).Model(&types.PricingUnitMaterialMultiple{}).
		Scopes(versionScope[types.PricingUnitMaterialMultiple](version)).
		Where("minimum_units <= ?", units)
	return firstTier[types.PricingUnitMaterialMultiple](q)
}

func maxVersion[T any](q *gorm.DB) (int, error) {
	var v int
	err := q.Model(new(T)).Select("COALESCE(MAX(version), 0)").Scan(&v).Error
	return v, err
}

func (r *valueRepo) LatestVersions(dbc dbctx.Context) (types.PricingVersions, error) {
	var out types.PricingVersions
	q := dbc.DB(r.db)
	steps := []struct {
		dst *int
		fn  func(*gorm.DB) (int, error)
	}{
		{&out.Constants, maxVersion[types.PricingConstant]},
		{&out.Margins, maxVersion[types.PricingMargin]},
		{&out.ProductMaterials, maxVersion[types.PricingProductMaterial]},
		{&out.ProductTypes, maxVersion[types.PricingProductType]},
		{&out.Processes, maxVersion[types.PricingProcess]},
		{&out.ProcessTimelines, maxVersion[types.PricingProcessTimeline]},
		{&out.CareLabels, maxVersion[types.PricingCareLabel]},
		{&out.UnitMaterialMultiples, maxVersion[types.PricingUnitMaterialMultiple]},
	}
	for _, s := range steps {
		v, err := s.fn(q)
		if err != nil {
			return out, err
		}
		*s.dst = v
	}
	return out, nil
}
