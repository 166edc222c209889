package pricing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
)

// ReferenceSet is one batch of reference rows to append.
type ReferenceSet struct {
	Constants             []*types.PricingConstant
	Margins               []*types.PricingMargin
	ProductMaterials      []*types.PricingProductMaterial
	ProductTypes          []*types.PricingProductType
	Processes             []*types.PricingProcess
	ProcessTimelines      []*types.PricingProcessTimeline
	CareLabels            []*types.PricingCareLabel
	UnitMaterialMultiples []*types.PricingUnitMaterialMultiple
}

func (s ReferenceSet) Len() int {
	return len(s.Constants) + len(s.Margins) + len(s.ProductMaterials) + len(s.ProductTypes) +
		len(s.Processes) + len(s.ProcessTimelines) + len(s.CareLabels) + len(s.UnitMaterialMultiples)
}

const seedBatchSize = 200

func insertAll[T any](q *gorm.DB, rows []*T, setID func(*T)) error {
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		setID(row)
	}
	return q.CreateInBatches(rows, seedBatchSize).Error
}

// Seed appends every row of set. Rows without an id get a fresh one.
func (r *valueRepo) Seed(dbc dbctx.Context, set ReferenceSet) error {
	q := dbc.DB(r.db)
	if err := insertAll(q, set.Constants, func(v *types.PricingConstant) { v.ID = ensureID(v.ID) }); err != nil {
		return err
	}
	if err := insertAll(q, set.Margins, func(v *types.PricingMargin) { v.ID = ensureID(v.ID) }); err != nil {
		return err
	}
	if err := insertAll(q, set.ProductMaterials, func(v *types.PricingProductMaterial) { v.ID = ensureID(v.ID) }); err != nil {
		return err
	}
	if err := insertAll(q, set.ProductTypes, func(v *types.PricingProductType) { v.ID = ensureID(v.ID) }); err != nil {
		return err
	}
	if err := insertAll(q, set.Processes, func(v *types.PricingProcess) { v.ID = ensureID(v.ID) }); err != nil {
		return err
	}
	if err := insertAll(q, set.ProcessTimelines, func(v *types.PricingProcessTimeline) { v.ID = ensureID(v.ID) }); err != nil {
		return err
	}
	if err := insertAll(q, set.CareLabels, func(v *types.PricingCareLabel) { v.ID = ensureID(v.ID) }); err != nil {
		return err
	}
	if err := insertAll(q, set.UnitMaterialMultiples, func(v *types.PricingUnitMaterialMultiple) { v.ID = ensureID(v.ID) }); err != nil {
		return err
	}
	r.log.Info("seeded pricing reference rows", "rows", set.Len())
	return nil
}

func ensureID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}
