package pricing

import (
	"strings"

	types "github.com/yungbote/costing-backend/internal/domain"
	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
)

// ValidateAttributes checks the fields every priced attribute set needs.
func ValidateAttributes(op string, attrs types.CostAttributes) error {
	switch {
	case strings.TrimSpace(attrs.ProductType) == "":
		return domainagg.NewError(domainagg.CodeValidation, op, "missing product_type", nil)
	case strings.TrimSpace(attrs.ProductComplexity) == "":
		return domainagg.NewError(domainagg.CodeValidation, op, "missing product_complexity", nil)
	case strings.TrimSpace(attrs.MaterialCategory) == "":
		return domainagg.NewError(domainagg.CodeValidation, op, "missing material_category", nil)
	case attrs.MaterialBudgetCents < 0:
		return domainagg.NewError(domainagg.CodeValidation, op, "material_budget_cents must not be negative", nil)
	case attrs.MinimumOrderQuantity < 0:
		return domainagg.NewError(domainagg.CodeValidation, op, "minimum_order_quantity must not be negative", nil)
	}
	for _, p := range attrs.Processes {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Complexity) == "" {
			return domainagg.NewError(domainagg.CodeValidation, op, "process requires name and complexity", nil)
		}
	}
	return nil
}

// PinLatest pins every unpinned category of v to latest. It fails when a
// category has no reference data yet, or v names a version newer than the
// latest release.
func PinLatest(op string, v, latest types.PricingVersions) (types.PricingVersions, error) {
	pinned := pinVersions(v, latest)
	if hasUnpinned(pinned) {
		return pinned, domainagg.NewError(domainagg.CodePreconditionFailed, op, "pricing reference tables are not seeded", nil)
	}
	pairs := [][2]int{
		{pinned.Constants, latest.Constants},
		{pinned.Margins, latest.Margins},
		{pinned.ProductMaterials, latest.ProductMaterials},
		{pinned.ProductTypes, latest.ProductTypes},
		{pinned.Processes, latest.Processes},
		{pinned.ProcessTimelines, latest.ProcessTimelines},
		{pinned.CareLabels, latest.CareLabels},
		{pinned.UnitMaterialMultiples, latest.UnitMaterialMultiples},
	}
	for _, p := range pairs {
		if p[0] < 0 || p[0] > p[1] {
			return pinned, domainagg.Newf(domainagg.CodeValidation, op, "pricing version %d is not released", p[0])
		}
	}
	return pinned, nil
}
