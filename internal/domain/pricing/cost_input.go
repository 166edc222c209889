package pricing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CostInput is the committed, immutable snapshot of a design's pricing
// attributes. A newer snapshot supersedes an older one by expiring it.
type CostInput struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DesignID             uuid.UUID `gorm:"type:uuid;column:design_id;not null;index" json:"design_id"`
	ProductType          string    `gorm:"column:product_type;not null" json:"product_type"`
	ProductComplexity    string    `gorm:"column:product_complexity;not null" json:"product_complexity"`
	MaterialCategory     string    `gorm:"column:material_category;not null" json:"material_category"`
	MaterialBudgetCents  int64     `gorm:"column:material_budget_cents;not null;default:0" json:"material_budget_cents"`
	MinimumOrderQuantity int64     `gorm:"column:minimum_order_quantity;not null;default:1" json:"minimum_order_quantity"`

	ConstantsVersion            int `gorm:"column:constants_version;not null" json:"constants_version"`
	MarginVersion               int `gorm:"column:margin_version;not null" json:"margin_version"`
	ProductMaterialsVersion     int `gorm:"column:product_materials_version;not null" json:"product_materials_version"`
	ProductTypeVersion          int `gorm:"column:product_type_version;not null" json:"product_type_version"`
	ProcessesVersion            int `gorm:"column:processes_version;not null" json:"processes_version"`
	ProcessTimelinesVersion     int `gorm:"column:process_timelines_version;not null" json:"process_timelines_version"`
	CareLabelsVersion           int `gorm:"column:care_labels_version;not null" json:"care_labels_version"`
	UnitMaterialMultipleVersion int `gorm:"column:unit_material_multiple_version;not null" json:"unit_material_multiple_version"`

	Processes []CostInputProcess `gorm:"foreignKey:CostInputID" json:"processes"`

	ExpiresAt *time.Time     `gorm:"column:expires_at;index" json:"expires_at,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CostInput) TableName() string { return "pricing_cost_inputs" }

// CostInputProcess is one selected process; the same (name, complexity) may
// appear more than once and is charged each time.
type CostInputProcess struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CostInputID uuid.UUID `gorm:"type:uuid;column:cost_input_id;not null;index" json:"cost_input_id"`
	Position    int       `gorm:"column:position;not null" json:"position"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Complexity  string    `gorm:"column:complexity;not null" json:"complexity"`
}

func (CostInputProcess) TableName() string { return "pricing_cost_input_processes" }

// ProcessSelection identifies a process by its discriminators.
type ProcessSelection struct {
	Name       string `json:"name"`
	Complexity string `json:"complexity"`
}

// Attributes is the pricing-relevant part of a cost input, committed or not.
type Attributes struct {
	ProductType          string             `json:"product_type"`
	ProductComplexity    string             `json:"product_complexity"`
	MaterialCategory     string             `json:"material_category"`
	MaterialBudgetCents  int64              `json:"material_budget_cents"`
	MinimumOrderQuantity int64              `json:"minimum_order_quantity"`
	Processes            []ProcessSelection `json:"processes"`
	Versions             Versions           `json:"versions"`
}

// Attributes projects the stored snapshot, pinning every version it carries.
func (c *CostInput) Attributes() Attributes {
	processes := make([]ProcessSelection, 0, len(c.Processes))
	for _, p := range c.Processes {
		processes = append(processes, ProcessSelection{Name: p.Name, Complexity: p.Complexity})
	}
	return Attributes{
		ProductType:          c.ProductType,
		ProductComplexity:    c.ProductComplexity,
		MaterialCategory:     c.MaterialCategory,
		MaterialBudgetCents:  c.MaterialBudgetCents,
		MinimumOrderQuantity: c.MinimumOrderQuantity,
		Processes:            processes,
		Versions: Versions{
			Constants:             c.ConstantsVersion,
			Margins:               c.MarginVersion,
			ProductMaterials:      c.ProductMaterialsVersion,
			ProductTypes:          c.ProductTypeVersion,
			Processes:             c.ProcessesVersion,
			ProcessTimelines:      c.ProcessTimelinesVersion,
			CareLabels:            c.CareLabelsVersion,
			UnitMaterialMultiples: c.UnitMaterialMultipleVersion,
		},
	}
}

// NewCostInput snapshots a for designID. Versions must already be pinned.
func NewCostInput(designID uuid.UUID, a Attributes) *CostInput {
	ci := &CostInput{
		ID:                          uuid.New(),
		DesignID:                    designID,
		ProductType:                 a.ProductType,
		ProductComplexity:           a.ProductComplexity,
		MaterialCategory:            a.MaterialCategory,
		MaterialBudgetCents:         a.MaterialBudgetCents,
		MinimumOrderQuantity:        a.MinimumOrderQuantity,
		ConstantsVersion:            a.Versions.Constants,
		MarginVersion:               a.Versions.Margins,
		ProductMaterialsVersion:     a.Versions.ProductMaterials,
		ProductTypeVersion:          a.Versions.ProductTypes,
		ProcessesVersion:            a.Versions.Processes,
		ProcessTimelinesVersion:     a.Versions.ProcessTimelines,
		CareLabelsVersion:           a.Versions.CareLabels,
		UnitMaterialMultipleVersion: a.Versions.UnitMaterialMultiples,
	}
	for i, p := range a.Processes {
		ci.Processes = append(ci.Processes, CostInputProcess{
			ID:          uuid.New(),
			CostInputID: ci.ID,
			Position:    i,
			Name:        p.Name,
			Complexity:  p.Complexity,
		})
	}
	return ci
}

// UniqueProcessCount counts distinct process names, the key used for timelines.
func (a Attributes) UniqueProcessCount() int {
	seen := make(map[string]struct{}, len(a.Processes))
	for _, p := range a.Processes {
		seen[p.Name] = struct{}{}
	}
	return len(seen)
}
