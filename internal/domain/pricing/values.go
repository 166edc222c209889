package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Versions are table-wide snapshots: every row written in one pricing release
// shares a version number, and rows are never updated in place.
const LatestVersion = 0

const (
	ComplexityBlank   = "BLANK"
	ComplexitySimple  = "SIMPLE"
	ComplexityMedium  = "MEDIUM"
	ComplexityComplex = "COMPLEX"

	ProductTypePackaging = "PACKAGING"
)

// Constant holds the flat, non-tiered charges of one pricing version.
type Constant struct {
	ID                           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Version                      int       `gorm:"column:version;not null;uniqueIndex" json:"version"`
	BrandedLabelsMinimumCents    int64     `gorm:"column:branded_labels_minimum_cents;not null" json:"branded_labels_minimum_cents"`
	BrandedLabelsMinimumUnits    int64     `gorm:"column:branded_labels_minimum_units;not null" json:"branded_labels_minimum_units"`
	BrandedLabelsAdditionalCents int64     `gorm:"column:branded_labels_additional_cents;not null" json:"branded_labels_additional_cents"`
	GradingCents                 int64     `gorm:"column:grading_cents;not null" json:"grading_cents"`
	MarkingCents                 int64     `gorm:"column:marking_cents;not null" json:"marking_cents"`
	PatternRevisionCents         int64     `gorm:"column:pattern_revision_cents;not null" json:"pattern_revision_cents"`
	SampleMinimumCents           int64     `gorm:"column:sample_minimum_cents;not null" json:"sample_minimum_cents"`
	TechnicalDesignCents         int64     `gorm:"column:technical_design_cents;not null" json:"technical_design_cents"`
	WorkingSessionCents          int64     `gorm:"column:working_session_cents;not null" json:"working_session_cents"`
	CreatedAt                    time.Time `gorm:"not null;index" json:"created_at"`
}

func (Constant) TableName() string { return "pricing_constants" }

// Margin is a percentage (35 means 35%) applied on top of the unit cost.
type Margin struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Version      int             `gorm:"column:version;not null;index:idx_pricing_margin_tier,priority:1" json:"version"`
	MinimumUnits int64           `gorm:"column:minimum_units;not null;index:idx_pricing_margin_tier,priority:2" json:"minimum_units"`
	Margin       decimal.Decimal `gorm:"column:margin;type:numeric(6,2);not null" json:"margin"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
}

func (Margin) TableName() string { return "pricing_margins" }

type ProductMaterial struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Version      int       `gorm:"column:version;not null;index:idx_pricing_product_material_tier,priority:1" json:"version"`
	Category     string    `gorm:"column:category;not null;index:idx_pricing_product_material_tier,priority:2" json:"category"`
	MinimumUnits int64     `gorm:"column:minimum_units;not null;index:idx_pricing_product_material_tier,priority:3" json:"minimum_units"`
	UnitCents    int64     `gorm:"column:unit_cents;not null" json:"unit_cents"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (ProductMaterial) TableName() string { return "pricing_product_materials" }

// ProductType carries the per-unit garment cost, the sampling and pattern
// minimums, and the timeline of every production phase in milliseconds.
type ProductType struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Version             int             `gorm:"column:version;not null;index:idx_pricing_product_type_tier,priority:1" json:"version"`
	Name                string          `gorm:"column:name;not null;index:idx_pricing_product_type_tier,priority:2" json:"name"`
	Complexity          string          `gorm:"column:complexity;not null;index:idx_pricing_product_type_tier,priority:3" json:"complexity"`
	MinimumUnits        int64           `gorm:"column:minimum_units;not null;index:idx_pricing_product_type_tier,priority:4" json:"minimum_units"`
	UnitCents           int64           `gorm:"column:unit_cents;not null" json:"unit_cents"`
	PatternMinimumCents int64           `gorm:"column:pattern_minimum_cents;not null" json:"pattern_minimum_cents"`
	SampleUnitCents     int64           `gorm:"column:sample_unit_cents;not null" json:"sample_unit_cents"`
	Yield               decimal.Decimal `gorm:"column:yield;type:numeric(8,4);not null" json:"yield"`
	Contrast            decimal.Decimal `gorm:"column:contrast;type:numeric(8,4);not null" json:"contrast"`
	CreationTimeMs      int64           `gorm:"column:creation_time_ms;not null" json:"creation_time_ms"`
	SpecificationTimeMs int64           `gorm:"column:specification_time_ms;not null" json:"specification_time_ms"`
	SourcingTimeMs      int64           `gorm:"column:sourcing_time_ms;not null" json:"sourcing_time_ms"`
	SamplingTimeMs      int64           `gorm:"column:sampling_time_ms;not null" json:"sampling_time_ms"`
	PreProductionTimeMs int64           `gorm:"column:pre_production_time_ms;not null" json:"pre_production_time_ms"`
	ProductionTimeMs    int64           `gorm:"column:production_time_ms;not null" json:"production_time_ms"`
	FulfillmentTimeMs   int64           `gorm:"column:fulfillment_time_ms;not null" json:"fulfillment_time_ms"`
	CreatedAt           time.Time       `gorm:"not null" json:"created_at"`
}

func (ProductType) TableName() string { return "pricing_product_types" }

func (t *ProductType) IsPackaging() bool {
	return t != nil && t.Name == ProductTypePackaging
}

type Process struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Version      int       `gorm:"column:version;not null;index:idx_pricing_process_tier,priority:1" json:"version"`
	Name         string    `gorm:"column:name;not null;index:idx_pricing_process_tier,priority:2" json:"name"`
	Complexity   string    `gorm:"column:complexity;not null;index:idx_pricing_process_tier,priority:3" json:"complexity"`
	MinimumUnits int64     `gorm:"column:minimum_units;not null;index:idx_pricing_process_tier,priority:4" json:"minimum_units"`
	SetupCents   int64     `gorm:"column:setup_cents;not null" json:"setup_cents"`
	UnitCents    int64     `gorm:"column:unit_cents;not null" json:"unit_cents"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (Process) TableName() string { return "pricing_processes" }

// ProcessTimeline is tiered on both units and the number of distinct processes.
type ProcessTimeline struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Version         int       `gorm:"column:version;not null;index:idx_pricing_process_timeline_tier,priority:1" json:"version"`
	MinimumUnits    int64     `gorm:"column:minimum_units;not null;index:idx_pricing_process_timeline_tier,priority:2" json:"minimum_units"`
	UniqueProcesses int       `gorm:"column:unique_processes;not null;index:idx_pricing_process_timeline_tier,priority:3" json:"unique_processes"`
	TimeMs          int64     `gorm:"column:time_ms;not null" json:"time_ms"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (ProcessTimeline) TableName() string { return "pricing_process_timelines" }

type CareLabel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Version      int       `gorm:"column:version;not null;index:idx_pricing_care_label_tier,priority:1" json:"version"`
	MinimumUnits int64     `gorm:"column:minimum_units;not null;index:idx_pricing_care_label_tier,priority:2" json:"minimum_units"`
	UnitCents    int64     `gorm:"column:unit_cents;not null" json:"unit_cents"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (CareLabel) TableName() string { return "pricing_care_labels" }

type UnitMaterialMultiple struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Version      int             `gorm:"column:version;not null;index:idx_pricing_unit_material_multiple_tier,priority:1" json:"version"`
	MinimumUnits int64           `gorm:"column:minimum_units;not null;index:idx_pricing_unit_material_multiple_tier,priority:2" json:"minimum_units"`
	Multiple     decimal.Decimal `gorm:"column:multiple;type:numeric(8,4);not null" json:"multiple"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
}

func (UnitMaterialMultiple) TableName() string { return "pricing_unit_material_multiples" }

// Tiered rows expose their tier so selection can be written once.
func (m *Margin) Tier() int64               { return m.MinimumUnits }
func (m *ProductMaterial) Tier() int64      { return m.MinimumUnits }
func (t *ProductType) Tier() int64          { return t.MinimumUnits }
func (p *Process) Tier() int64              { return p.MinimumUnits }
func (t *ProcessTimeline) Tier() int64      { return t.MinimumUnits }
func (c *CareLabel) Tier() int64            { return c.MinimumUnits }
func (u *UnitMaterialMultiple) Tier() int64 { return u.MinimumUnits }

// Versions lists the latest version of every reference table. A zero entry
// means the table is empty.
type Versions struct {
	Constants             int `json:"constants"`
	Margins               int `json:"margins"`
	ProductMaterials      int `json:"product_materials"`
	ProductTypes          int `json:"product_types"`
	Processes             int `json:"processes"`
	ProcessTimelines      int `json:"process_timelines"`
	CareLabels            int `json:"care_labels"`
	UnitMaterialMultiples int `json:"unit_material_multiples"`
}
