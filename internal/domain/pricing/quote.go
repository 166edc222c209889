package pricing

import (
	"time"

	"github.com/google/uuid"
)

// MaxUnits caps the units of any quote so that order totals stay within int64 cents.
const MaxUnits int64 = 100_000_000

// ValidUnits reports whether units can be quoted.
func ValidUnits(units int64) bool {
	return units > 0 && units <= MaxUnits
}

// QuoteInput records exactly which reference rows priced a quote.
type QuoteInput struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ConstantID             uuid.UUID  `gorm:"type:uuid;column:constant_id;not null" json:"constant_id"`
	MarginID               uuid.UUID  `gorm:"type:uuid;column:margin_id;not null" json:"margin_id"`
	ProductMaterialID      uuid.UUID  `gorm:"type:uuid;column:product_material_id;not null" json:"product_material_id"`
	ProductTypeID          uuid.UUID  `gorm:"type:uuid;column:product_type_id;not null" json:"product_type_id"`
	CareLabelID            uuid.UUID  `gorm:"type:uuid;column:care_label_id;not null" json:"care_label_id"`
	UnitMaterialMultipleID uuid.UUID  `gorm:"type:uuid;column:unit_material_multiple_id;not null" json:"unit_material_multiple_id"`
	ProcessTimelineID      *uuid.UUID `gorm:"type:uuid;column:process_timeline_id" json:"process_timeline_id,omitempty"`
	CreatedAt              time.Time  `gorm:"not null" json:"created_at"`
}

func (QuoteInput) TableName() string { return "pricing_quote_inputs" }

// Quote is terminal once written; re-pricing creates a new row.
type Quote struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DesignID     uuid.UUID  `gorm:"type:uuid;column:design_id;not null;index" json:"design_id"`
	CostInputID  *uuid.UUID `gorm:"type:uuid;column:cost_input_id;index" json:"cost_input_id,omitempty"`
	QuoteInputID uuid.UUID  `gorm:"type:uuid;column:quote_input_id;not null" json:"quote_input_id"`
	Units        int64      `gorm:"column:units;not null" json:"units"`

	BaseCostCents        int64 `gorm:"column:base_cost_cents;not null" json:"base_cost_cents"`
	MaterialCostCents    int64 `gorm:"column:material_cost_cents;not null" json:"material_cost_cents"`
	ProcessCostCents     int64 `gorm:"column:process_cost_cents;not null" json:"process_cost_cents"`
	DevelopmentCostCents int64 `gorm:"column:development_cost_cents;not null" json:"development_cost_cents"`
	UnitCostCents        int64 `gorm:"column:unit_cost_cents;not null" json:"unit_cost_cents"`
	ProductionFeeCents   int64 `gorm:"column:production_fee_cents;not null;default:0" json:"production_fee_cents"`

	CreationTimeMs      int64 `gorm:"column:creation_time_ms;not null" json:"creation_time_ms"`
	SpecificationTimeMs int64 `gorm:"column:specification_time_ms;not null" json:"specification_time_ms"`
	SourcingTimeMs      int64 `gorm:"column:sourcing_time_ms;not null" json:"sourcing_time_ms"`
	SamplingTimeMs      int64 `gorm:"column:sampling_time_ms;not null" json:"sampling_time_ms"`
	PreProductionTimeMs int64 `gorm:"column:pre_production_time_ms;not null" json:"pre_production_time_ms"`
	ProcessTimeMs       int64 `gorm:"column:process_time_ms;not null" json:"process_time_ms"`
	ProductionTimeMs    int64 `gorm:"column:production_time_ms;not null" json:"production_time_ms"`
	FulfillmentTimeMs   int64 `gorm:"column:fulfillment_time_ms;not null" json:"fulfillment_time_ms"`

	ChargedProcesses []QuoteProcess `gorm:"foreignKey:QuoteID" json:"processes,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Quote) TableName() string { return "pricing_quotes" }

// QuoteProcess links a quote to a process row it was charged for. Repeated
// processes get one row each, ordered by Position.
type QuoteProcess struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuoteID   uuid.UUID `gorm:"type:uuid;column:quote_id;not null;index" json:"quote_id"`
	ProcessID uuid.UUID `gorm:"type:uuid;column:process_id;not null;index" json:"process_id"`
	Position  int       `gorm:"column:position;not null" json:"position"`
	Process   *Process  `gorm:"foreignKey:ProcessID" json:"process,omitempty"`
}

func (QuoteProcess) TableName() string { return "pricing_quote_processes" }
