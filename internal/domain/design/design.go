package design

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ApprovalStepCheckout = "CHECKOUT"

	EventCommitQuote = "COMMIT_QUOTE"
)

type ProductDesign struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	Title     string         `gorm:"column:title" json:"title"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProductDesign) TableName() string { return "product_designs" }

type ApprovalStep struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DesignID  uuid.UUID `gorm:"type:uuid;column:design_id;not null;index" json:"design_id"`
	Type      string    `gorm:"column:type;not null;index" json:"type"`
	Ordering  int       `gorm:"column:ordering;not null;default:0" json:"ordering"`
	State     string    `gorm:"column:state" json:"state"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ApprovalStep) TableName() string { return "design_approval_steps" }

// Event is an append-only audit record on a design.
type Event struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DesignID       uuid.UUID      `gorm:"type:uuid;column:design_id;not null;index" json:"design_id"`
	ActorID        uuid.UUID      `gorm:"type:uuid;column:actor_id;not null" json:"actor_id"`
	Type           string         `gorm:"column:type;not null;index" json:"type"`
	ApprovalStepID *uuid.UUID     `gorm:"type:uuid;column:approval_step_id;index" json:"approval_step_id,omitempty"`
	QuoteID        *uuid.UUID     `gorm:"type:uuid;column:quote_id;index" json:"quote_id,omitempty"`
	CostInputID    *uuid.UUID     `gorm:"type:uuid;column:cost_input_id;index" json:"cost_input_id,omitempty"`
	Metadata       datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;index" json:"created_at"`
}

func (Event) TableName() string { return "design_events" }

// Variant is one colorway and size of a design with its production units.
type Variant struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DesignID       uuid.UUID `gorm:"type:uuid;column:design_id;not null;index" json:"design_id"`
	ColorName      string    `gorm:"column:color_name" json:"color_name"`
	SizeName       string    `gorm:"column:size_name" json:"size_name"`
	Position       int       `gorm:"column:position;not null;default:0" json:"position"`
	UnitsToProduce int64     `gorm:"column:units_to_produce;not null;default:0" json:"units_to_produce"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

func (Variant) TableName() string { return "product_design_variants" }

// ColorwayUnits is the production total for one colorway of a design.
type ColorwayUnits struct {
	ColorName string `json:"color_name"`
	Units     int64  `json:"units"`
}

type Plan struct {
	ID                       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title                    string    `gorm:"column:title;not null" json:"title"`
	ProductionFeeBasisPoints int64     `gorm:"column:production_fee_basis_points;not null;default:0" json:"production_fee_basis_points"`
	CreatedAt                time.Time `gorm:"not null" json:"created_at"`
}

func (Plan) TableName() string { return "plans" }

type Subscription struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	PlanID      uuid.UUID  `gorm:"type:uuid;column:plan_id;not null;index" json:"plan_id"`
	CancelledAt *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
}

func (Subscription) TableName() string { return "subscriptions" }
