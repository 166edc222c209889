package domain

import (
	"github.com/yungbote/costing-backend/internal/domain/design"
	"github.com/yungbote/costing-backend/internal/domain/pricing"
)

const (
	LatestVersion = pricing.LatestVersion

	ComplexityBlank   = pricing.ComplexityBlank
	ComplexitySimple  = pricing.ComplexitySimple
	ComplexityMedium  = pricing.ComplexityMedium
	ComplexityComplex = pricing.ComplexityComplex

	ProductTypePackaging = pricing.ProductTypePackaging
	MaxQuoteUnits        = pricing.MaxUnits

	ApprovalStepCheckout = design.ApprovalStepCheckout
	EventCommitQuote     = design.EventCommitQuote
)

var (
	ValidQuoteUnits = pricing.ValidUnits
	NewCostInput    = pricing.NewCostInput
)

// Pricing reference tables
type (
	PricingConstant             = pricing.Constant
	PricingMargin               = pricing.Margin
	PricingProductMaterial      = pricing.ProductMaterial
	PricingProductType          = pricing.ProductType
	PricingProcess              = pricing.Process
	PricingProcessTimeline      = pricing.ProcessTimeline
	PricingCareLabel            = pricing.CareLabel
	PricingUnitMaterialMultiple = pricing.UnitMaterialMultiple
	PricingVersions             = pricing.Versions
)

// Cost inputs and quotes
type (
	CostInput        = pricing.CostInput
	CostInputProcess = pricing.CostInputProcess
	ProcessSelection = pricing.ProcessSelection
	CostAttributes   = pricing.Attributes
	QuoteInput       = pricing.QuoteInput
	Quote            = pricing.Quote
	QuoteProcess     = pricing.QuoteProcess
)

// Design collaborators
type (
	ProductDesign = design.ProductDesign
	ApprovalStep  = design.ApprovalStep
	DesignEvent   = design.Event
	Variant       = design.Variant
	ColorwayUnits = design.ColorwayUnits
	Plan          = design.Plan
	Subscription  = design.Subscription
)
