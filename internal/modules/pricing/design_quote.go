package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const LineItemProductionFee = "Production Fee"

type LineItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Cents       int64  `json:"cents"`
}

// DesignQuote is the customer-facing view of one quote. PayLater adds the
// financing margin on top of PayNow.
type DesignQuote struct {
	DesignID             uuid.UUID  `json:"design_id"`
	Units                int64      `json:"units"`
	MinimumOrderQuantity int64      `json:"minimum_order_quantity"`
	UnitCostCents        int64      `json:"unit_cost_cents"`
	PayNowTotalCents     int64      `json:"pay_now_total_cents"`
	PayLaterTotalCents   int64      `json:"pay_later_total_cents"`
	TimeTotalMs          int64      `json:"time_total_ms"`
	LineItems            []LineItem `json:"line_items"`
}

// BuildDesignQuote derives the view from a priced quote. financingMarginPercent
// is a percentage, 10 meaning 10%.
func BuildDesignQuote(designID uuid.UUID, minimumOrderQuantity int64, q UnsavedQuote, financingMarginPercent decimal.Decimal) DesignQuote {
	payNow := q.UnitCostCents*q.Units + q.ProductionFeeCents
	out := DesignQuote{
		DesignID:             designID,
		Units:                q.Units,
		MinimumOrderQuantity: minimumOrderQuantity,
		UnitCostCents:        q.UnitCostCents,
		PayNowTotalCents:     payNow,
		PayLaterTotalCents:   AddMargin(payNow, financingMarginPercent.Div(hundred)),
		TimeTotalMs:          q.TimeTotalMs(),
		LineItems:            []LineItem{},
	}
	if q.ProductionFeeCents != 0 {
		out.LineItems = append(out.LineItems, LineItem{
			Title:       LineItemProductionFee,
			Description: "Plan production fee on the order total",
			Cents:       q.ProductionFeeCents,
		})
	}
	return out
}
