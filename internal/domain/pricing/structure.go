package pricing

import (
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

// PriceLineKind classifies a line in a pricing breakdown
type PriceLineKind string

// Price line kinds
const (
	PriceLineKindBase     PriceLineKind = "BASE"
	PriceLineKindDiscount PriceLineKind = "DISCOUNT"
	PriceLineKindTax      PriceLineKind = "TAX"
	PriceLineKindTotal    PriceLineKind = "TOTAL"
)

// PriceLine is one entry in the ordered, auditable pricing breakdown.
// Discount amounts are recorded as negative, taxes as positive.
type PriceLine struct {
	Sequence int               `json:"sequence"`
	Kind     PriceLineKind     `json:"kind"`
	Label    string            `json:"label"`
	Rule     string            `json:"rule"`
	Amount   valueobject.Money `json:"amount"`
}

// PricingStructure is the itemized result of applying discount and tax
// policy to a vendor quote for a specific customer. It is derived, never
// stored as a mutable entity, and is safe to recompute idempotently.
//
// Invariant: FinalPrice = BaseCost - DiscountAmount + TaxAmount, exactly,
// in integer minor units.
type PricingStructure struct {
	BaseCost       valueobject.Money `json:"base_cost"`
	DiscountAmount valueobject.Money `json:"discount_amount"`
	TaxAmount      valueobject.Money `json:"tax_amount"`
	FinalPrice     valueobject.Money `json:"final_price"`
	PolicyVersion  string            `json:"policy_version"`
	Breakdown      []PriceLine       `json:"breakdown"`
}

// Currency returns the currency shared by every amount in the structure
func (p PricingStructure) Currency() valueobject.Currency {
	return p.FinalPrice.Currency()
}
