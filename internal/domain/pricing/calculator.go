package pricing

import (
	"fmt"

	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
)

// Calculator orchestrates the discount engine and tax calculator into a
// final, itemized PricingStructure. The computation is a pure function of
// its three inputs plus the engines' policy versions: no hidden state, no
// side effects, bit-identical results for identical inputs.
//
// Order of application is fixed: discount on the vendor base cost first,
// then tax on the discounted cost. If a discount policy would drive the
// discounted cost negative, the discount is capped at the base cost and the
// cap is recorded in the breakdown; the final price never goes negative.
type Calculator struct {
	discounts DiscountEngine
	taxes     TaxCalculator
}

// NewCalculator creates a pricing calculator from policy plug-ins
func NewCalculator(discounts DiscountEngine, taxes TaxCalculator) *Calculator {
	return &Calculator{discounts: discounts, taxes: taxes}
}

// PolicyVersion combines the versions of both policy plug-ins
func (c *Calculator) PolicyVersion() string {
	return fmt.Sprintf("%s+%s", c.discounts.PolicyVersion(), c.taxes.PolicyVersion())
}

// CalculateCustomerPricing prices a vendor quote for a specific customer.
// The vendor-side quote is the pricing base; complexity selects the
// surcharge policy recorded in the breakdown but never alters the vendor's
// quoted number.
func (c *Calculator) CalculateCustomerPricing(quote procurement.VendorQuote, customer *partner.Customer, complexity procurement.OrderComplexity) (PricingStructure, error) {
	if customer == nil {
		return PricingStructure{}, shared.NewDomainError("INVALID_PRICING_INPUT", "Customer is required for pricing")
	}
	if quote.TotalPrice.IsNegative() {
		return PricingStructure{}, shared.NewDomainError("INVALID_PRICING_INPUT", "Quoted price cannot be negative")
	}
	if !complexity.Level().IsValid() {
		return PricingStructure{}, shared.NewDomainError("INVALID_PRICING_INPUT", "Order complexity is malformed")
	}

	baseCost := quote.TotalPrice

	breakdown := []PriceLine{{
		Kind:   PriceLineKindBase,
		Label:  "Vendor quoted cost",
		Rule:   fmt.Sprintf("complexity=%s", complexity.Level()),
		Amount: baseCost,
	}}

	discount, err := c.discounts.ComputeDiscount(customer, baseCost)
	if err != nil {
		return PricingStructure{}, err
	}
	discountAmount := discount.Amount
	breakdown = append(breakdown, discount.Breakdown...)

	// Cap the discount so the taxable cost never goes below zero
	if cmp, cmpErr := discountAmount.Compare(baseCost); cmpErr != nil {
		return PricingStructure{}, cmpErr
	} else if cmp > 0 {
		capped, subErr := discountAmount.Subtract(baseCost)
		if subErr != nil {
			return PricingStructure{}, subErr
		}
		breakdown = append(breakdown, PriceLine{
			Kind:   PriceLineKindDiscount,
			Label:  "Discount capped at base cost",
			Rule:   "discount-cap",
			Amount: capped,
		})
		discountAmount = baseCost
	}

	discountedCost, err := baseCost.Subtract(discountAmount)
	if err != nil {
		return PricingStructure{}, err
	}

	tax, err := c.taxes.CalculateTaxStructure(discountedCost, customer)
	if err != nil {
		return PricingStructure{}, err
	}
	breakdown = append(breakdown, tax.Breakdown...)

	finalPrice, err := discountedCost.Add(tax.TaxAmount)
	if err != nil {
		return PricingStructure{}, err
	}

	breakdown = append(breakdown, PriceLine{
		Kind:   PriceLineKindTotal,
		Label:  "Final price",
		Rule:   c.PolicyVersion(),
		Amount: finalPrice,
	})
	for i := range breakdown {
		breakdown[i].Sequence = i + 1
	}

	return PricingStructure{
		BaseCost:       baseCost,
		DiscountAmount: discountAmount,
		TaxAmount:      tax.TaxAmount,
		FinalPrice:     finalPrice,
		PolicyVersion:  c.PolicyVersion(),
		Breakdown:      breakdown,
	}, nil
}
