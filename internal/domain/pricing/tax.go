package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

// TaxResult carries the computed tax and its audit breakdown
type TaxResult struct {
	TaxAmount valueobject.Money
	Breakdown []PriceLine
}

// TaxCalculator computes the tax structure for a (possibly discounted)
// cost and a customer's jurisdiction. Implementations must be deterministic
// for a given (customer snapshot, amount, policy version) triple.
type TaxCalculator interface {
	CalculateTaxStructure(cost valueobject.Money, customer *partner.Customer) (TaxResult, error)
	PolicyVersion() string
}

// defaultVATRate is the VAT applied when the customer's region carries no
// specific rate (11% PPN).
var defaultVATRate = decimal.NewFromFloat(0.11)

// RegionalTaxCalculator applies a VAT-style percentage by the customer's
// tax region, with a default rate for unknown regions. Tax-exempt
// customers pay no tax.
type RegionalTaxCalculator struct {
	version     string
	regionRates map[string]decimal.Decimal
}

// NewRegionalTaxCalculator creates the region-based tax calculator with
// built-in regional rates
func NewRegionalTaxCalculator() *RegionalTaxCalculator {
	return &RegionalTaxCalculator{
		version: "regional-vat/v1",
		regionRates: map[string]decimal.Decimal{
			"id": decimal.NewFromFloat(0.11),
			"sg": decimal.NewFromFloat(0.09),
			"us": decimal.NewFromFloat(0.00),
			"eu": decimal.NewFromFloat(0.20),
		},
	}
}

// PolicyVersion identifies the tax policy for audit and determinism
// guarantees
func (c *RegionalTaxCalculator) PolicyVersion() string {
	return c.version
}

// CalculateTaxStructure applies the customer's regional VAT rate to the
// cost, rounded half-up to the nearest minor unit.
func (c *RegionalTaxCalculator) CalculateTaxStructure(cost valueobject.Money, customer *partner.Customer) (TaxResult, error) {
	if customer == nil {
		return TaxResult{}, shared.NewDomainError("INVALID_PRICING_INPUT", "Customer is required for tax computation")
	}
	if cost.IsNegative() {
		return TaxResult{}, shared.NewDomainError("INVALID_PRICING_INPUT", "Taxable cost cannot be negative")
	}

	if customer.TaxExempt {
		return TaxResult{
			TaxAmount: valueobject.ZeroMoney(cost.Currency()),
			Breakdown: []PriceLine{{
				Kind:   PriceLineKindTax,
				Label:  "Tax exempt",
				Rule:   fmt.Sprintf("%s:exempt", c.version),
				Amount: valueobject.ZeroMoney(cost.Currency()),
			}},
		}, nil
	}

	region := strings.ToLower(strings.TrimSpace(customer.TaxRegion))
	rate, ok := c.regionRates[region]
	if !ok {
		rate = defaultVATRate
		region = "default"
	}

	amount := cost.MultiplyRate(rate)
	return TaxResult{
		TaxAmount: amount,
		Breakdown: []PriceLine{{
			Kind:   PriceLineKindTax,
			Label:  fmt.Sprintf("VAT %s%%", rate.Mul(decimal.NewFromInt(100)).String()),
			Rule:   fmt.Sprintf("%s:region=%s", c.version, region),
			Amount: amount,
		}},
	}, nil
}

var _ TaxCalculator = (*RegionalTaxCalculator)(nil)
