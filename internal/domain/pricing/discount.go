package pricing

import (
	"fmt"

	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

// DiscountResult carries the computed discount and its audit breakdown
type DiscountResult struct {
	Amount    valueobject.Money
	Breakdown []PriceLine
}

// DiscountEngine computes a customer-specific discount from a base cost.
// Implementations must be deterministic for a given (customer snapshot,
// amount, policy version) triple.
type DiscountEngine interface {
	ComputeDiscount(customer *partner.Customer, baseCost valueobject.Money) (DiscountResult, error)
	PolicyVersion() string
}

// TierDiscountEngine applies the percentage discount attached to the
// customer's commercial tier. This is the production discount policy.
type TierDiscountEngine struct {
	version string
}

// NewTierDiscountEngine creates the tier-based discount engine
func NewTierDiscountEngine() *TierDiscountEngine {
	return &TierDiscountEngine{version: "tier-discount/v1"}
}

// PolicyVersion identifies the discount policy for audit and determinism
// guarantees
func (e *TierDiscountEngine) PolicyVersion() string {
	return e.version
}

// ComputeDiscount applies the customer's tier rate to the base cost.
// The amount is rounded half-up to the nearest minor unit.
func (e *TierDiscountEngine) ComputeDiscount(customer *partner.Customer, baseCost valueobject.Money) (DiscountResult, error) {
	if customer == nil {
		return DiscountResult{}, shared.NewDomainError("INVALID_PRICING_INPUT", "Customer is required for discount computation")
	}
	if baseCost.IsNegative() {
		return DiscountResult{}, shared.NewDomainError("INVALID_PRICING_INPUT", "Base cost cannot be negative")
	}

	tier := customer.Tier
	amount := baseCost.MultiplyRate(tier.DiscountRate())

	breakdown := []PriceLine{}
	if !amount.IsZero() {
		breakdown = append(breakdown, PriceLine{
			Kind:   PriceLineKindDiscount,
			Label:  fmt.Sprintf("%s tier discount (%s%%)", tier.Name(), tier.DiscountPercent().String()),
			Rule:   fmt.Sprintf("%s:tier=%s", e.version, tier.Code()),
			Amount: amount.Negate(),
		})
	}

	return DiscountResult{Amount: amount, Breakdown: breakdown}, nil
}

var _ DiscountEngine = (*TierDiscountEngine)(nil)
