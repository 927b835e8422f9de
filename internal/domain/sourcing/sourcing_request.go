package sourcing

import (
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

// QualityTier expresses the customer's acceptable quality band for a
// sourcing request
type QualityTier string

// Quality tiers
const (
	QualityTierEconomy  QualityTier = "economy"
	QualityTierStandard QualityTier = "standard"
	QualityTierPremium  QualityTier = "premium"
)

// IsValid checks if the quality tier is valid
func (q QualityTier) IsValid() bool {
	switch q {
	case QualityTierEconomy, QualityTierStandard, QualityTierPremium:
		return true
	}
	return false
}

// Requirements is the sourcing requirements document captured when vendor
// sourcing is initiated for an order. It drives vendor matching and is
// snapshotted into the order's metadata bag.
type Requirements struct {
	OrderID     uuid.UUID
	Material    string
	Quantity    int
	QualityTier QualityTier
	Deadline    time.Time
	BudgetMin   valueobject.Money
	BudgetMax   valueobject.Money
}

// NewRequirements creates a validated sourcing requirements document
func NewRequirements(orderID uuid.UUID, material string, quantity int, qualityTier QualityTier, deadline time.Time, budgetMin, budgetMax valueobject.Money) (Requirements, error) {
	if orderID == uuid.Nil {
		return Requirements{}, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}
	if material == "" {
		return Requirements{}, shared.NewDomainError("INVALID_MATERIAL_TYPE", "Material type cannot be empty")
	}
	if quantity < 1 {
		return Requirements{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if !qualityTier.IsValid() {
		return Requirements{}, shared.NewDomainError("INVALID_QUALITY_TIER", "Quality tier must be economy, standard or premium")
	}
	if !budgetMin.SameCurrency(budgetMax) {
		return Requirements{}, shared.NewDomainError("CURRENCY_MISMATCH", "Budget bounds must share one currency")
	}
	if budgetMin.IsNegative() {
		return Requirements{}, shared.NewDomainError("INVALID_AMOUNT", "Budget minimum cannot be negative")
	}
	if less, err := budgetMax.LessThan(budgetMin); err != nil {
		return Requirements{}, err
	} else if less {
		return Requirements{}, shared.NewDomainError("INVALID_BUDGET_RANGE", "Budget maximum cannot be below the minimum")
	}

	return Requirements{
		OrderID:     orderID,
		Material:    material,
		Quantity:    quantity,
		QualityTier: qualityTier,
		Deadline:    deadline,
		BudgetMin:   budgetMin,
		BudgetMax:   budgetMax,
	}, nil
}

// WithinBudget returns true if the price falls inside the budget range,
// inclusive of both bounds
func (r Requirements) WithinBudget(price valueobject.Money) (bool, error) {
	belowMin, err := price.LessThan(r.BudgetMin)
	if err != nil {
		return false, err
	}
	if belowMin {
		return false, nil
	}
	aboveMax, err := r.BudgetMax.LessThan(price)
	if err != nil {
		return false, err
	}
	return !aboveMax, nil
}

// Document renders the requirements as a metadata sub-document for
// embedding in the order's metadata bag
func (r Requirements) Document() map[string]interface{} {
	return map[string]interface{}{
		"material":         r.Material,
		"quantity":         r.Quantity,
		"quality_tier":     string(r.QualityTier),
		"deadline":         r.Deadline,
		"budget_min_minor": r.BudgetMin.AmountMinorUnits(),
		"budget_max_minor": r.BudgetMax.AmountMinorUnits(),
		"currency":         string(r.BudgetMin.Currency()),
	}
}
