package partner

import (
	"strings"

	"github.com/google/uuid"

	"github.com/procureflow/backend/internal/domain/shared"
)

// CustomerStatus represents the lifecycle status of a customer
type CustomerStatus string

// Customer statuses
const (
	CustomerStatusActive   CustomerStatus = "ACTIVE"
	CustomerStatusInactive CustomerStatus = "INACTIVE"
)

// IsValid checks if the customer status is valid
func (s CustomerStatus) IsValid() bool {
	return s == CustomerStatusActive || s == CustomerStatusInactive
}

// Customer is the aggregate root for a buying customer. The pricing engine
// reads the customer's tier (discount policy input) and tax region
// (tax policy input); both are snapshotted into the pricing breakdown.
type Customer struct {
	shared.TenantAggregateRoot
	Name      string
	Email     string
	Phone     string
	Tier      CustomerTier
	TaxRegion string
	TaxExempt bool
	Status    CustomerStatus
}

// NewCustomer creates a new customer with the standard tier
func NewCustomer(tenantID uuid.UUID, name, email string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}

	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Email:               strings.TrimSpace(email),
		Tier:                StandardTier(),
		Status:              CustomerStatusActive,
	}, nil
}

// ChangeTier moves the customer to a different tier
func (c *Customer) ChangeTier(tier CustomerTier) error {
	if tier.IsEmpty() {
		return shared.NewDomainError("INVALID_TIER", "Customer tier cannot be empty")
	}
	c.Tier = tier
	c.Touch()
	return nil
}

// SetTaxRegion sets the jurisdiction used by the tax calculator
func (c *Customer) SetTaxRegion(region string) {
	c.TaxRegion = strings.TrimSpace(region)
	c.Touch()
}

// SetTaxExempt marks the customer as exempt from tax
func (c *Customer) SetTaxExempt(exempt bool) {
	c.TaxExempt = exempt
	c.Touch()
}

// Deactivate marks the customer as inactive
func (c *Customer) Deactivate() {
	c.Status = CustomerStatusInactive
	c.Touch()
}

// Activate marks the customer as active
func (c *Customer) Activate() {
	c.Status = CustomerStatusActive
	c.Touch()
}

// IsActive returns true if the customer can place orders
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}
