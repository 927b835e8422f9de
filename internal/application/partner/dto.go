package partner

import (
	"time"

	"github.com/google/uuid"
)

// CreateVendorInput carries everything needed to register a vendor
type CreateVendorInput struct {
	TenantID        uuid.UUID
	Name            string
	Code            string
	ContactEmail    string
	ContactPhone    string
	Rating          int
	Capabilities    []string
	MaxActiveOrders int
	MinLeadTimeDays int
}

// UpdateVendorInput carries mutable vendor fields. Zero values leave the
// corresponding field untouched except Capabilities, which replaces the set
// when non-nil.
type UpdateVendorInput struct {
	TenantID        uuid.UUID
	VendorID        uuid.UUID
	ContactEmail    *string
	ContactPhone    *string
	Rating          *int
	Capabilities    []string
	MaxActiveOrders *int
	MinLeadTimeDays *int
}

// CreateCustomerInput carries everything needed to register a customer
type CreateCustomerInput struct {
	TenantID  uuid.UUID
	Name      string
	Email     string
	Phone     string
	TierCode  string // empty means standard
	TaxRegion string
	TaxExempt bool
}

// MatchVendorsInput carries the sourcing requirements a vendor shortlist is
// ranked against
type MatchVendorsInput struct {
	TenantID            uuid.UUID
	OrderID             uuid.UUID
	Material            string
	Quantity            int
	QualityTier         string
	Deadline            time.Time
	Currency            string
	BudgetMinMinorUnits int64
	BudgetMaxMinorUnits int64
	MinScore            int
}
