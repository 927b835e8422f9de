package partner

import (
	"strings"

	"github.com/google/uuid"

	"github.com/procureflow/backend/internal/domain/shared"
)

// VendorStatus represents the lifecycle status of a vendor
type VendorStatus string

// Vendor statuses
const (
	VendorStatusActive      VendorStatus = "ACTIVE"
	VendorStatusInactive    VendorStatus = "INACTIVE"
	VendorStatusBlacklisted VendorStatus = "BLACKLISTED"
)

// IsValid checks if the vendor status is valid
func (s VendorStatus) IsValid() bool {
	switch s {
	case VendorStatusActive, VendorStatusInactive, VendorStatusBlacklisted:
		return true
	}
	return false
}

// Vendor is the aggregate root for a supplying vendor. Vendors respond to
// sourcing requests with quotes; the matching service scores them against an
// order's requirements using capabilities, rating, and capacity.
type Vendor struct {
	shared.TenantAggregateRoot
	Name            string
	Code            string
	ContactEmail    string
	ContactPhone    string
	Status          VendorStatus
	Rating          int      // 0-5, 0 = unrated
	Capabilities    []string `gorm:"serializer:json"` // material types the vendor can produce
	MaxActiveOrders int      // 0 = unlimited
	MinLeadTimeDays int
}

// NewVendor creates a new active vendor
func NewVendor(tenantID uuid.UUID, name, code string) (*Vendor, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR_NAME", "Vendor name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_VENDOR_CODE", "Vendor code cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}

	return &Vendor{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Code:                code,
		Status:              VendorStatusActive,
	}, nil
}

// SetRating sets the vendor rating (0-5)
func (v *Vendor) SetRating(rating int) error {
	if rating < 0 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Vendor rating must be between 0 and 5")
	}
	v.Rating = rating
	v.Touch()
	return nil
}

// SetCapabilities replaces the vendor's material capabilities
func (v *Vendor) SetCapabilities(capabilities []string) {
	cleaned := make([]string, 0, len(capabilities))
	for _, c := range capabilities {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			cleaned = append(cleaned, c)
		}
	}
	v.Capabilities = cleaned
	v.Touch()
}

// HasCapability returns true if the vendor can produce the material type
func (v *Vendor) HasCapability(materialType string) bool {
	materialType = strings.ToLower(strings.TrimSpace(materialType))
	for _, c := range v.Capabilities {
		if c == materialType {
			return true
		}
	}
	return false
}

// Deactivate marks the vendor as inactive
func (v *Vendor) Deactivate() {
	v.Status = VendorStatusInactive
	v.Touch()
}

// Blacklist excludes the vendor from sourcing permanently
func (v *Vendor) Blacklist() {
	v.Status = VendorStatusBlacklisted
	v.Touch()
}

// Activate marks the vendor as active
func (v *Vendor) Activate() {
	v.Status = VendorStatusActive
	v.Touch()
}

// IsActive returns true if the vendor can receive sourcing requests
func (v *Vendor) IsActive() bool {
	return v.Status == VendorStatusActive
}
