package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/procureflow/backend/internal/domain/shared"
)

// VendorRepository defines the persistence interface for vendors
type VendorRepository interface {
	// FindByID finds a vendor by its ID across tenants
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)

	// FindByIDForTenant finds a vendor by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Vendor, error)

	// FindActiveForTenant finds all active vendors for a tenant
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]Vendor, error)

	// FindAllForTenant finds vendors for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Vendor, error)

	// Save creates or updates a vendor
	Save(ctx context.Context, vendor *Vendor) error

	// Delete removes a vendor
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerRepository defines the persistence interface for customers
type CustomerRepository interface {
	// FindByID finds a customer by its ID across tenants
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByIDForTenant finds a customer by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindAllForTenant finds customers for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// Delete removes a customer
	Delete(ctx context.Context, id uuid.UUID) error
}
