// Package partner contains use cases for managing vendors and customers.
package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
	"github.com/procureflow/backend/internal/domain/sourcing"
)

// VendorService manages the vendor directory and runs vendor matching for
// sourcing requests. Every operation takes the tenant explicitly.
type VendorService struct {
	vendorRepo partner.VendorRepository
	logger     *zap.Logger
}

// NewVendorService creates a new vendor service
func NewVendorService(vendorRepo partner.VendorRepository, logger *zap.Logger) *VendorService {
	return &VendorService{
		vendorRepo: vendorRepo,
		logger:     logger,
	}
}

// Create registers a new vendor
func (s *VendorService) Create(ctx context.Context, input CreateVendorInput) (*partner.Vendor, error) {
	vendor, err := partner.NewVendor(input.TenantID, input.Name, input.Code)
	if err != nil {
		return nil, err
	}
	vendor.ContactEmail = input.ContactEmail
	vendor.ContactPhone = input.ContactPhone
	if input.Rating != 0 {
		if err := vendor.SetRating(input.Rating); err != nil {
			return nil, err
		}
	}
	if len(input.Capabilities) > 0 {
		vendor.SetCapabilities(input.Capabilities)
	}
	if input.MaxActiveOrders < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Max active orders cannot be negative")
	}
	if input.MinLeadTimeDays < 0 {
		return nil, shared.NewDomainError("INVALID_LEAD_TIME", "Minimum lead time cannot be negative")
	}
	vendor.MaxActiveOrders = input.MaxActiveOrders
	vendor.MinLeadTimeDays = input.MinLeadTimeDays

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		if err == shared.ErrAlreadyExists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Vendor code is already in use")
		}
		return nil, fmt.Errorf("failed to save vendor: %w", err)
	}

	s.logger.Info("Vendor created",
		zap.String("tenant_id", vendor.TenantID.String()),
		zap.String("vendor_id", vendor.ID.String()),
		zap.String("code", vendor.Code),
	)
	return vendor, nil
}

// Get returns a vendor by ID within a tenant
func (s *VendorService) Get(ctx context.Context, tenantID, vendorID uuid.UUID) (*partner.Vendor, error) {
	vendor, err := s.vendorRepo.FindByIDForTenant(ctx, tenantID, vendorID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("VENDOR_NOT_FOUND", "Vendor not found")
		}
		return nil, fmt.Errorf("failed to find vendor: %w", err)
	}
	return vendor, nil
}

// List returns vendors for a tenant with filtering
func (s *VendorService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Vendor, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	vendors, err := s.vendorRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return vendors, nil
}

// Update applies partial updates to a vendor's contact and capacity fields
func (s *VendorService) Update(ctx context.Context, input UpdateVendorInput) (*partner.Vendor, error) {
	vendor, err := s.Get(ctx, input.TenantID, input.VendorID)
	if err != nil {
		return nil, err
	}

	if input.ContactEmail != nil {
		vendor.ContactEmail = *input.ContactEmail
	}
	if input.ContactPhone != nil {
		vendor.ContactPhone = *input.ContactPhone
	}
	if input.Rating != nil {
		if err := vendor.SetRating(*input.Rating); err != nil {
			return nil, err
		}
	}
	if input.Capabilities != nil {
		vendor.SetCapabilities(input.Capabilities)
	}
	if input.MaxActiveOrders != nil {
		if *input.MaxActiveOrders < 0 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Max active orders cannot be negative")
		}
		vendor.MaxActiveOrders = *input.MaxActiveOrders
	}
	if input.MinLeadTimeDays != nil {
		if *input.MinLeadTimeDays < 0 {
			return nil, shared.NewDomainError("INVALID_LEAD_TIME", "Minimum lead time cannot be negative")
		}
		vendor.MinLeadTimeDays = *input.MinLeadTimeDays
	}
	vendor.Touch()

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to save vendor: %w", err)
	}
	return vendor, nil
}

// SetRating sets the vendor's rating (0-5)
func (s *VendorService) SetRating(ctx context.Context, tenantID, vendorID uuid.UUID, rating int) (*partner.Vendor, error) {
	vendor, err := s.Get(ctx, tenantID, vendorID)
	if err != nil {
		return nil, err
	}
	if err := vendor.SetRating(rating); err != nil {
		return nil, err
	}
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to save vendor: %w", err)
	}
	return vendor, nil
}

// Activate marks a vendor as active
func (s *VendorService) Activate(ctx context.Context, tenantID, vendorID uuid.UUID) (*partner.Vendor, error) {
	return s.changeStatus(ctx, tenantID, vendorID, (*partner.Vendor).Activate)
}

// Deactivate marks a vendor as inactive
func (s *VendorService) Deactivate(ctx context.Context, tenantID, vendorID uuid.UUID) (*partner.Vendor, error) {
	return s.changeStatus(ctx, tenantID, vendorID, (*partner.Vendor).Deactivate)
}

// Blacklist excludes a vendor from sourcing permanently
func (s *VendorService) Blacklist(ctx context.Context, tenantID, vendorID uuid.UUID) (*partner.Vendor, error) {
	vendor, err := s.changeStatus(ctx, tenantID, vendorID, (*partner.Vendor).Blacklist)
	if err != nil {
		return nil, err
	}
	s.logger.Warn("Vendor blacklisted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("vendor_id", vendorID.String()),
	)
	return vendor, nil
}

func (s *VendorService) changeStatus(ctx context.Context, tenantID, vendorID uuid.UUID, change func(*partner.Vendor)) (*partner.Vendor, error) {
	vendor, err := s.Get(ctx, tenantID, vendorID)
	if err != nil {
		return nil, err
	}
	change(vendor)
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to save vendor: %w", err)
	}
	return vendor, nil
}

// Delete removes a vendor from the directory
func (s *VendorService) Delete(ctx context.Context, tenantID, vendorID uuid.UUID) error {
	vendor, err := s.Get(ctx, tenantID, vendorID)
	if err != nil {
		return err
	}
	if err := s.vendorRepo.Delete(ctx, vendor.ID); err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}
	return nil
}

// Match ranks the tenant's active vendors against a sourcing requirements
// document and returns the candidates at or above the minimum score, best
// first. Inactive and blacklisted vendors are never considered.
func (s *VendorService) Match(ctx context.Context, input MatchVendorsInput) ([]sourcing.VendorMatch, error) {
	if input.TenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}

	currency := valueobject.Currency(input.Currency)
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency")
	}
	budgetMin, err := valueobject.NewMoneyFromMinorUnits(input.BudgetMinMinorUnits, currency)
	if err != nil {
		return nil, err
	}
	budgetMax, err := valueobject.NewMoneyFromMinorUnits(input.BudgetMaxMinorUnits, currency)
	if err != nil {
		return nil, err
	}

	req, err := sourcing.NewRequirements(
		input.OrderID,
		input.Material,
		input.Quantity,
		sourcing.QualityTier(input.QualityTier),
		input.Deadline,
		budgetMin,
		budgetMax,
	)
	if err != nil {
		return nil, err
	}

	vendors, err := s.vendorRepo.FindActiveForTenant(ctx, input.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active vendors: %w", err)
	}

	matcher := sourcing.NewMatcher(input.MinScore)
	matches := matcher.Match(vendors, req)

	s.logger.Debug("Vendor matching completed",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("order_id", input.OrderID.String()),
		zap.Int("candidates", len(vendors)),
		zap.Int("matches", len(matches)),
	)
	return matches, nil
}
