package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/shared"
)

// CustomerService manages the customer directory. Customer tier and tax
// settings feed the pricing engine, so changes here affect future quotes.
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create registers a new customer. An empty tier code means the standard tier.
func (s *CustomerService) Create(ctx context.Context, input CreateCustomerInput) (*partner.Customer, error) {
	customer, err := partner.NewCustomer(input.TenantID, input.Name, input.Email)
	if err != nil {
		return nil, err
	}
	customer.Phone = input.Phone

	if input.TierCode != "" {
		tier, err := partner.TierFromCode(input.TierCode)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_TIER", "Unknown customer tier code")
		}
		if err := customer.ChangeTier(tier); err != nil {
			return nil, err
		}
	}
	if input.TaxRegion != "" {
		customer.SetTaxRegion(input.TaxRegion)
	}
	if input.TaxExempt {
		customer.SetTaxExempt(true)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		if err == shared.ErrAlreadyExists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer already exists")
		}
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.logger.Info("Customer created",
		zap.String("tenant_id", customer.TenantID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.String("tier", customer.Tier.Code()),
	)
	return customer, nil
}

// Get returns a customer by ID within a tenant
func (s *CustomerService) Get(ctx context.Context, tenantID, customerID uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return customer, nil
}

// List returns customers for a tenant with filtering
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// ChangeTier moves a customer to the tier named by code
func (s *CustomerService) ChangeTier(ctx context.Context, tenantID, customerID uuid.UUID, tierCode string) (*partner.Customer, error) {
	customer, err := s.Get(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	tier, err := partner.TierFromCode(tierCode)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TIER", "Unknown customer tier code")
	}
	previous := customer.Tier.Code()
	if err := customer.ChangeTier(tier); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.logger.Info("Customer tier changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("from", previous),
		zap.String("to", tier.Code()),
	)
	return customer, nil
}

// SetTaxSettings updates the customer's tax region and exemption flag
func (s *CustomerService) SetTaxSettings(ctx context.Context, tenantID, customerID uuid.UUID, taxRegion string, taxExempt bool) (*partner.Customer, error) {
	customer, err := s.Get(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	customer.SetTaxRegion(taxRegion)
	customer.SetTaxExempt(taxExempt)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	return customer, nil
}

// Activate marks a customer as active
func (s *CustomerService) Activate(ctx context.Context, tenantID, customerID uuid.UUID) (*partner.Customer, error) {
	customer, err := s.Get(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	customer.Activate()
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	return customer, nil
}

// Deactivate marks a customer as inactive. Existing orders keep running;
// new orders for the customer are rejected.
func (s *CustomerService) Deactivate(ctx context.Context, tenantID, customerID uuid.UUID) (*partner.Customer, error) {
	customer, err := s.Get(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	customer.Deactivate()
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	return customer, nil
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, tenantID, customerID uuid.UUID) error {
	customer, err := s.Get(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	if err := s.customerRepo.Delete(ctx, customer.ID); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}
