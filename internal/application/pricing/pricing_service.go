package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/pricing"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

// ComplexityInput describes the order's production complexity for pricing
type ComplexityInput struct {
	Level               string
	MaterialType        string
	DesignScore         int
	Quantity            int
	SpecialRequirements []string
}

// QuoteInput is one candidate quote in a comparison request
type QuoteInput struct {
	VendorID              uuid.UUID
	QuotedPriceMinorUnits int64
	LeadTimeDays          int
}

// PricingService prices vendor quotes for customers and compares candidate
// quotes during sourcing. It never mutates order state except to snapshot
// the latest breakdown into the order's metadata bag.
type PricingService struct {
	orderRepo    procurement.PurchaseOrderRepository
	customerRepo partner.CustomerRepository
	calculator   *pricing.Calculator
	clock        shared.Clock
	logger       *zap.Logger
}

// NewPricingService creates a new pricing service
func NewPricingService(
	orderRepo procurement.PurchaseOrderRepository,
	customerRepo partner.CustomerRepository,
	calculator *pricing.Calculator,
	clock shared.Clock,
	logger *zap.Logger,
) *PricingService {
	return &PricingService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		calculator:   calculator,
		clock:        clock,
		logger:       logger,
	}
}

// PriceCurrentQuote prices the order's current vendor quote for the order's
// customer and snapshots the breakdown into the order metadata.
func (s *PricingService) PriceCurrentQuote(ctx context.Context, tenantID, orderID uuid.UUID, complexityInput ComplexityInput) (pricing.PricingStructure, error) {
	order, customer, err := s.loadOrderAndCustomer(ctx, tenantID, orderID)
	if err != nil {
		return pricing.PricingStructure{}, err
	}
	if order.CurrentQuote == nil {
		return pricing.PricingStructure{}, shared.NewDomainError("NO_QUOTE", "Order has no vendor quote to price")
	}
	complexity, err := buildComplexity(complexityInput)
	if err != nil {
		return pricing.PricingStructure{}, err
	}

	structure, err := s.calculator.CalculateCustomerPricing(*order.CurrentQuote, customer, complexity)
	if err != nil {
		return pricing.PricingStructure{}, err
	}

	doc, err := breakdownDocument(structure, s.clock.Now())
	if err != nil {
		return pricing.PricingStructure{}, err
	}
	order.SetMetadataDocument(procurement.MetadataKeyPricing, doc)
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return pricing.PricingStructure{}, err
	}

	s.logger.Info("Quote priced for customer",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.Int64("final_minor_units", structure.FinalPrice.AmountMinorUnits()),
		zap.String("policy_version", structure.PolicyVersion),
	)
	return structure, nil
}

// CompareQuotes prices each candidate quote for the order's customer and
// returns them ranked. Comparison is read-only.
func (s *PricingService) CompareQuotes(ctx context.Context, tenantID, orderID uuid.UUID, candidates []QuoteInput, complexityInput ComplexityInput) (pricing.QuoteComparison, error) {
	order, customer, err := s.loadOrderAndCustomer(ctx, tenantID, orderID)
	if err != nil {
		return pricing.QuoteComparison{}, err
	}
	if len(candidates) == 0 {
		return pricing.QuoteComparison{}, shared.NewDomainError("INVALID_PRICING_INPUT", "At least one quote is required for comparison")
	}
	complexity, err := buildComplexity(complexityInput)
	if err != nil {
		return pricing.QuoteComparison{}, err
	}

	now := s.clock.Now()
	quotes := make([]procurement.VendorQuote, 0, len(candidates))
	for _, candidate := range candidates {
		price, priceErr := valueobject.NewMoneyFromMinorUnits(candidate.QuotedPriceMinorUnits, order.Currency)
		if priceErr != nil {
			return pricing.QuoteComparison{}, priceErr
		}
		quote, quoteErr := procurement.NewVendorQuote(candidate.VendorID, price, candidate.LeadTimeDays, now, time.Time{})
		if quoteErr != nil {
			return pricing.QuoteComparison{}, quoteErr
		}
		quotes = append(quotes, quote)
	}

	return s.calculator.CompareQuotes(quotes, customer, complexity)
}

func (s *PricingService) loadOrderAndCustomer(ctx context.Context, tenantID, orderID uuid.UUID) (*procurement.PurchaseOrder, *partner.Customer, error) {
	if tenantID == uuid.Nil {
		return nil, nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	if orderID == uuid.Nil {
		return nil, nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, nil, fmt.Errorf("failed to look up order: %w", err)
	}
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, order.CustomerID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	return order, customer, nil
}

func buildComplexity(input ComplexityInput) (procurement.OrderComplexity, error) {
	return procurement.NewOrderComplexity(
		procurement.ComplexityLevel(input.Level),
		input.MaterialType,
		input.DesignScore,
		input.Quantity,
		input.SpecialRequirements,
	)
}

// breakdownDocument renders a pricing structure as a plain metadata document
func breakdownDocument(structure pricing.PricingStructure, pricedAt time.Time) (map[string]interface{}, error) {
	raw, err := json.Marshal(structure)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize pricing breakdown: %w", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to deserialize pricing breakdown: %w", err)
	}
	doc["priced_at"] = pricedAt.UTC().Format(time.RFC3339)
	return doc, nil
}
