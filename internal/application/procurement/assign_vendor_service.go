package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

// AssignVendorInput carries the initial quote terms under which a vendor is
// assigned to a sourcing order
type AssignVendorInput struct {
	TenantID              uuid.UUID
	OrderID               uuid.UUID
	VendorID              uuid.UUID
	QuotedPriceMinorUnits int64
	LeadTimeDays          int
	QuoteExpiresAt        time.Time
}

// AssignVendorService assigns a vendor to an order that is out for
// sourcing. Input checks run before any repository access so that a
// malformed request never touches storage.
type AssignVendorService struct {
	orderRepo      procurement.PurchaseOrderRepository
	vendorRepo     partner.VendorRepository
	eventPublisher shared.EventPublisher
	metrics        Metrics
	clock          shared.Clock
	logger         *zap.Logger
}

// NewAssignVendorService creates a new vendor assignment service
func NewAssignVendorService(
	orderRepo procurement.PurchaseOrderRepository,
	vendorRepo partner.VendorRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *AssignVendorService {
	return &AssignVendorService{
		orderRepo:  orderRepo,
		vendorRepo: vendorRepo,
		clock:      clock,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *AssignVendorService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the business metrics recorder
func (s *AssignVendorService) SetMetrics(metrics Metrics) {
	s.metrics = metrics
}

// Execute assigns the vendor and moves the order into VENDOR_NEGOTIATION.
// The vendor must belong to the same tenant as the order and be active.
func (s *AssignVendorService) Execute(ctx context.Context, input AssignVendorInput) (*procurement.PurchaseOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}
	if input.VendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR_ID", "Vendor ID cannot be empty")
	}
	if input.QuotedPriceMinorUnits < 0 {
		return nil, shared.NewDomainError("INVALID_QUOTED_PRICE", "Quoted price cannot be negative")
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, input.TenantID, input.OrderID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}

	if !order.Status.AllowsVendorAssignment() {
		return nil, shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Order status %s does not allow vendor assignment", order.Status))
	}

	vendor, err := s.vendorRepo.FindByID(ctx, input.VendorID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("VENDOR_NOT_FOUND", "Vendor not found")
		}
		return nil, fmt.Errorf("failed to look up vendor: %w", err)
	}
	if !vendor.BelongsToTenant(input.TenantID) {
		return nil, shared.NewDomainError("TENANT_MISMATCH", "Vendor does not belong to this tenant")
	}
	if !vendor.IsActive() {
		return nil, shared.NewDomainError("VENDOR_INACTIVE", "Vendor is not available for assignment")
	}

	quotedPrice, err := valueobject.NewMoneyFromMinorUnits(input.QuotedPriceMinorUnits, order.Currency)
	if err != nil {
		return nil, err
	}
	quote, err := procurement.NewVendorQuote(vendor.ID, quotedPrice, input.LeadTimeDays, s.clock.Now(), input.QuoteExpiresAt)
	if err != nil {
		return nil, err
	}

	if err := order.AssignVendor(quote); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	if s.metrics != nil {
		s.metrics.VendorAssigned(ctx)
	}

	s.logger.Info("Vendor assigned to order",
		zap.String("order_id", order.ID.String()),
		zap.String("vendor_id", vendor.ID.String()),
		zap.Int64("quoted_minor_units", quotedPrice.AmountMinorUnits()),
		zap.Int("lead_time_days", quote.LeadTimeDays),
	)
	return order, nil
}

func (s *AssignVendorService) publishEvents(ctx context.Context, order *procurement.PurchaseOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return
	}
	order.ClearDomainEvents()
}
