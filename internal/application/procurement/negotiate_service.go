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

// NegotiateInput carries revised quote terms for an order under negotiation
type NegotiateInput struct {
	TenantID              uuid.UUID
	OrderID               uuid.UUID
	VendorID              uuid.UUID
	QuotedPriceMinorUnits int64
	LeadTimeDays          int
	QuoteExpiresAt        time.Time
}

// NegotiateService records a revised vendor quote against an order. The new
// quote supersedes the current one; the superseded quote is rejected and the
// expiry clock restarts from the new quote.
type NegotiateService struct {
	orderRepo      procurement.PurchaseOrderRepository
	vendorRepo     partner.VendorRepository
	eventPublisher shared.EventPublisher
	metrics        Metrics
	clock          shared.Clock
	logger         *zap.Logger
}

// NewNegotiateService creates a new negotiation service
func NewNegotiateService(
	orderRepo procurement.PurchaseOrderRepository,
	vendorRepo partner.VendorRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *NegotiateService {
	return &NegotiateService{
		orderRepo:  orderRepo,
		vendorRepo: vendorRepo,
		clock:      clock,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *NegotiateService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the business metrics recorder
func (s *NegotiateService) SetMetrics(metrics Metrics) {
	s.metrics = metrics
}

// Execute applies the revised quote. Valid while the order is sourcing or
// already negotiating; lead time must be strictly positive.
func (s *NegotiateService) Execute(ctx context.Context, input NegotiateInput) (*procurement.PurchaseOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}
	if input.VendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR_ID", "Vendor ID cannot be empty")
	}
	if input.QuotedPriceMinorUnits < 0 {
		return nil, shared.NewDomainError("INVALID_QUOTED_PRICE", "Quoted price cannot be negative")
	}
	if input.LeadTimeDays <= 0 {
		return nil, shared.NewDomainError("INVALID_LEAD_TIME", "Lead time must be greater than zero")
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, input.TenantID, input.OrderID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	if !order.Status.AllowsNegotiation() {
		return nil, shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Order status %s does not allow negotiation", order.Status))
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

	quotedPrice, err := valueobject.NewMoneyFromMinorUnits(input.QuotedPriceMinorUnits, order.Currency)
	if err != nil {
		return nil, err
	}
	quote, err := procurement.NewVendorQuote(vendor.ID, quotedPrice, input.LeadTimeDays, s.clock.Now(), input.QuoteExpiresAt)
	if err != nil {
		return nil, err
	}

	if err := order.Negotiate(quote); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	if s.metrics != nil {
		s.metrics.QuoteNegotiated(ctx)
	}

	s.logger.Info("Quote negotiated",
		zap.String("order_id", order.ID.String()),
		zap.String("vendor_id", vendor.ID.String()),
		zap.Int64("quoted_minor_units", quotedPrice.AmountMinorUnits()),
		zap.Int("lead_time_days", quote.LeadTimeDays),
	)
	return order, nil
}

func (s *NegotiateService) publishEvents(ctx context.Context, order *procurement.PurchaseOrder) {
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
