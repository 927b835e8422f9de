package procurement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
	"github.com/procureflow/backend/internal/domain/sourcing"
)

// PurchaseOrderService orchestrates the purchase order lifecycle outside of
// vendor assignment and negotiation, which have dedicated use cases. Every
// operation takes the tenant explicitly; there is no ambient tenant state.
type PurchaseOrderService struct {
	orderRepo      procurement.PurchaseOrderRepository
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
	metrics        Metrics
	clock          shared.Clock
	logger         *zap.Logger
}

// NewPurchaseOrderService creates a new purchase order service
func NewPurchaseOrderService(
	orderRepo procurement.PurchaseOrderRepository,
	customerRepo partner.CustomerRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		clock:        clock,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the business metrics recorder
func (s *PurchaseOrderService) SetMetrics(metrics Metrics) {
	s.metrics = metrics
}

// Create creates a new purchase order in PENDING status. The order number
// must be unique within the tenant; creation fails with an ALREADY_EXISTS
// error when a number is reused.
func (s *PurchaseOrderService) Create(ctx context.Context, input CreatePurchaseOrderInput) (*procurement.PurchaseOrder, error) {
	if input.TenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}

	customer, err := s.customerRepo.FindByIDForTenant(ctx, input.TenantID, input.CustomerID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_INACTIVE", "Customer is not active")
	}

	orderNumber := input.OrderNumber
	if orderNumber == "" {
		orderNumber, err = s.orderRepo.GenerateOrderNumber(ctx, input.TenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to generate order number: %w", err)
		}
	} else {
		exists, existsErr := s.orderRepo.ExistsByOrderNumber(ctx, input.TenantID, orderNumber)
		if existsErr != nil {
			return nil, fmt.Errorf("failed to check order number: %w", existsErr)
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("Order number %s already exists", orderNumber))
		}
	}

	order, err := procurement.NewPurchaseOrder(input.TenantID, input.CustomerID, orderNumber, valueobject.Currency(input.Currency))
	if err != nil {
		return nil, err
	}

	for _, item := range input.Items {
		unitPrice, priceErr := valueobject.NewMoneyFromMinorUnits(item.UnitPriceMinorUnits, order.Currency)
		if priceErr != nil {
			return nil, priceErr
		}
		if addErr := order.AddItem(item.ProductName, item.Quantity, unitPrice); addErr != nil {
			return nil, addErr
		}
	}

	if input.CustomerNotes != "" {
		order.SetCustomerNotes(input.CustomerNotes)
	}
	if input.RequiredDeliveryDate != nil {
		order.SetRequiredDeliveryDate(*input.RequiredDeliveryDate)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.publishEvents(ctx, order)
	if s.metrics != nil {
		s.metrics.OrderCreated(ctx)
	}

	s.logger.Info("Purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("tenant_id", order.TenantID.String()),
		zap.Int64("total_minor_units", order.TotalAmount.AmountMinorUnits()),
	)
	return order, nil
}

// StartSourcing transitions an order into VENDOR_SOURCING and snapshots the
// sourcing requirements into the order's metadata bag.
func (s *PurchaseOrderService) StartSourcing(ctx context.Context, input StartSourcingInput) (*procurement.PurchaseOrder, error) {
	order, err := s.findOrder(ctx, input.TenantID, input.OrderID)
	if err != nil {
		return nil, err
	}

	budgetMin, err := valueobject.NewMoneyFromMinorUnits(input.BudgetMinMinorUnits, order.Currency)
	if err != nil {
		return nil, err
	}
	budgetMax, err := valueobject.NewMoneyFromMinorUnits(input.BudgetMaxMinorUnits, order.Currency)
	if err != nil {
		return nil, err
	}
	requirements, err := sourcing.NewRequirements(order.ID, input.Material, input.Quantity,
		sourcing.QualityTier(input.QualityTier), input.Deadline, budgetMin, budgetMax)
	if err != nil {
		return nil, err
	}

	if err := order.StartSourcing(); err != nil {
		return nil, err
	}
	order.SetMetadataDocument(procurement.MetadataKeySourcing, requirements.Document())

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)
	return order, nil
}

// Confirm locks in the current vendor quote and transitions the order to
// CONFIRMED, deriving the production window from the quote's lead time.
func (s *PurchaseOrderService) Confirm(ctx context.Context, tenantID, orderID uuid.UUID) (*procurement.PurchaseOrder, error) {
	order, err := s.findOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Confirm(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)
	return order, nil
}

// StartProduction transitions a confirmed order into IN_PRODUCTION
func (s *PurchaseOrderService) StartProduction(ctx context.Context, tenantID, orderID uuid.UUID, plan map[string]interface{}) (*procurement.PurchaseOrder, error) {
	order, err := s.findOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.StartProduction(plan); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)
	return order, nil
}

// Complete transitions an in-production order to COMPLETED
func (s *PurchaseOrderService) Complete(ctx context.Context, tenantID, orderID uuid.UUID) (*procurement.PurchaseOrder, error) {
	order, err := s.findOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Complete(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)
	return order, nil
}

// Cancel cancels a non-terminal order
func (s *PurchaseOrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, reason string) (*procurement.PurchaseOrder, error) {
	order, err := s.findOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(reason, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, order)
	return order, nil
}

// RecordPayment records a received payment against an order
func (s *PurchaseOrderService) RecordPayment(ctx context.Context, tenantID, orderID uuid.UUID, amountMinorUnits int64) (*procurement.PurchaseOrder, error) {
	order, err := s.findOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	amount, err := valueobject.NewMoneyFromMinorUnits(amountMinorUnits, order.Currency)
	if err != nil {
		return nil, err
	}
	if err := order.RecordPayment(amount); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns a single order within a tenant
func (s *PurchaseOrderService) Get(ctx context.Context, tenantID, orderID uuid.UUID) (*procurement.PurchaseOrder, error) {
	return s.findOrder(ctx, tenantID, orderID)
}

// List returns orders for a tenant with filtering
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	return s.orderRepo.FindAllForTenant(ctx, tenantID, filter)
}

// GetStatusSummary returns per-status order counts for a tenant
func (s *PurchaseOrderService) GetStatusSummary(ctx context.Context, tenantID uuid.UUID) (*OrderStatusSummary, error) {
	summary := &OrderStatusSummary{
		TenantID: tenantID,
		Counts:   make(map[procurement.OrderStatus]int64),
	}
	statuses := []procurement.OrderStatus{
		procurement.OrderStatusPending,
		procurement.OrderStatusVendorSourcing,
		procurement.OrderStatusVendorNegotiation,
		procurement.OrderStatusConfirmed,
		procurement.OrderStatusInProduction,
		procurement.OrderStatusCompleted,
		procurement.OrderStatusCancelled,
		procurement.OrderStatusExpired,
	}
	for _, status := range statuses {
		count, err := s.orderRepo.CountByStatus(ctx, tenantID, status)
		if err != nil {
			return nil, err
		}
		summary.Counts[status] = count
	}
	return summary, nil
}

func (s *PurchaseOrderService) findOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*procurement.PurchaseOrder, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID cannot be empty")
	}
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	return order, nil
}

// publishEvents dispatches the aggregate's pending events. Publish
// failures are logged, not propagated: the persisted transition is the
// source of truth and delivery is at-least-once via redelivery elsewhere.
func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *procurement.PurchaseOrder) {
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
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
		return
	}
	order.ClearDomainEvents()
}
