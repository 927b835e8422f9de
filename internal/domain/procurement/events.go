package procurement

import (
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/backend/internal/domain/shared"
)

// Event types for the purchase order aggregate
const (
	EventTypeOrderCreated      = "procurement.order.created"
	EventTypeSourcingStarted   = "procurement.order.sourcing_started"
	EventTypeVendorAssigned    = "procurement.order.vendor_assigned"
	EventTypeQuoteSubmitted    = "procurement.order.quote_submitted"
	EventTypeOrderConfirmed    = "procurement.order.confirmed"
	EventTypeProductionStarted = "procurement.order.production_started"
	EventTypeOrderCompleted    = "procurement.order.completed"
	EventTypeOrderCancelled    = "procurement.order.cancelled"
	EventTypeQuoteExpired      = "procurement.order.quote_expired"
)

// AggregateTypePurchaseOrder is the aggregate type for purchase order events
const AggregateTypePurchaseOrder = "PurchaseOrder"

// OrderCreatedEvent is published when a purchase order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	Currency    string    `json:"currency"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *PurchaseOrder) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		Currency:        string(order.Currency),
	}
}

// SourcingStartedEvent is published when vendor sourcing begins
type SourcingStartedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	ItemCount   int    `json:"item_count"`
}

// NewSourcingStartedEvent creates a new SourcingStartedEvent
func NewSourcingStartedEvent(order *PurchaseOrder) *SourcingStartedEvent {
	return &SourcingStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSourcingStarted, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		ItemCount:       len(order.Items),
	}
}

// VendorAssignedEvent is published on the first transition into negotiation
type VendorAssignedEvent struct {
	shared.BaseDomainEvent
	OrderNumber       string    `json:"order_number"`
	VendorID          uuid.UUID `json:"vendor_id"`
	QuotedPriceMinor  int64     `json:"quoted_price_minor_units"`
	Currency          string    `json:"currency"`
	LeadTimeDays      int       `json:"lead_time_days"`
	QuoteExpiresAt    time.Time `json:"quote_expires_at"`
}

// NewVendorAssignedEvent creates a new VendorAssignedEvent
func NewVendorAssignedEvent(order *PurchaseOrder, quote VendorQuote) *VendorAssignedEvent {
	return &VendorAssignedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeVendorAssigned, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:      order.OrderNumber,
		VendorID:         quote.VendorID,
		QuotedPriceMinor: quote.TotalPrice.AmountMinorUnits(),
		Currency:         string(quote.TotalPrice.Currency()),
		LeadTimeDays:     quote.LeadTimeDays,
		QuoteExpiresAt:   quote.ExpiresAt,
	}
}

// QuoteSubmittedEvent is published when a superseding quote is recorded
// during negotiation
type QuoteSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderNumber      string    `json:"order_number"`
	VendorID         uuid.UUID `json:"vendor_id"`
	QuotedPriceMinor int64     `json:"quoted_price_minor_units"`
	Currency         string    `json:"currency"`
	LeadTimeDays     int       `json:"lead_time_days"`
}

// NewQuoteSubmittedEvent creates a new QuoteSubmittedEvent
func NewQuoteSubmittedEvent(order *PurchaseOrder, quote VendorQuote) *QuoteSubmittedEvent {
	return &QuoteSubmittedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeQuoteSubmitted, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:      order.OrderNumber,
		VendorID:         quote.VendorID,
		QuotedPriceMinor: quote.TotalPrice.AmountMinorUnits(),
		Currency:         string(quote.TotalPrice.Currency()),
		LeadTimeDays:     quote.LeadTimeDays,
	}
}

// OrderConfirmedEvent is published when an order is confirmed
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber     string    `json:"order_number"`
	VendorID        uuid.UUID `json:"vendor_id"`
	ProductionStart time.Time `json:"production_start"`
	ProductionEnd   time.Time `json:"production_end"`
}

// NewOrderConfirmedEvent creates a new OrderConfirmedEvent
func NewOrderConfirmedEvent(order *PurchaseOrder) *OrderConfirmedEvent {
	var vendorID uuid.UUID
	if order.VendorID != nil {
		vendorID = *order.VendorID
	}
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		VendorID:        vendorID,
		ProductionStart: order.Timeline.Start(),
		ProductionEnd:   order.Timeline.End(),
	}
}

// ProductionStartedEvent is published when production begins
type ProductionStartedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewProductionStartedEvent creates a new ProductionStartedEvent
func NewProductionStartedEvent(order *PurchaseOrder) *ProductionStartedEvent {
	return &ProductionStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionStarted, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
	}
}

// OrderCompletedEvent is published when an order reaches COMPLETED
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderNumber      string `json:"order_number"`
	TotalAmountMinor int64  `json:"total_amount_minor_units"`
	Currency         string `json:"currency"`
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(order *PurchaseOrder) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeOrderCompleted, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:      order.OrderNumber,
		TotalAmountMinor: order.TotalAmount.AmountMinorUnits(),
		Currency:         string(order.Currency),
	}
}

// OrderCancelledEvent is published when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *PurchaseOrder, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		Reason:          reason,
	}
}

// QuoteExpiredEvent is published when the expiration sweep force-expires an
// order. PreviousExpiresAt is nil when the order carried no quote expiry.
type QuoteExpiredEvent struct {
	shared.BaseDomainEvent
	OrderNumber       string     `json:"order_number"`
	VendorID          *uuid.UUID `json:"vendor_id,omitempty"`
	PreviousExpiresAt *time.Time `json:"previous_expires_at,omitempty"`
	ExpiredAt         time.Time  `json:"expired_at"`
}

// NewQuoteExpiredEvent creates a new QuoteExpiredEvent
func NewQuoteExpiredEvent(order *PurchaseOrder, previousExpiresAt *time.Time, expiredAt time.Time) *QuoteExpiredEvent {
	return &QuoteExpiredEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeQuoteExpired, AggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:       order.OrderNumber,
		VendorID:          order.VendorID,
		PreviousExpiresAt: previousExpiresAt,
		ExpiredAt:         expiredAt,
	}
}
