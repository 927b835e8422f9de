package procurement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

// Metadata keys for opaque sub-documents owned by other subsystems
const (
	MetadataKeyProductionPlan = "production_plan"
	MetadataKeySourcing       = "sourcing_request"
	MetadataKeyPricing        = "pricing_breakdown"
)

// PurchaseOrderItem represents a line item within a purchase order
type PurchaseOrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductName string
	Description string
	Quantity    int
	UnitPrice   valueobject.Money
	Subtotal    valueobject.Money
}

// NewPurchaseOrderItem creates a new order line item
func NewPurchaseOrderItem(productName string, quantity int, unitPrice valueobject.Money) (*PurchaseOrderItem, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_UNIT_PRICE", "Unit price cannot be negative")
	}

	return &PurchaseOrderItem{
		ID:          uuid.New(),
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Multiply(int64(quantity)),
	}, nil
}

// PurchaseOrder is the aggregate root for a procurement order. It owns its
// items, addresses and timeline by value and references the customer and
// vendor by ID. All status mutations go through the named methods below;
// each method checks the transition table before mutating and records a
// domain event on success.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderNumber          string
	CustomerID           uuid.UUID
	VendorID             *uuid.UUID // absent until a vendor is assigned
	Status               OrderStatus
	PaymentStatus        PaymentStatus
	Currency             valueobject.Currency
	TotalAmount          valueobject.Money
	DownPaymentAmount    valueobject.Money
	TotalPaidAmount      valueobject.Money
	Items                []PurchaseOrderItem
	ShippingAddress      valueobject.Address
	BillingAddress       valueobject.Address
	RequiredDeliveryDate *time.Time
	CustomerNotes        string
	Specifications       map[string]string
	Timeline             valueobject.Timeline
	Metadata             map[string]interface{}
	CurrentQuote         *VendorQuote
	QuoteExpiresAt       *time.Time
	CancelReason         string
	ConfirmedAt          *time.Time
	CompletedAt          *time.Time
	CancelledAt          *time.Time
	ExpiredAt            *time.Time
}

// NewPurchaseOrder creates a new purchase order in PENDING status.
// The order number must be unique per tenant; uniqueness is enforced by the
// creating use case against the repository before calling this constructor.
func NewPurchaseOrder(tenantID, customerID uuid.UUID, orderNumber string, currency valueobject.Currency) (*PurchaseOrder, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_ID", "Customer ID cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency: %s", currency))
	}

	order := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerID:          customerID,
		Status:              OrderStatusPending,
		PaymentStatus:       PaymentStatusUnpaid,
		Currency:            currency,
		TotalAmount:         valueobject.ZeroMoney(currency),
		DownPaymentAmount:   valueobject.ZeroMoney(currency),
		TotalPaidAmount:     valueobject.ZeroMoney(currency),
		Items:               make([]PurchaseOrderItem, 0),
		Specifications:      make(map[string]string),
		Metadata:            make(map[string]interface{}),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))
	return order, nil
}

// AddItem adds a line item to the order and recalculates the total.
// Items can only be added before vendor engagement begins.
func (o *PurchaseOrder) AddItem(productName string, quantity int, unitPrice valueobject.Money) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Order status %s does not allow adding items", o.Status))
	}
	if unitPrice.Currency() != o.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Item currency %s does not match order currency %s", unitPrice.Currency(), o.Currency))
	}

	item, err := NewPurchaseOrderItem(productName, quantity, unitPrice)
	if err != nil {
		return err
	}
	item.OrderID = o.ID
	o.Items = append(o.Items, *item)

	return o.recalculateTotal()
}

func (o *PurchaseOrder) recalculateTotal() error {
	total := valueobject.ZeroMoney(o.Currency)
	for _, item := range o.Items {
		sum, err := total.Add(item.Subtotal)
		if err != nil {
			return err
		}
		total = sum
	}
	o.TotalAmount = total
	o.Touch()
	return nil
}

// StartSourcing transitions the order from PENDING to VENDOR_SOURCING.
// The caller may attach a sourcing requirements document to the metadata
// bag before or after this call.
func (o *PurchaseOrder) StartSourcing() error {
	if !o.Status.CanTransitionTo(OrderStatusVendorSourcing) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Order status %s does not allow vendor sourcing", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot source an order without items")
	}

	o.Status = OrderStatusVendorSourcing
	o.Touch()
	o.AddDomainEvent(NewSourcingStartedEvent(o))
	return nil
}

// AssignVendor accepts a vendor's quote and performs the first transition
// into negotiation. The quote currency must match the order currency, and
// the status must permit assignment. Tenant consistency between order and
// vendor is validated by the use case, which holds both aggregates.
func (o *PurchaseOrder) AssignVendor(quote VendorQuote) error {
	if !o.Status.AllowsVendorAssignment() {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Order status %s does not allow vendor assignment", o.Status))
	}
	if quote.TotalPrice.Currency() != o.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Quote currency %s does not match order currency %s", quote.TotalPrice.Currency(), o.Currency))
	}

	vendorID := quote.VendorID
	o.VendorID = &vendorID
	o.CurrentQuote = &quote
	expiresAt := quote.ExpiresAt
	o.QuoteExpiresAt = &expiresAt
	o.Status = OrderStatusVendorNegotiation
	o.Touch()
	o.AddDomainEvent(NewVendorAssignedEvent(o, quote))
	return nil
}

// Negotiate records a superseding quote during negotiation. Unlike
// AssignVendor it may be invoked repeatedly; each call replaces the current
// quote and refreshes the expiry window.
func (o *PurchaseOrder) Negotiate(quote VendorQuote) error {
	if !o.Status.AllowsNegotiation() {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Order status %s does not allow negotiation", o.Status))
	}
	if quote.TotalPrice.Currency() != o.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Quote currency %s does not match order currency %s", quote.TotalPrice.Currency(), o.Currency))
	}
	if quote.LeadTimeDays <= 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time must be greater than zero")
	}

	vendorID := quote.VendorID
	o.VendorID = &vendorID
	o.CurrentQuote = &quote
	expiresAt := quote.ExpiresAt
	o.QuoteExpiresAt = &expiresAt
	o.Status = OrderStatusVendorNegotiation
	o.Touch()
	o.AddDomainEvent(NewQuoteSubmittedEvent(o, quote))
	return nil
}

// Confirm locks in the current quote and transitions to CONFIRMED. The
// production window is derived from the quote's lead time starting at the
// given instant.
func (o *PurchaseOrder) Confirm(now time.Time) error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Order status %s does not allow confirmation", o.Status))
	}
	if o.CurrentQuote == nil || o.VendorID == nil {
		return shared.NewDomainError("NO_ACCEPTED_QUOTE", "Cannot confirm an order without an accepted vendor quote")
	}

	timeline, err := valueobject.NewTimelineFromDuration(now, o.CurrentQuote.LeadTimeDays)
	if err != nil {
		return err
	}

	accepted := o.CurrentQuote.Accepted()
	o.CurrentQuote = &accepted
	o.Timeline = timeline
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.Touch()
	o.AddDomainEvent(NewOrderConfirmedEvent(o))
	return nil
}

// StartProduction transitions the order from CONFIRMED to IN_PRODUCTION and
// stores the production plan as an opaque versioned sub-document in the
// metadata bag.
func (o *PurchaseOrder) StartProduction(plan map[string]interface{}) error {
	if !o.Status.CanTransitionTo(OrderStatusInProduction) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Order status %s does not allow starting production", o.Status))
	}

	if plan != nil {
		o.SetMetadataDocument(MetadataKeyProductionPlan, plan)
	}
	o.Status = OrderStatusInProduction
	o.Touch()
	o.AddDomainEvent(NewProductionStartedEvent(o))
	return nil
}

// Complete transitions the order from IN_PRODUCTION to COMPLETED
func (o *PurchaseOrder) Complete(now time.Time) error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Order status %s does not allow completion", o.Status))
	}

	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.Touch()
	o.AddDomainEvent(NewOrderCompletedEvent(o))
	return nil
}

// Cancel transitions the order to CANCELLED from any non-terminal status
func (o *PurchaseOrder) Cancel(reason string, now time.Time) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Order status %s does not allow cancellation", o.Status))
	}

	o.Status = OrderStatusCancelled
	o.CancelReason = strings.TrimSpace(reason)
	o.CancelledAt = &now
	o.Touch()
	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))
	return nil
}

// Expire force-transitions a stale sourcing/negotiation order to EXPIRED.
// Invoked by the expiration sweep with a system actor; human-facing use
// cases never call this.
func (o *PurchaseOrder) Expire(now time.Time) error {
	if !o.Status.IsExpirable() {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Order status %s does not allow expiration", o.Status))
	}

	previousExpiry := o.QuoteExpiresAt
	if o.CurrentQuote != nil {
		expired := o.CurrentQuote.Expired()
		o.CurrentQuote = &expired
	}
	o.Status = OrderStatusExpired
	o.ExpiredAt = &now
	o.Touch()
	o.AddDomainEvent(NewQuoteExpiredEvent(o, previousExpiry, now))
	return nil
}

// RecordPayment adds a received amount to the running paid total and
// updates the payment status. Overpayment is tolerated at the aggregate
// boundary; reconciliation is external.
func (o *PurchaseOrder) RecordPayment(amount valueobject.Money) error {
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	paid, err := o.TotalPaidAmount.Add(amount)
	if err != nil {
		return err
	}
	o.TotalPaidAmount = paid

	cmp, err := o.TotalPaidAmount.Compare(o.TotalAmount)
	if err != nil {
		return err
	}
	if cmp >= 0 && o.TotalAmount.IsPositive() {
		o.PaymentStatus = PaymentStatusFullyPaid
	} else {
		o.PaymentStatus = PaymentStatusDownPaymentPaid
	}
	o.Touch()
	return nil
}

// SetDownPayment sets the agreed down payment amount
func (o *PurchaseOrder) SetDownPayment(amount valueobject.Money) error {
	if amount.Currency() != o.Currency {
		return shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Down payment currency %s does not match order currency %s", amount.Currency(), o.Currency))
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Down payment cannot be negative")
	}
	o.DownPaymentAmount = amount
	o.Touch()
	return nil
}

// SetAddresses sets the shipping and billing addresses
func (o *PurchaseOrder) SetAddresses(shipping, billing valueobject.Address) {
	o.ShippingAddress = shipping
	o.BillingAddress = billing
	o.Touch()
}

// SetRequiredDeliveryDate sets the customer's required delivery date
func (o *PurchaseOrder) SetRequiredDeliveryDate(date time.Time) {
	o.RequiredDeliveryDate = &date
	o.Touch()
}

// SetCustomerNotes sets free-form customer notes
func (o *PurchaseOrder) SetCustomerNotes(notes string) {
	o.CustomerNotes = strings.TrimSpace(notes)
	o.Touch()
}

// SetSpecification sets a single specification entry
func (o *PurchaseOrder) SetSpecification(key, value string) {
	if o.Specifications == nil {
		o.Specifications = make(map[string]string)
	}
	o.Specifications[key] = value
	o.Touch()
}

// SetMetadataDocument stores an opaque sub-document in the metadata bag
// under the given key, wrapped with a schema version so the owning
// subsystem can evolve its format independently.
func (o *PurchaseOrder) SetMetadataDocument(key string, doc map[string]interface{}) {
	if o.Metadata == nil {
		o.Metadata = make(map[string]interface{})
	}
	o.Metadata[key] = map[string]interface{}{
		"version":  1,
		"document": doc,
	}
	o.Touch()
}

// MetadataDocument retrieves an opaque sub-document from the metadata bag.
// Returns nil when absent or when the stored shape is not a sub-document.
func (o *PurchaseOrder) MetadataDocument(key string) map[string]interface{} {
	raw, ok := o.Metadata[key]
	if !ok {
		return nil
	}
	wrapper, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	doc, ok := wrapper["document"].(map[string]interface{})
	if !ok {
		return nil
	}
	return doc
}

// HasVendor returns true if a vendor has been assigned
func (o *PurchaseOrder) HasVendor() bool {
	return o.VendorID != nil
}

// IsTerminal returns true if the order is in a terminal status
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// IsQuoteExpiredAt returns true if the order carries a quote whose validity
// has lapsed at the given instant
func (o *PurchaseOrder) IsQuoteExpiredAt(now time.Time) bool {
	return o.QuoteExpiresAt != nil && o.QuoteExpiresAt.Before(now)
}
