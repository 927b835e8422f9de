package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate
// root. Monetary amounts are stored as integer minor units next to the order
// currency; the current vendor quote is flattened into nullable quote_*
// columns so the expiration sweep can query quote_expires_at directly.
type PurchaseOrderModel struct {
	TenantAggregateModel
	OrderNumber          string                    `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_tenant_number,priority:2"`
	CustomerID           uuid.UUID                 `gorm:"type:uuid;not null;index"`
	VendorID             *uuid.UUID                `gorm:"type:uuid;index"`
	Status               procurement.OrderStatus   `gorm:"type:varchar(30);not null;default:'PENDING';index"`
	PaymentStatus        procurement.PaymentStatus `gorm:"type:varchar(30);not null;default:'UNPAID'"`
	Currency             string                    `gorm:"type:varchar(3);not null"`
	TotalAmount          int64                     `gorm:"not null;default:0"`
	DownPaymentAmount    int64                     `gorm:"not null;default:0"`
	TotalPaidAmount      int64                     `gorm:"not null;default:0"`
	Items                []PurchaseOrderItemModel  `gorm:"foreignKey:OrderID;references:ID"`
	ShippingAddress      valueobject.Address       `gorm:"type:jsonb;serializer:json"`
	BillingAddress       valueobject.Address       `gorm:"type:jsonb;serializer:json"`
	RequiredDeliveryDate *time.Time
	CustomerNotes        string                   `gorm:"type:text"`
	Specifications       map[string]string        `gorm:"type:jsonb;serializer:json"`
	TimelineStart        *time.Time               `gorm:"type:timestamptz"`
	TimelineEnd          *time.Time               `gorm:"type:timestamptz"`
	Metadata             map[string]interface{}   `gorm:"type:jsonb;serializer:json"`
	QuoteID              *uuid.UUID               `gorm:"type:uuid"`
	QuoteAmount          *int64
	QuoteLeadTimeDays    *int
	QuoteQuotedAt        *time.Time               `gorm:"type:timestamptz"`
	QuoteExpiresAt       *time.Time               `gorm:"type:timestamptz;index"`
	QuoteStatus          *procurement.QuoteStatus `gorm:"type:varchar(20)"`
	CancelReason         string                   `gorm:"type:varchar(500)"`
	ConfirmedAt          *time.Time               `gorm:"index"`
	CompletedAt          *time.Time
	CancelledAt          *time.Time
	ExpiredAt            *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder aggregate.
// Fails when the stored currency or timeline columns cannot be rebuilt into
// their value objects.
func (m *PurchaseOrderModel) ToDomain() (*procurement.PurchaseOrder, error) {
	currency := valueobject.Currency(m.Currency)
	total, err := valueobject.NewMoneyFromMinorUnits(m.TotalAmount, currency)
	if err != nil {
		return nil, err
	}
	downPayment, err := valueobject.NewMoneyFromMinorUnits(m.DownPaymentAmount, currency)
	if err != nil {
		return nil, err
	}
	paid, err := valueobject.NewMoneyFromMinorUnits(m.TotalPaidAmount, currency)
	if err != nil {
		return nil, err
	}

	timeline := valueobject.EmptyTimeline()
	if m.TimelineStart != nil && m.TimelineEnd != nil {
		timeline, err = valueobject.NewTimeline(*m.TimelineStart, *m.TimelineEnd)
		if err != nil {
			return nil, err
		}
	}

	order := &procurement.PurchaseOrder{
		OrderNumber:          m.OrderNumber,
		CustomerID:           m.CustomerID,
		VendorID:             m.VendorID,
		Status:               m.Status,
		PaymentStatus:        m.PaymentStatus,
		Currency:             currency,
		TotalAmount:          total,
		DownPaymentAmount:    downPayment,
		TotalPaidAmount:      paid,
		ShippingAddress:      m.ShippingAddress,
		BillingAddress:       m.BillingAddress,
		RequiredDeliveryDate: m.RequiredDeliveryDate,
		CustomerNotes:        m.CustomerNotes,
		Specifications:       m.Specifications,
		Timeline:             timeline,
		Metadata:             m.Metadata,
		QuoteExpiresAt:       m.QuoteExpiresAt,
		CancelReason:         m.CancelReason,
		ConfirmedAt:          m.ConfirmedAt,
		CompletedAt:          m.CompletedAt,
		CancelledAt:          m.CancelledAt,
		ExpiredAt:            m.ExpiredAt,
		Items:                make([]procurement.PurchaseOrderItem, len(m.Items)),
	}
	m.PopulateTenantAggregateRoot(&order.TenantAggregateRoot)

	if order.Specifications == nil {
		order.Specifications = make(map[string]string)
	}
	if order.Metadata == nil {
		order.Metadata = make(map[string]interface{})
	}

	quote, err := m.quoteToDomain(currency)
	if err != nil {
		return nil, err
	}
	order.CurrentQuote = quote

	for i := range m.Items {
		item, err := m.Items[i].ToDomain()
		if err != nil {
			return nil, err
		}
		order.Items[i] = *item
	}
	return order, nil
}

// quoteToDomain rebuilds the flattened quote columns into a VendorQuote.
// Returns nil when no quote has been recorded.
func (m *PurchaseOrderModel) quoteToDomain(currency valueobject.Currency) (*procurement.VendorQuote, error) {
	if m.QuoteID == nil || m.VendorID == nil {
		return nil, nil
	}

	price, err := valueobject.NewMoneyFromMinorUnits(derefInt64(m.QuoteAmount), currency)
	if err != nil {
		return nil, err
	}

	quote := procurement.VendorQuote{
		ID:           *m.QuoteID,
		VendorID:     *m.VendorID,
		TotalPrice:   price,
		LeadTimeDays: derefInt(m.QuoteLeadTimeDays),
		Status:       procurement.QuoteStatusSubmitted,
	}
	if m.QuoteQuotedAt != nil {
		quote.QuotedAt = *m.QuoteQuotedAt
	}
	if m.QuoteExpiresAt != nil {
		quote.ExpiresAt = *m.QuoteExpiresAt
	}
	if m.QuoteStatus != nil {
		quote.Status = *m.QuoteStatus
	}
	return &quote, nil
}

// FromDomain populates the persistence model from a domain PurchaseOrder aggregate.
func (m *PurchaseOrderModel) FromDomain(o *procurement.PurchaseOrder) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.VendorID = o.VendorID
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.Currency = string(o.Currency)
	m.TotalAmount = o.TotalAmount.AmountMinorUnits()
	m.DownPaymentAmount = o.DownPaymentAmount.AmountMinorUnits()
	m.TotalPaidAmount = o.TotalPaidAmount.AmountMinorUnits()
	m.ShippingAddress = o.ShippingAddress
	m.BillingAddress = o.BillingAddress
	m.RequiredDeliveryDate = o.RequiredDeliveryDate
	m.CustomerNotes = o.CustomerNotes
	m.Specifications = o.Specifications
	m.Metadata = o.Metadata
	m.QuoteExpiresAt = o.QuoteExpiresAt
	m.CancelReason = o.CancelReason
	m.ConfirmedAt = o.ConfirmedAt
	m.CompletedAt = o.CompletedAt
	m.CancelledAt = o.CancelledAt
	m.ExpiredAt = o.ExpiredAt

	if !o.Timeline.IsZero() {
		start := o.Timeline.Start()
		end := o.Timeline.End()
		m.TimelineStart = &start
		m.TimelineEnd = &end
	} else {
		m.TimelineStart = nil
		m.TimelineEnd = nil
	}

	m.QuoteID = nil
	m.QuoteAmount = nil
	m.QuoteLeadTimeDays = nil
	m.QuoteQuotedAt = nil
	m.QuoteStatus = nil
	if q := o.CurrentQuote; q != nil {
		quoteID := q.ID
		amount := q.TotalPrice.AmountMinorUnits()
		leadTime := q.LeadTimeDays
		quotedAt := q.QuotedAt
		status := q.Status
		m.QuoteID = &quoteID
		m.QuoteAmount = &amount
		m.QuoteLeadTimeDays = &leadTime
		m.QuoteQuotedAt = &quotedAt
		m.QuoteStatus = &status
	}

	m.Items = make([]PurchaseOrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = *PurchaseOrderItemModelFromDomain(&o.Items[i], o.Currency)
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder aggregate.
func PurchaseOrderModelFromDomain(o *procurement.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}

// PurchaseOrderItemModel is the persistence model for an order line item.
type PurchaseOrderItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductName string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	Quantity    int       `gorm:"not null"`
	UnitPrice   int64     `gorm:"not null"`
	Subtotal    int64     `gorm:"not null"`
	Currency    string    `gorm:"type:varchar(3);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the persistence model to a domain PurchaseOrderItem.
func (m *PurchaseOrderItemModel) ToDomain() (*procurement.PurchaseOrderItem, error) {
	currency := valueobject.Currency(m.Currency)
	unitPrice, err := valueobject.NewMoneyFromMinorUnits(m.UnitPrice, currency)
	if err != nil {
		return nil, err
	}
	subtotal, err := valueobject.NewMoneyFromMinorUnits(m.Subtotal, currency)
	if err != nil {
		return nil, err
	}
	return &procurement.PurchaseOrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductName: m.ProductName,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   unitPrice,
		Subtotal:    subtotal,
	}, nil
}

// FromDomain populates the persistence model from a domain PurchaseOrderItem.
func (m *PurchaseOrderItemModel) FromDomain(i *procurement.PurchaseOrderItem, currency valueobject.Currency) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.ProductName = i.ProductName
	m.Description = i.Description
	m.Quantity = i.Quantity
	m.UnitPrice = i.UnitPrice.AmountMinorUnits()
	m.Subtotal = i.Subtotal.AmountMinorUnits()
	m.Currency = string(currency)
}

// PurchaseOrderItemModelFromDomain creates a new persistence model from a domain PurchaseOrderItem.
func PurchaseOrderItemModelFromDomain(i *procurement.PurchaseOrderItem, currency valueobject.Currency) *PurchaseOrderItemModel {
	m := &PurchaseOrderItemModel{}
	m.FromDomain(i, currency)
	return m
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
