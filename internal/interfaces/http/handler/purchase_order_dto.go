package handler

import (
	"time"

	"github.com/google/uuid"

	appprocurement "github.com/procureflow/backend/internal/application/procurement"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

// CreatePurchaseOrderRequest is the request body for creating an order
type CreatePurchaseOrderRequest struct {
	CustomerID           string                   `json:"customer_id" binding:"required,uuid"`
	OrderNumber          string                   `json:"order_number"`
	Currency             string                   `json:"currency" binding:"required"`
	Items                []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	CustomerNotes        string                   `json:"customer_notes"`
	RequiredDeliveryDate *time.Time               `json:"required_delivery_date"`
}

// CreateOrderItemRequest is one line item in a create request
type CreateOrderItemRequest struct {
	ProductName         string `json:"product_name" binding:"required"`
	Description         string `json:"description"`
	Quantity            int    `json:"quantity" binding:"required,min=1"`
	UnitPriceMinorUnits int64  `json:"unit_price_minor_units" binding:"required,min=0"`
}

// ToInput converts the request into a service input
func (r CreatePurchaseOrderRequest) ToInput(tenantID uuid.UUID) appprocurement.CreatePurchaseOrderInput {
	items := make([]appprocurement.CreateOrderItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, appprocurement.CreateOrderItemInput{
			ProductName:         item.ProductName,
			Description:         item.Description,
			Quantity:            item.Quantity,
			UnitPriceMinorUnits: item.UnitPriceMinorUnits,
		})
	}
	return appprocurement.CreatePurchaseOrderInput{
		TenantID:             tenantID,
		CustomerID:           uuid.MustParse(r.CustomerID),
		OrderNumber:          r.OrderNumber,
		Currency:             r.Currency,
		Items:                items,
		CustomerNotes:        r.CustomerNotes,
		RequiredDeliveryDate: r.RequiredDeliveryDate,
	}
}

// StartSourcingRequest is the request body for initiating vendor sourcing
type StartSourcingRequest struct {
	Material            string    `json:"material" binding:"required"`
	Quantity            int       `json:"quantity" binding:"required,min=1"`
	QualityTier         string    `json:"quality_tier" binding:"required,oneof=economy standard premium"`
	Deadline            time.Time `json:"deadline" binding:"required"`
	BudgetMinMinorUnits int64     `json:"budget_min_minor_units" binding:"min=0"`
	BudgetMaxMinorUnits int64     `json:"budget_max_minor_units" binding:"required,min=0"`
}

// QuoteRequest is the request body for assigning a vendor or negotiating a
// revised quote
type QuoteRequest struct {
	VendorID              string    `json:"vendor_id" binding:"required,uuid"`
	QuotedPriceMinorUnits int64     `json:"quoted_price_minor_units" binding:"required,min=1"`
	LeadTimeDays          int       `json:"lead_time_days" binding:"required,min=1"`
	QuoteExpiresAt        time.Time `json:"quote_expires_at"`
}

// StartProductionRequest is the request body for moving an order into
// production
type StartProductionRequest struct {
	ProductionPlan map[string]interface{} `json:"production_plan"`
}

// CancelOrderRequest is the request body for cancelling an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RecordPaymentRequest is the request body for recording a customer payment
type RecordPaymentRequest struct {
	AmountMinorUnits int64 `json:"amount_minor_units" binding:"required,min=1"`
}

// OrderItemResponse is one line item of an order response
type OrderItemResponse struct {
	ID          string            `json:"id"`
	ProductName string            `json:"product_name"`
	Description string            `json:"description,omitempty"`
	Quantity    int               `json:"quantity"`
	UnitPrice   valueobject.Money `json:"unit_price"`
	Subtotal    valueobject.Money `json:"subtotal"`
}

// VendorQuoteResponse describes the order's current vendor quote
type VendorQuoteResponse struct {
	ID           string            `json:"id"`
	VendorID     string            `json:"vendor_id"`
	TotalPrice   valueobject.Money `json:"total_price"`
	LeadTimeDays int               `json:"lead_time_days"`
	QuotedAt     time.Time         `json:"quoted_at"`
	ExpiresAt    time.Time         `json:"expires_at"`
	Status       string            `json:"status"`
}

// PurchaseOrderResponse is the API representation of an order
type PurchaseOrderResponse struct {
	ID                   string                 `json:"id"`
	TenantID             string                 `json:"tenant_id"`
	OrderNumber          string                 `json:"order_number"`
	CustomerID           string                 `json:"customer_id"`
	VendorID             *string                `json:"vendor_id,omitempty"`
	Status               string                 `json:"status"`
	PaymentStatus        string                 `json:"payment_status"`
	Currency             string                 `json:"currency"`
	TotalAmount          valueobject.Money      `json:"total_amount"`
	DownPaymentAmount    valueobject.Money      `json:"down_payment_amount"`
	TotalPaidAmount      valueobject.Money      `json:"total_paid_amount"`
	Items                []OrderItemResponse    `json:"items"`
	CurrentQuote         *VendorQuoteResponse   `json:"current_quote,omitempty"`
	QuoteExpiresAt       *time.Time             `json:"quote_expires_at,omitempty"`
	RequiredDeliveryDate *time.Time             `json:"required_delivery_date,omitempty"`
	CustomerNotes        string                 `json:"customer_notes,omitempty"`
	CancelReason         string                 `json:"cancel_reason,omitempty"`
	Metadata             map[string]interface{} `json:"metadata,omitempty"`
	ConfirmedAt          *time.Time             `json:"confirmed_at,omitempty"`
	CompletedAt          *time.Time             `json:"completed_at,omitempty"`
	CancelledAt          *time.Time             `json:"cancelled_at,omitempty"`
	ExpiredAt            *time.Time             `json:"expired_at,omitempty"`
	Version              int                    `json:"version"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// PurchaseOrderFromDomain converts a domain order into its API
// representation
func PurchaseOrderFromDomain(order *procurement.PurchaseOrder) PurchaseOrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID.String(),
			ProductName: item.ProductName,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}

	resp := PurchaseOrderResponse{
		ID:                   order.ID.String(),
		TenantID:             order.TenantID.String(),
		OrderNumber:          order.OrderNumber,
		CustomerID:           order.CustomerID.String(),
		Status:               string(order.Status),
		PaymentStatus:        string(order.PaymentStatus),
		Currency:             string(order.Currency),
		TotalAmount:          order.TotalAmount,
		DownPaymentAmount:    order.DownPaymentAmount,
		TotalPaidAmount:      order.TotalPaidAmount,
		Items:                items,
		QuoteExpiresAt:       order.QuoteExpiresAt,
		RequiredDeliveryDate: order.RequiredDeliveryDate,
		CustomerNotes:        order.CustomerNotes,
		CancelReason:         order.CancelReason,
		Metadata:             order.Metadata,
		ConfirmedAt:          order.ConfirmedAt,
		CompletedAt:          order.CompletedAt,
		CancelledAt:          order.CancelledAt,
		ExpiredAt:            order.ExpiredAt,
		Version:              order.Version,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}

	if order.VendorID != nil {
		vendorID := order.VendorID.String()
		resp.VendorID = &vendorID
	}
	if order.CurrentQuote != nil {
		resp.CurrentQuote = &VendorQuoteResponse{
			ID:           order.CurrentQuote.ID.String(),
			VendorID:     order.CurrentQuote.VendorID.String(),
			TotalPrice:   order.CurrentQuote.TotalPrice,
			LeadTimeDays: order.CurrentQuote.LeadTimeDays,
			QuotedAt:     order.CurrentQuote.QuotedAt,
			ExpiresAt:    order.CurrentQuote.ExpiresAt,
			Status:       string(order.CurrentQuote.Status),
		}
	}

	return resp
}

// PurchaseOrdersFromDomain converts a slice of domain orders
func PurchaseOrdersFromDomain(orders []procurement.PurchaseOrder) []PurchaseOrderResponse {
	out := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, PurchaseOrderFromDomain(&orders[i]))
	}
	return out
}
