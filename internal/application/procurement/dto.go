package procurement

import (
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/backend/internal/domain/procurement"
)

// CreateOrderItemInput is one line item of a create request
type CreateOrderItemInput struct {
	ProductName         string
	Description         string
	Quantity            int
	UnitPriceMinorUnits int64
}

// CreatePurchaseOrderInput carries everything needed to create an order.
// OrderNumber is optional; when empty the repository generates one.
type CreatePurchaseOrderInput struct {
	TenantID             uuid.UUID
	CustomerID           uuid.UUID
	OrderNumber          string
	Currency             string
	Items                []CreateOrderItemInput
	CustomerNotes        string
	RequiredDeliveryDate *time.Time
}

// StartSourcingInput carries the sourcing requirements captured when
// vendor sourcing is initiated
type StartSourcingInput struct {
	TenantID            uuid.UUID
	OrderID             uuid.UUID
	Material            string
	Quantity            int
	QualityTier         string
	Deadline            time.Time
	BudgetMinMinorUnits int64
	BudgetMaxMinorUnits int64
}

// OrderStatusSummary aggregates order counts per status for a tenant
type OrderStatusSummary struct {
	TenantID uuid.UUID                         `json:"tenant_id"`
	Counts   map[procurement.OrderStatus]int64 `json:"counts"`
}
