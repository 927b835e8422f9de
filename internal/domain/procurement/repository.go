package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the persistence interface for purchase
// orders. Writes on an order that may race with the expiration sweep go
// through SaveWithLock, which enforces optimistic concurrency on the
// aggregate version.
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by its ID across tenants
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForTenant finds a purchase order by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds a purchase order by order number within a tenant
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrder, error)

	// FindByStatus finds purchase orders by status within a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status OrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// FindAllForTenant finds purchase orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindExpiredQuotes finds orders in an expirable status whose quote
	// expiry is before the given instant. A nil tenantID sweeps all tenants.
	FindExpiredQuotes(ctx context.Context, tenantID *uuid.UUID, before time.Time) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock updates a purchase order with an optimistic version check.
	// Returns shared.ErrConcurrencyConflict semantics via a domain error when
	// the stored version no longer matches the aggregate's version.
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// Delete removes a purchase order
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByStatus counts orders in a status within a tenant
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status OrderStatus) (int64, error)

	// ExistsByOrderNumber checks if an order number is already used within a
	// tenant
	ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error)

	// GenerateOrderNumber generates the next unique order number for a tenant
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
