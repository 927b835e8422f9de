package procurement

import (
	"context"

	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/procurement"
)

// NotificationService delivers out-of-band notifications to interested
// parties. Delivery is fire-and-forget from the use case's perspective:
// failures are logged by the caller and never roll back a transition.
type NotificationService interface {
	// SendQuoteExpiredNotification notifies that an order's quote expired.
	// vendor is nil when the order had no vendor assigned yet.
	SendQuoteExpiredNotification(ctx context.Context, order *procurement.PurchaseOrder, vendor *partner.Vendor) error
}

// Metrics records business-level counters for the procurement use cases.
// Implementations must be safe for concurrent use.
type Metrics interface {
	OrderCreated(ctx context.Context)
	VendorAssigned(ctx context.Context)
	QuoteNegotiated(ctx context.Context)
	QuotesExpired(ctx context.Context, count int)
}
