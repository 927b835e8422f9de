package procurement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

var (
	testTenantID   = uuid.New()
	testCustomerID = uuid.New()
	testVendorID   = uuid.New()
	testNow        = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
)

func createTestOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(testTenantID, testCustomerID, "PO-20260315-0001", valueobject.CurrencyIDR)
	assert.NoError(t, err)

	unitPrice := valueobject.MustMoneyFromMinorUnits(5000000, valueobject.CurrencyIDR)
	assert.NoError(t, order.AddItem("Etched brass panel", 2, unitPrice))
	return order
}

func createTestQuote(t *testing.T, priceMinor int64, leadTimeDays int) VendorQuote {
	t.Helper()
	price := valueobject.MustMoneyFromMinorUnits(priceMinor, valueobject.CurrencyIDR)
	quote, err := NewVendorQuote(testVendorID, price, leadTimeDays, testNow, time.Time{})
	assert.NoError(t, err)
	return quote
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates order in PENDING with zero totals", func(t *testing.T) {
		order, err := NewPurchaseOrder(testTenantID, testCustomerID, "PO-1", valueobject.CurrencyIDR)

		assert.NoError(t, err)
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.Equal(t, PaymentStatusUnpaid, order.PaymentStatus)
		assert.True(t, order.TotalAmount.IsZero())
		assert.Nil(t, order.VendorID)
		assert.Equal(t, 1, order.Version)

		events := order.GetDomainEvents()
		assert.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderCreated, events[0].EventType())
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewPurchaseOrder(testTenantID, testCustomerID, "  ", valueobject.CurrencyIDR)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "Order number cannot be empty", domainErr.Message)
	})

	t.Run("rejects nil customer", func(t *testing.T) {
		_, err := NewPurchaseOrder(testTenantID, uuid.Nil, "PO-1", valueobject.CurrencyIDR)
		assert.Error(t, err)
	})

	t.Run("rejects unsupported currency", func(t *testing.T) {
		_, err := NewPurchaseOrder(testTenantID, testCustomerID, "PO-1", valueobject.Currency("XXX"))
		assert.Error(t, err)
	})
}

func TestPurchaseOrderAddItem(t *testing.T) {
	t.Run("accumulates total from item subtotals", func(t *testing.T) {
		order := createTestOrder(t)

		// 2 x 50000.00 IDR
		assert.Equal(t, int64(10000000), order.TotalAmount.AmountMinorUnits())
		assert.Equal(t, valueobject.CurrencyIDR, order.TotalAmount.Currency())
	})

	t.Run("rejects item with mismatched currency", func(t *testing.T) {
		order := createTestOrder(t)
		usd := valueobject.MustMoneyFromMinorUnits(100, valueobject.CurrencyUSD)

		err := order.AddItem("Widget", 1, usd)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CURRENCY_MISMATCH", domainErr.Code)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		order := createTestOrder(t)
		price := valueobject.MustMoneyFromMinorUnits(100, valueobject.CurrencyIDR)

		assert.Error(t, order.AddItem("Widget", 0, price))
	})

	t.Run("rejects items after sourcing begins", func(t *testing.T) {
		order := createTestOrder(t)
		assert.NoError(t, order.StartSourcing())

		price := valueobject.MustMoneyFromMinorUnits(100, valueobject.CurrencyIDR)
		assert.Error(t, order.AddItem("Widget", 1, price))
	})
}

func TestPurchaseOrderLifecycle(t *testing.T) {
	t.Run("walks the happy path to COMPLETED", func(t *testing.T) {
		order := createTestOrder(t)

		assert.NoError(t, order.StartSourcing())
		assert.Equal(t, OrderStatusVendorSourcing, order.Status)

		quote := createTestQuote(t, 10000000, 14)
		assert.NoError(t, order.AssignVendor(quote))
		assert.Equal(t, OrderStatusVendorNegotiation, order.Status)
		assert.NotNil(t, order.VendorID)
		assert.Equal(t, testVendorID, *order.VendorID)
		assert.NotNil(t, order.QuoteExpiresAt)

		assert.NoError(t, order.Confirm(testNow))
		assert.Equal(t, OrderStatusConfirmed, order.Status)
		assert.Equal(t, QuoteStatusAccepted, order.CurrentQuote.Status)
		assert.Equal(t, 14, order.Timeline.DurationInDays())

		assert.NoError(t, order.StartProduction(map[string]interface{}{"stations": 3}))
		assert.Equal(t, OrderStatusInProduction, order.Status)
		assert.Equal(t, map[string]interface{}{"stations": 3}, order.MetadataDocument(MetadataKeyProductionPlan))

		assert.NoError(t, order.Complete(testNow.AddDate(0, 0, 14)))
		assert.Equal(t, OrderStatusCompleted, order.Status)
		assert.True(t, order.IsTerminal())
	})

	t.Run("sourcing requires items", func(t *testing.T) {
		order, err := NewPurchaseOrder(testTenantID, testCustomerID, "PO-empty", valueobject.CurrencyIDR)
		assert.NoError(t, err)

		err = order.StartSourcing()
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_ORDER", domainErr.Code)
	})

	t.Run("vendor assignment requires sourcing status", func(t *testing.T) {
		order := createTestOrder(t)
		quote := createTestQuote(t, 10000000, 14)

		err := order.AssignVendor(quote)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Contains(t, domainErr.Message, "does not allow vendor assignment")
		assert.Equal(t, OrderStatusPending, order.Status)
		assert.Nil(t, order.VendorID)
	})

	t.Run("assignment rejected on terminal order without mutation", func(t *testing.T) {
		order := createTestOrder(t)
		assert.NoError(t, order.Cancel("customer withdrew", testNow))

		err := order.AssignVendor(createTestQuote(t, 100, 5))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not allow vendor assignment")
		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.Nil(t, order.VendorID)
	})

	t.Run("negotiation allowed from sourcing and negotiation only", func(t *testing.T) {
		order := createTestOrder(t)
		quote := createTestQuote(t, 9000000, 10)

		err := order.Negotiate(quote)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not allow negotiation")

		assert.NoError(t, order.StartSourcing())
		assert.NoError(t, order.Negotiate(quote))
		assert.Equal(t, OrderStatusVendorNegotiation, order.Status)

		// re-quoting stays in negotiation and supersedes the current quote
		requote := createTestQuote(t, 8500000, 12)
		assert.NoError(t, order.Negotiate(requote))
		assert.Equal(t, OrderStatusVendorNegotiation, order.Status)
		assert.Equal(t, int64(8500000), order.CurrentQuote.TotalPrice.AmountMinorUnits())
		assert.Equal(t, 12, order.CurrentQuote.LeadTimeDays)
	})

	t.Run("negotiation requires positive lead time", func(t *testing.T) {
		order := createTestOrder(t)
		assert.NoError(t, order.StartSourcing())

		quote := createTestQuote(t, 9000000, 0)
		err := order.Negotiate(quote)

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "Lead time must be greater than zero", domainErr.Message)
	})

	t.Run("confirmation requires an accepted quote", func(t *testing.T) {
		order := createTestOrder(t)
		assert.NoError(t, order.StartSourcing())

		err := order.Confirm(testNow)
		assert.Error(t, err)
	})

	t.Run("cancel allowed from any non-terminal status", func(t *testing.T) {
		order := createTestOrder(t)
		assert.NoError(t, order.StartSourcing())
		assert.NoError(t, order.AssignVendor(createTestQuote(t, 100, 5)))

		assert.NoError(t, order.Cancel("vendor pulled out", testNow))
		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.Equal(t, "vendor pulled out", order.CancelReason)

		err := order.Cancel("again", testNow)
		assert.Error(t, err)
	})
}

func TestPurchaseOrderExpire(t *testing.T) {
	t.Run("expires from sourcing", func(t *testing.T) {
		order := createTestOrder(t)
		assert.NoError(t, order.StartSourcing())

		assert.NoError(t, order.Expire(testNow))
		assert.Equal(t, OrderStatusExpired, order.Status)
		assert.NotNil(t, order.ExpiredAt)
	})

	t.Run("expires from negotiation and marks quote expired", func(t *testing.T) {
		order := createTestOrder(t)
		assert.NoError(t, order.StartSourcing())
		assert.NoError(t, order.AssignVendor(createTestQuote(t, 100, 5)))

		assert.NoError(t, order.Expire(testNow))
		assert.Equal(t, OrderStatusExpired, order.Status)
		assert.Equal(t, QuoteStatusExpired, order.CurrentQuote.Status)

		events := order.GetDomainEvents()
		last := events[len(events)-1]
		assert.Equal(t, EventTypeQuoteExpired, last.EventType())
	})

	t.Run("refuses to expire confirmed orders", func(t *testing.T) {
		order := createTestOrder(t)
		assert.NoError(t, order.StartSourcing())
		assert.NoError(t, order.AssignVendor(createTestQuote(t, 100, 5)))
		assert.NoError(t, order.Confirm(testNow))

		err := order.Expire(testNow)
		assert.Error(t, err)
		assert.Equal(t, OrderStatusConfirmed, order.Status)
	})

	t.Run("quote expiry predicate uses the injected instant", func(t *testing.T) {
		order := createTestOrder(t)
		assert.NoError(t, order.StartSourcing())
		assert.NoError(t, order.AssignVendor(createTestQuote(t, 100, 5)))

		assert.False(t, order.IsQuoteExpiredAt(testNow))
		assert.True(t, order.IsQuoteExpiredAt(testNow.Add(DefaultQuoteValidity+time.Hour)))
	})
}

func TestPurchaseOrderPayments(t *testing.T) {
	t.Run("tracks partial and full payment", func(t *testing.T) {
		order := createTestOrder(t) // total 10000000

		half := valueobject.MustMoneyFromMinorUnits(5000000, valueobject.CurrencyIDR)
		assert.NoError(t, order.RecordPayment(half))
		assert.Equal(t, PaymentStatusDownPaymentPaid, order.PaymentStatus)

		assert.NoError(t, order.RecordPayment(half))
		assert.Equal(t, PaymentStatusFullyPaid, order.PaymentStatus)
		assert.Equal(t, int64(10000000), order.TotalPaidAmount.AmountMinorUnits())
	})

	t.Run("rejects non-positive payments", func(t *testing.T) {
		order := createTestOrder(t)
		zero := valueobject.ZeroMoney(valueobject.CurrencyIDR)

		assert.Error(t, order.RecordPayment(zero))
	})

	t.Run("rejects payment in a different currency", func(t *testing.T) {
		order := createTestOrder(t)
		usd := valueobject.MustMoneyFromMinorUnits(100, valueobject.CurrencyUSD)

		assert.Error(t, order.RecordPayment(usd))
	})
}

func TestOrderStatusTransitions(t *testing.T) {
	t.Run("terminal statuses allow nothing", func(t *testing.T) {
		for _, s := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled, OrderStatusExpired} {
			assert.True(t, s.IsTerminal(), s)
			for _, target := range []OrderStatus{
				OrderStatusPending, OrderStatusVendorSourcing, OrderStatusVendorNegotiation,
				OrderStatusConfirmed, OrderStatusInProduction, OrderStatusCompleted,
				OrderStatusCancelled, OrderStatusExpired,
			} {
				assert.False(t, s.CanTransitionTo(target), "%s -> %s", s, target)
			}
		}
	})

	t.Run("expirable statuses", func(t *testing.T) {
		assert.True(t, OrderStatusVendorSourcing.IsExpirable())
		assert.True(t, OrderStatusVendorNegotiation.IsExpirable())
		assert.False(t, OrderStatusPending.IsExpirable())
		assert.False(t, OrderStatusConfirmed.IsExpirable())
	})

	t.Run("assignment only from sourcing", func(t *testing.T) {
		assert.True(t, OrderStatusVendorSourcing.AllowsVendorAssignment())
		assert.False(t, OrderStatusVendorNegotiation.AllowsVendorAssignment())
		assert.False(t, OrderStatusPending.AllowsVendorAssignment())
	})
}

func TestPurchaseOrderMetadata(t *testing.T) {
	t.Run("sub-documents are versioned and opaque", func(t *testing.T) {
		order := createTestOrder(t)
		order.SetMetadataDocument(MetadataKeySourcing, map[string]interface{}{"material": "brass"})

		doc := order.MetadataDocument(MetadataKeySourcing)
		assert.Equal(t, "brass", doc["material"])

		wrapper := order.Metadata[MetadataKeySourcing].(map[string]interface{})
		assert.Equal(t, 1, wrapper["version"])
	})

	t.Run("missing document returns nil", func(t *testing.T) {
		order := createTestOrder(t)
		assert.Nil(t, order.MetadataDocument("unknown"))
	})
}
