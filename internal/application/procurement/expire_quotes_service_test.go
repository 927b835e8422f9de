package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

func newExpireService(orderRepo *MockPurchaseOrderRepository, vendorRepo *MockVendorRepository) *ExpireQuotesService {
	return NewExpireQuotesService(orderRepo, vendorRepo, newTestClock(), zap.NewNop())
}

// newExpirableOrder builds an order in VENDOR_NEGOTIATION whose quote
// lapsed before the test clock's instant.
func newExpirableOrder(t *testing.T) procurement.PurchaseOrder {
	t.Helper()
	order, err := procurement.NewPurchaseOrder(testTenantID, testCustomerID, "PO-"+uuid.NewString()[:8], valueobject.CurrencyIDR)
	assert.NoError(t, err)
	assert.NoError(t, order.AddItem("Etched brass panel", 1, valueobject.MustMoneyFromMinorUnits(5000000, valueobject.CurrencyIDR)))
	assert.NoError(t, order.StartSourcing())

	quotedAt := testNow.Add(-40 * 24 * time.Hour)
	quote, err := procurement.NewVendorQuote(testVendorID,
		valueobject.MustMoneyFromMinorUnits(10000000, valueobject.CurrencyIDR), 14, quotedAt, time.Time{})
	assert.NoError(t, err)
	assert.NoError(t, order.AssignVendor(quote))
	order.ClearDomainEvents()

	assert.True(t, order.IsQuoteExpiredAt(testNow))
	return *order
}

func TestExpireQuotesServiceSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("expires all lapsed quotes for a tenant", func(t *testing.T) {
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		service := newExpireService(orderRepo, vendorRepo)

		candidates := []procurement.PurchaseOrder{newExpirableOrder(t), newExpirableOrder(t)}
		orderRepo.On("FindExpiredQuotes", ctx, &testTenantID, testNow).Return(candidates, nil)
		orderRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*procurement.PurchaseOrder")).Return(nil)

		stats, err := service.ExpireForTenant(ctx, testTenantID)

		assert.NoError(t, err)
		assert.Equal(t, 2, stats.TotalCandidates)
		assert.Equal(t, 2, stats.SuccessExpired)
		assert.Equal(t, 0, stats.FailedExpirations)
		assert.False(t, stats.DryRun)
		orderRepo.AssertNumberOfCalls(t, "SaveWithLock", 2)
	})

	t.Run("sweeps all tenants when unscoped", func(t *testing.T) {
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		service := newExpireService(orderRepo, vendorRepo)

		orderRepo.On("FindExpiredQuotes", ctx, (*uuid.UUID)(nil), testNow).Return([]procurement.PurchaseOrder{}, nil)

		stats, err := service.ExpireAll(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 0, stats.TotalCandidates)
	})

	t.Run("dry run reports candidates without writing", func(t *testing.T) {
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		service := newExpireService(orderRepo, vendorRepo)
		service.SetDryRun(true)

		candidates := []procurement.PurchaseOrder{newExpirableOrder(t)}
		orderRepo.On("FindExpiredQuotes", ctx, &testTenantID, testNow).Return(candidates, nil)

		stats, err := service.ExpireForTenant(ctx, testTenantID)

		assert.NoError(t, err)
		assert.True(t, stats.DryRun)
		assert.Equal(t, 1, stats.TotalCandidates)
		assert.Equal(t, 0, stats.SuccessExpired)
		orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("one failing order does not abort the sweep", func(t *testing.T) {
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		service := newExpireService(orderRepo, vendorRepo)

		failing := newExpirableOrder(t)
		surviving := newExpirableOrder(t)
		orderRepo.On("FindExpiredQuotes", ctx, &testTenantID, testNow).
			Return([]procurement.PurchaseOrder{failing, surviving}, nil)
		orderRepo.On("SaveWithLock", ctx, mock.MatchedBy(func(o *procurement.PurchaseOrder) bool {
			return o.OrderNumber == failing.OrderNumber
		})).Return(shared.ErrConcurrencyConflict)
		orderRepo.On("SaveWithLock", ctx, mock.MatchedBy(func(o *procurement.PurchaseOrder) bool {
			return o.OrderNumber == surviving.OrderNumber
		})).Return(nil)

		stats, err := service.ExpireForTenant(ctx, testTenantID)

		assert.Error(t, err)
		assert.Equal(t, 2, stats.TotalCandidates)
		assert.Equal(t, 1, stats.SuccessExpired)
		assert.Equal(t, 1, stats.FailedExpirations)
	})

	t.Run("expired orders carry the expiry timestamps", func(t *testing.T) {
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		service := newExpireService(orderRepo, vendorRepo)

		var saved *procurement.PurchaseOrder
		orderRepo.On("FindExpiredQuotes", ctx, &testTenantID, testNow).
			Return([]procurement.PurchaseOrder{newExpirableOrder(t)}, nil)
		orderRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*procurement.PurchaseOrder")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*procurement.PurchaseOrder)
			}).Return(nil)

		_, err := service.ExpireForTenant(ctx, testTenantID)

		assert.NoError(t, err)
		assert.Equal(t, procurement.OrderStatusExpired, saved.Status)
		assert.Equal(t, procurement.QuoteStatusExpired, saved.CurrentQuote.Status)
		assert.Equal(t, testNow, *saved.ExpiredAt)
	})

	t.Run("logs the lapsed and effective expiry instants", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		service := NewExpireQuotesService(orderRepo, vendorRepo, newTestClock(), zap.New(core))

		order := newExpirableOrder(t)
		require.NotNil(t, order.QuoteExpiresAt)
		previousExpiry := *order.QuoteExpiresAt

		orderRepo.On("FindExpiredQuotes", ctx, &testTenantID, testNow).
			Return([]procurement.PurchaseOrder{order}, nil)
		orderRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*procurement.PurchaseOrder")).Return(nil)

		_, err := service.ExpireForTenant(ctx, testTenantID)
		require.NoError(t, err)

		var entry *observer.LoggedEntry
		logs := recorded.All()
		for i := range logs {
			if logs[i].Message == "Order quote expired" {
				entry = &logs[i]
				break
			}
		}
		require.NotNil(t, entry)

		fields := entry.ContextMap()
		assert.Equal(t, previousExpiry, fields["previous_expiry"])
		assert.Equal(t, testNow, fields["expired_at"])
	})

	t.Run("notifies the assigned vendor", func(t *testing.T) {
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		notifications := new(MockNotificationService)
		service := newExpireService(orderRepo, vendorRepo)
		service.SetNotificationService(notifications)

		vendor := newTestVendor(t)
		orderRepo.On("FindExpiredQuotes", ctx, &testTenantID, testNow).
			Return([]procurement.PurchaseOrder{newExpirableOrder(t)}, nil)
		orderRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*procurement.PurchaseOrder")).Return(nil)
		vendorRepo.On("FindByID", ctx, testVendorID).Return(vendor, nil)
		notifications.On("SendQuoteExpiredNotification", ctx,
			mock.AnythingOfType("*procurement.PurchaseOrder"), vendor).Return(nil)

		stats, err := service.ExpireForTenant(ctx, testTenantID)

		assert.NoError(t, err)
		assert.Equal(t, 1, stats.SuccessExpired)
		notifications.AssertExpectations(t)
	})

	t.Run("notification failure does not fail the sweep", func(t *testing.T) {
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		notifications := new(MockNotificationService)
		service := newExpireService(orderRepo, vendorRepo)
		service.SetNotificationService(notifications)

		orderRepo.On("FindExpiredQuotes", ctx, &testTenantID, testNow).
			Return([]procurement.PurchaseOrder{newExpirableOrder(t)}, nil)
		orderRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*procurement.PurchaseOrder")).Return(nil)
		vendorRepo.On("FindByID", ctx, testVendorID).Return(newTestVendor(t), nil)
		notifications.On("SendQuoteExpiredNotification", ctx, mock.Anything, mock.Anything).
			Return(assert.AnError)

		stats, err := service.ExpireForTenant(ctx, testTenantID)

		assert.NoError(t, err)
		assert.Equal(t, 1, stats.SuccessExpired)
		assert.Equal(t, 0, stats.FailedExpirations)
	})

	t.Run("rejects the nil tenant", func(t *testing.T) {
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		service := newExpireService(orderRepo, vendorRepo)

		_, err := service.ExpireForTenant(ctx, uuid.Nil)

		assert.Error(t, err)
		orderRepo.AssertNotCalled(t, "FindExpiredQuotes", mock.Anything, mock.Anything, mock.Anything)
	})
}
