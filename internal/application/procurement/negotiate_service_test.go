package procurement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/procureflow/backend/internal/domain/procurement"
)

func newNegotiateService(orderRepo *MockPurchaseOrderRepository, vendorRepo *MockVendorRepository) *NegotiateService {
	return NewNegotiateService(orderRepo, vendorRepo, newTestClock(), zap.NewNop())
}

func validNegotiateInput(orderID uuid.UUID) NegotiateInput {
	return NegotiateInput{
		TenantID:              testTenantID,
		OrderID:               orderID,
		VendorID:              testVendorID,
		QuotedPriceMinorUnits: 9500000,
		LeadTimeDays:          10,
	}
}

func TestNegotiateServiceExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("revised quote supersedes the current one", func(t *testing.T) {
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		service := newNegotiateService(orderRepo, vendorRepo)

		order := newTestOrder(t, procurement.OrderStatusVendorNegotiation)
		previousQuoteID := order.CurrentQuote.ID
		orderRepo.On("FindByIDForTenant", ctx, testTenantID, order.ID).Return(order, nil)
		vendorRepo.On("FindByID", ctx, testVendorID).Return(newTestVendor(t), nil)
		orderRepo.On("SaveWithLock", ctx, order).Return(nil)

		result, err := service.Execute(ctx, validNegotiateInput(order.ID))

		assert.NoError(t, err)
		assert.Equal(t, procurement.OrderStatusVendorNegotiation, result.Status)
		assert.NotEqual(t, previousQuoteID, result.CurrentQuote.ID)
		assert.Equal(t, int64(9500000), result.CurrentQuote.TotalPrice.AmountMinorUnits())
		assert.Equal(t, 10, result.CurrentQuote.LeadTimeDays)
	})

	t.Run("negotiation is allowed directly from sourcing", func(t *testing.T) {
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		service := newNegotiateService(orderRepo, vendorRepo)

		order := newTestOrder(t, procurement.OrderStatusVendorSourcing)
		orderRepo.On("FindByIDForTenant", ctx, testTenantID, order.ID).Return(order, nil)
		vendorRepo.On("FindByID", ctx, testVendorID).Return(newTestVendor(t), nil)
		orderRepo.On("SaveWithLock", ctx, order).Return(nil)

		result, err := service.Execute(ctx, validNegotiateInput(order.ID))

		assert.NoError(t, err)
		assert.Equal(t, procurement.OrderStatusVendorNegotiation, result.Status)
	})

	t.Run("zero lead time fails before any repository access", func(t *testing.T) {
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		service := newNegotiateService(orderRepo, vendorRepo)

		input := validNegotiateInput(uuid.New())
		input.LeadTimeDays = 0
		_, err := service.Execute(ctx, input)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Lead time must be greater than zero")
		orderRepo.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("negative price fails before any repository access", func(t *testing.T) {
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		service := newNegotiateService(orderRepo, vendorRepo)

		input := validNegotiateInput(uuid.New())
		input.QuotedPriceMinorUnits = -1
		_, err := service.Execute(ctx, input)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Quoted price cannot be negative")
		orderRepo.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects confirmed orders", func(t *testing.T) {
		orderRepo := new(MockPurchaseOrderRepository)
		vendorRepo := new(MockVendorRepository)
		service := newNegotiateService(orderRepo, vendorRepo)

		order := newTestOrder(t, procurement.OrderStatusVendorNegotiation)
		assert.NoError(t, order.Confirm(testNow))
		orderRepo.On("FindByIDForTenant", ctx, testTenantID, order.ID).Return(order, nil)

		_, err := service.Execute(ctx, validNegotiateInput(order.ID))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not allow negotiation")
		vendorRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}
