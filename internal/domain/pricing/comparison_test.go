package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

func quoteFromVendor(t *testing.T, vendorID uuid.UUID, priceMinor int64, leadTimeDays int) procurement.VendorQuote {
	t.Helper()
	price := valueobject.MustMoneyFromMinorUnits(priceMinor, valueobject.CurrencyIDR)
	quote, err := procurement.NewVendorQuote(vendorID, price, leadTimeDays, testQuotedAt, time.Time{})
	assert.NoError(t, err)
	return quote
}

func TestCompareQuotes(t *testing.T) {
	calc := newTestCalculator()
	complexity := newComplexity(t)
	// standard tier + zero-rate region keeps final price equal to the quote,
	// so ranking is easy to reason about
	customer := newTestCustomer(t, partner.StandardTier(), "us")

	vendor1 := uuid.New()
	vendor2 := uuid.New()
	vendor3 := uuid.New()

	t.Run("orders by price then lead time, stable on full ties", func(t *testing.T) {
		quotes := []procurement.VendorQuote{
			quoteFromVendor(t, vendor1, 100, 5),
			quoteFromVendor(t, vendor2, 80, 3),
			quoteFromVendor(t, vendor3, 80, 7),
		}

		comparison, err := calc.CompareQuotes(quotes, customer, complexity)

		assert.NoError(t, err)
		assert.Len(t, comparison.Ranked, 3)
		assert.Equal(t, vendor2, comparison.Ranked[0].Quote.VendorID)
		assert.Equal(t, vendor3, comparison.Ranked[1].Quote.VendorID)
		assert.Equal(t, vendor1, comparison.Ranked[2].Quote.VendorID)
		assert.Equal(t, 1, comparison.Ranked[0].Rank)
		assert.Equal(t, 2, comparison.Ranked[1].Rank)
		assert.Equal(t, 3, comparison.Ranked[2].Rank)
	})

	t.Run("preserves response order when price and lead time tie", func(t *testing.T) {
		first := quoteFromVendor(t, vendor1, 80, 3)
		second := quoteFromVendor(t, vendor2, 80, 3)

		comparison, err := calc.CompareQuotes([]procurement.VendorQuote{first, second}, customer, complexity)

		assert.NoError(t, err)
		assert.Equal(t, first.ID, comparison.Ranked[0].Quote.ID)
		assert.Equal(t, second.ID, comparison.Ranked[1].Quote.ID)
	})

	t.Run("computes min max average and spread", func(t *testing.T) {
		quotes := []procurement.VendorQuote{
			quoteFromVendor(t, vendor1, 100, 5),
			quoteFromVendor(t, vendor2, 80, 3),
			quoteFromVendor(t, vendor3, 80, 7),
		}

		comparison, err := calc.CompareQuotes(quotes, customer, complexity)

		assert.NoError(t, err)
		insights := comparison.Insights
		assert.Equal(t, int64(80), insights.MinFinalPrice.AmountMinorUnits())
		assert.Equal(t, int64(100), insights.MaxFinalPrice.AmountMinorUnits())
		// (100+80+80)/3 = 86.67, rounded to 87
		assert.Equal(t, int64(87), insights.AverageFinalPrice.AmountMinorUnits())
		// (100-80)/100*100 = 20 -> neither wide nor tight
		assert.True(t, insights.SpreadPercent.Equal(decimal.NewFromInt(20)))
		assert.Empty(t, insights.Recommendation)
	})

	t.Run("recommends negotiation on wide spread", func(t *testing.T) {
		quotes := []procurement.VendorQuote{
			quoteFromVendor(t, vendor1, 100, 5),
			quoteFromVendor(t, vendor2, 50, 3),
		}

		comparison, err := calc.CompareQuotes(quotes, customer, complexity)

		assert.NoError(t, err)
		assert.Equal(t, RecommendationNegotiate, comparison.Insights.Recommendation)
	})

	t.Run("recommends lead time on tight cluster", func(t *testing.T) {
		quotes := []procurement.VendorQuote{
			quoteFromVendor(t, vendor1, 100, 5),
			quoteFromVendor(t, vendor2, 99, 3),
		}

		comparison, err := calc.CompareQuotes(quotes, customer, complexity)

		assert.NoError(t, err)
		assert.Equal(t, RecommendationLeadTime, comparison.Insights.Recommendation)
	})

	t.Run("zero max yields zero spread", func(t *testing.T) {
		quotes := []procurement.VendorQuote{
			quoteFromVendor(t, vendor1, 0, 5),
			quoteFromVendor(t, vendor2, 0, 3),
		}

		comparison, err := calc.CompareQuotes(quotes, customer, complexity)

		assert.NoError(t, err)
		assert.True(t, comparison.Insights.SpreadPercent.IsZero())
		assert.Equal(t, RecommendationLeadTime, comparison.Insights.Recommendation)
	})

	t.Run("fails on empty quote set", func(t *testing.T) {
		_, err := calc.CompareQuotes(nil, customer, complexity)
		assert.Error(t, err)
	})
}
