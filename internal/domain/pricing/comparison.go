package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

// Spread thresholds driving the qualitative recommendation
var (
	wideSpreadThreshold  = decimal.NewFromInt(20)
	tightSpreadThreshold = decimal.NewFromInt(5)
)

// Recommendation texts
const (
	RecommendationNegotiate = "Price spread is wide; negotiate with the lowest-priced vendors before committing"
	RecommendationLeadTime  = "Prices are tightly clustered; let lead time drive the decision"
)

// RankedQuote pairs a vendor quote with its customer pricing and its rank
// in the comparison (1 = best).
type RankedQuote struct {
	Rank    int
	Quote   procurement.VendorQuote
	Pricing PricingStructure
}

// ComparisonInsights carries the aggregate metrics across all compared
// quotes. SpreadPercent is (max-min)/max*100, zero when max is zero.
type ComparisonInsights struct {
	MinFinalPrice     valueobject.Money
	MaxFinalPrice     valueobject.Money
	AverageFinalPrice valueobject.Money
	SpreadPercent     decimal.Decimal
	Recommendation    string
}

// QuoteComparison is the result of pricing and ranking a set of vendor
// quotes for one order and one customer/complexity pair.
type QuoteComparison struct {
	Ranked   []RankedQuote
	Insights ComparisonInsights
}

// CompareQuotes prices every quote for the customer and orders the results
// ascending by final price. Ties break on lower lead time; remaining ties
// preserve the original vendor response order (the sort is stable).
func (c *Calculator) CompareQuotes(quotes []procurement.VendorQuote, customer *partner.Customer, complexity procurement.OrderComplexity) (QuoteComparison, error) {
	if len(quotes) == 0 {
		return QuoteComparison{}, shared.NewDomainError("INVALID_PRICING_INPUT", "At least one quote is required for comparison")
	}

	ranked := make([]RankedQuote, 0, len(quotes))
	for _, quote := range quotes {
		structure, err := c.CalculateCustomerPricing(quote, customer, complexity)
		if err != nil {
			return QuoteComparison{}, err
		}
		ranked = append(ranked, RankedQuote{Quote: quote, Pricing: structure})
	}

	currency := ranked[0].Pricing.Currency()
	for _, r := range ranked[1:] {
		if r.Pricing.Currency() != currency {
			return QuoteComparison{}, shared.NewDomainError("CURRENCY_MISMATCH", "Compared quotes must share one currency")
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		pi := ranked[i].Pricing.FinalPrice.AmountMinorUnits()
		pj := ranked[j].Pricing.FinalPrice.AmountMinorUnits()
		if pi != pj {
			return pi < pj
		}
		return ranked[i].Quote.LeadTimeDays < ranked[j].Quote.LeadTimeDays
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	insights, err := computeInsights(ranked, currency)
	if err != nil {
		return QuoteComparison{}, err
	}

	return QuoteComparison{Ranked: ranked, Insights: insights}, nil
}

func computeInsights(ranked []RankedQuote, currency valueobject.Currency) (ComparisonInsights, error) {
	min := ranked[0].Pricing.FinalPrice
	max := ranked[len(ranked)-1].Pricing.FinalPrice

	var total int64
	for _, r := range ranked {
		total += r.Pricing.FinalPrice.AmountMinorUnits()
	}
	avgMinor := decimal.NewFromInt(total).
		Div(decimal.NewFromInt(int64(len(ranked)))).
		Round(0).IntPart()
	avg, err := valueobject.NewMoneyFromMinorUnits(avgMinor, currency)
	if err != nil {
		return ComparisonInsights{}, err
	}

	spread := decimal.Zero
	if max.AmountMinorUnits() != 0 {
		spread = decimal.NewFromInt(max.AmountMinorUnits() - min.AmountMinorUnits()).
			Div(decimal.NewFromInt(max.AmountMinorUnits())).
			Mul(decimal.NewFromInt(100))
	}

	recommendation := ""
	switch {
	case spread.GreaterThan(wideSpreadThreshold):
		recommendation = RecommendationNegotiate
	case spread.LessThan(tightSpreadThreshold):
		recommendation = RecommendationLeadTime
	}

	return ComparisonInsights{
		MinFinalPrice:     min,
		MaxFinalPrice:     max,
		AverageFinalPrice: avg,
		SpreadPercent:     spread,
		Recommendation:    recommendation,
	}, nil
}
