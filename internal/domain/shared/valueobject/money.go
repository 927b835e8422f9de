package valueobject

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/procureflow/backend/internal/domain/shared"
)

// Currency represents an ISO 4217 currency code
type Currency string

// Supported currencies
const (
	CurrencyIDR Currency = "IDR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencySGD Currency = "SGD"
)

// minorUnitDigits maps a currency to the number of digits after the
// decimal point in its major-unit representation.
var minorUnitDigits = map[Currency]int32{
	CurrencyIDR: 2,
	CurrencyUSD: 2,
	CurrencyEUR: 2,
	CurrencySGD: 2,
}

// IsValid returns true if the currency is one of the supported codes
func (c Currency) IsValid() bool {
	_, ok := minorUnitDigits[c]
	return ok
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// Money is a value object representing an exact, currency-tagged monetary
// amount. The amount is an integer count of minor currency units; there is
// no floating point anywhere in the arithmetic. Money is immutable - all
// operations return new Money instances.
//
// Arithmetic between two Money values requires equal currencies and fails
// with a CURRENCY_MISMATCH error otherwise. Negative amounts are
// constructible; consumers that require non-negative values reject them at
// the point of use.
type Money struct {
	amount   int64
	currency Currency
}

// NewMoneyFromMinorUnits creates Money from an integer amount of minor units
func NewMoneyFromMinorUnits(amount int64, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency: %s", currency))
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromMajorUnits creates Money from a major-unit decimal amount
// (e.g., 50000.00 IDR). Fails if the amount has more fractional digits than
// the currency supports, since that would silently lose precision.
func NewMoneyFromMajorUnits(amount decimal.Decimal, currency Currency) (Money, error) {
	digits, ok := minorUnitDigits[currency]
	if !ok {
		return Money{}, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency: %s", currency))
	}
	scaled := amount.Shift(digits)
	if !scaled.IsInteger() {
		return Money{}, shared.NewDomainError("INVALID_AMOUNT",
			fmt.Sprintf("Amount %s has sub-minor-unit precision for %s", amount.String(), currency))
	}
	return Money{amount: scaled.IntPart(), currency: currency}, nil
}

// MustMoneyFromMinorUnits creates Money, panicking on error.
// Use only for static values known to be valid.
func MustMoneyFromMinorUnits(amount int64, currency Currency) Money {
	m, err := NewMoneyFromMinorUnits(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero amount in the given currency
func ZeroMoney(currency Currency) Money {
	return Money{amount: 0, currency: currency}
}

// AmountMinorUnits returns the amount as an integer count of minor units
func (m Money) AmountMinorUnits() int64 {
	return m.amount
}

// AmountMajorUnits returns the amount as a major-unit decimal
func (m Money) AmountMajorUnits() decimal.Decimal {
	return decimal.New(m.amount, -minorUnitDigits[m.currency])
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount == 0
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount < 0
}

// IsPositive returns true if the amount is greater than zero
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// SameCurrency returns true if both values share a currency
func (m Money) SameCurrency(other Money) bool {
	return m.currency == other.currency
}

func (m Money) requireSameCurrency(other Money) error {
	if m.currency != other.currency {
		return shared.NewDomainError("CURRENCY_MISMATCH",
			fmt.Sprintf("Cannot operate on money with different currencies: %s and %s", m.currency, other.currency))
	}
	return nil
}

// Add returns the sum of two Money values
func (m Money) Add(other Money) (Money, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract returns the difference of two Money values
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// Multiply returns the amount multiplied by an integer scalar
func (m Money) Multiply(factor int64) Money {
	return Money{amount: m.amount * factor, currency: m.currency}
}

// MultiplyRate multiplies the amount by a decimal rate, rounding half-up to
// the nearest minor unit. Used for percentage-based discount and tax rules.
func (m Money) MultiplyRate(rate decimal.Decimal) Money {
	scaled := decimal.NewFromInt(m.amount).Mul(rate).Round(0)
	return Money{amount: scaled.IntPart(), currency: m.currency}
}

// Negate returns the amount with its sign flipped
func (m Money) Negate() Money {
	return Money{amount: -m.amount, currency: m.currency}
}

// Compare returns -1, 0 or 1 when m is less than, equal to or greater than
// other. Fails on currency mismatch.
func (m Money) Compare(other Money) (int, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return 0, err
	}
	switch {
	case m.amount < other.amount:
		return -1, nil
	case m.amount > other.amount:
		return 1, nil
	default:
		return 0, nil
	}
}

// Equals returns true if amount and currency are both equal
func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

// LessThan returns true if m is strictly less than other
func (m Money) LessThan(other Money) (bool, error) {
	c, err := m.Compare(other)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

// String returns a human-readable representation, e.g. "IDR 100000.00"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.currency, m.AmountMajorUnits().StringFixed(minorUnitDigits[m.currency]))
}

// moneyJSON is the JSON representation of Money
type moneyJSON struct {
	AmountMinorUnits int64  `json:"amount_minor_units"`
	Currency         string `json:"currency"`
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		AmountMinorUnits: m.amount,
		Currency:         string(m.currency),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewMoneyFromMinorUnits(v.AmountMinorUnits, Currency(v.Currency))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
