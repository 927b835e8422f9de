package partner

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Standard customer tier codes
const (
	CustomerTierCodeStandard = "standard"
	CustomerTierCodeSilver   = "silver"
	CustomerTierCodeGold     = "gold"
	CustomerTierCodePlatinum = "platinum"
	CustomerTierCodeVIP      = "vip"
)

// CustomerTier is a Value Object representing a customer's commercial tier.
// It encapsulates the tier code, display name, and the percentage discount
// the tier earns on the vendor-side base cost. CustomerTier is immutable.
type CustomerTier struct {
	code         string
	name         string
	discountRate decimal.Decimal
}

// NewCustomerTier creates a new CustomerTier with the specified code, name,
// and discount rate. The discount rate is a decimal between 0 and 1
// (e.g., 0.05 for 5%).
func NewCustomerTier(code, name string, discountRate decimal.Decimal) (CustomerTier, error) {
	if code == "" {
		return CustomerTier{}, errors.New("customer tier code cannot be empty")
	}
	if name == "" {
		return CustomerTier{}, errors.New("customer tier name cannot be empty")
	}
	if discountRate.IsNegative() {
		return CustomerTier{}, errors.New("discount rate cannot be negative")
	}
	if discountRate.GreaterThan(decimal.NewFromInt(1)) {
		return CustomerTier{}, errors.New("discount rate cannot exceed 1 (100%)")
	}

	return CustomerTier{
		code:         code,
		name:         name,
		discountRate: discountRate,
	}, nil
}

// Predefined standard tiers with default discount rates

// StandardTier returns the baseline tier (0% discount)
func StandardTier() CustomerTier {
	return CustomerTier{
		code:         CustomerTierCodeStandard,
		name:         "Standard",
		discountRate: decimal.Zero,
	}
}

// SilverTier returns the silver tier (3% discount)
func SilverTier() CustomerTier {
	return CustomerTier{
		code:         CustomerTierCodeSilver,
		name:         "Silver",
		discountRate: decimal.NewFromFloat(0.03),
	}
}

// GoldTier returns the gold tier (5% discount)
func GoldTier() CustomerTier {
	return CustomerTier{
		code:         CustomerTierCodeGold,
		name:         "Gold",
		discountRate: decimal.NewFromFloat(0.05),
	}
}

// PlatinumTier returns the platinum tier (8% discount)
func PlatinumTier() CustomerTier {
	return CustomerTier{
		code:         CustomerTierCodePlatinum,
		name:         "Platinum",
		discountRate: decimal.NewFromFloat(0.08),
	}
}

// VIPTier returns the VIP tier (10% discount)
func VIPTier() CustomerTier {
	return CustomerTier{
		code:         CustomerTierCodeVIP,
		name:         "VIP",
		discountRate: decimal.NewFromFloat(0.10),
	}
}

// DefaultTiers returns all standard tiers in ascending order of discount
func DefaultTiers() []CustomerTier {
	return []CustomerTier{
		StandardTier(),
		SilverTier(),
		GoldTier(),
		PlatinumTier(),
		VIPTier(),
	}
}

// TierFromCode resolves one of the standard tiers by its code
func TierFromCode(code string) (CustomerTier, error) {
	for _, tier := range DefaultTiers() {
		if tier.code == code {
			return tier, nil
		}
	}
	return CustomerTier{}, fmt.Errorf("unknown customer tier code: %s", code)
}

// Code returns the tier code
func (t CustomerTier) Code() string {
	return t.code
}

// Name returns the tier display name
func (t CustomerTier) Name() string {
	return t.name
}

// DiscountRate returns the discount rate as a decimal (e.g., 0.05 for 5%)
func (t CustomerTier) DiscountRate() decimal.Decimal {
	return t.discountRate
}

// DiscountPercent returns the discount rate as a percentage (e.g., 5 for 5%)
func (t CustomerTier) DiscountPercent() decimal.Decimal {
	return t.discountRate.Mul(decimal.NewFromInt(100))
}

// HasDiscount returns true if this tier earns any discount
func (t CustomerTier) HasDiscount() bool {
	return t.discountRate.GreaterThan(decimal.Zero)
}

// Equals returns true if two CustomerTier values are equal
func (t CustomerTier) Equals(other CustomerTier) bool {
	return t.code == other.code &&
		t.name == other.name &&
		t.discountRate.Equal(other.discountRate)
}

// IsEmpty returns true if this is a zero CustomerTier
func (t CustomerTier) IsEmpty() bool {
	return t.code == "" && t.name == "" && t.discountRate.IsZero()
}

// String returns a string representation of the tier
func (t CustomerTier) String() string {
	return fmt.Sprintf("%s (%s, %.1f%% discount)", t.name, t.code, t.DiscountPercent().InexactFloat64())
}

// customerTierJSON is the JSON representation of CustomerTier
type customerTierJSON struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	DiscountRate string `json:"discount_rate"`
}

// MarshalJSON implements json.Marshaler
func (t CustomerTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(customerTierJSON{
		Code:         t.code,
		Name:         t.name,
		DiscountRate: t.discountRate.String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (t *CustomerTier) UnmarshalJSON(data []byte) error {
	var v customerTierJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	rate, err := decimal.NewFromString(v.DiscountRate)
	if err != nil {
		return fmt.Errorf("invalid discount rate: %w", err)
	}

	t.code = v.Code
	t.name = v.Name
	t.discountRate = rate
	return nil
}

// Database serialization (GORM)
// CustomerTier is stored as its code string; rates for the standard tiers
// are resolved in code via TierFromCode.

// Value implements driver.Valuer for database storage
func (t CustomerTier) Value() (driver.Value, error) {
	if t.code == "" {
		return nil, nil
	}
	return t.code, nil
}

// Scan implements sql.Scanner for database retrieval
func (t *CustomerTier) Scan(value any) error {
	if value == nil {
		*t = CustomerTier{}
		return nil
	}

	var code string
	switch v := value.(type) {
	case string:
		code = v
	case []byte:
		code = string(v)
	default:
		return fmt.Errorf("cannot scan %T into CustomerTier", value)
	}

	tier, err := TierFromCode(code)
	if err != nil {
		// Unknown codes survive the round trip with a zero rate
		t.code = code
		t.name = code
		t.discountRate = decimal.Zero
		return nil
	}
	*t = tier
	return nil
}
