package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a value object representing a shipping or billing address.
// It is immutable - all operations return new Address instances.
type Address struct {
	line1      string
	line2      string
	city       string
	province   string
	postalCode string
	country    string
}

// NewAddress creates a new Address. Line1, city, and country are required.
func NewAddress(line1, line2, city, province, postalCode, country string) (Address, error) {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)
	city = strings.TrimSpace(city)
	province = strings.TrimSpace(province)
	postalCode = strings.TrimSpace(postalCode)
	country = strings.TrimSpace(country)

	if line1 == "" {
		return Address{}, fmt.Errorf("address line cannot be empty")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if country == "" {
		return Address{}, fmt.Errorf("country cannot be empty")
	}

	return Address{
		line1:      line1,
		line2:      line2,
		city:       city,
		province:   province,
		postalCode: postalCode,
		country:    country,
	}, nil
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Line1 returns the first address line
func (a Address) Line1() string { return a.line1 }

// Line2 returns the second address line
func (a Address) Line2() string { return a.line2 }

// City returns the city
func (a Address) City() string { return a.city }

// Province returns the province or state
func (a Address) Province() string { return a.province }

// PostalCode returns the postal code
func (a Address) PostalCode() string { return a.postalCode }

// Country returns the country
func (a Address) Country() string { return a.country }

// IsEmpty returns true if no field has been set
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// Equals returns true if all fields match
func (a Address) Equals(other Address) bool {
	return a == other
}

// String returns a single-line representation of the address
func (a Address) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.line1, a.line2, a.city, a.province, a.postalCode, a.country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// addressJSON is the JSON representation of Address
type addressJSON struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Line1:      a.line1,
		Line2:      a.line2,
		City:       a.city,
		Province:   a.province,
		PostalCode: a.postalCode,
		Country:    a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var v addressJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	// Allow empty addresses to round-trip for optional fields
	if v.Line1 == "" && v.City == "" && v.Country == "" {
		*a = Address{}
		return nil
	}
	parsed, err := NewAddress(v.Line1, v.Line2, v.City, v.Province, v.PostalCode, v.Country)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
