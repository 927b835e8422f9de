package procurement

import (
	"time"

	"github.com/google/uuid"

	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

// DefaultQuoteValidity is how long a quote remains valid when the vendor
// does not state an explicit expiry.
const DefaultQuoteValidity = 30 * 24 * time.Hour

// QuoteStatus represents the lifecycle of a vendor quote
type QuoteStatus string

// Quote statuses
const (
	QuoteStatusSubmitted QuoteStatus = "SUBMITTED"
	QuoteStatusAccepted  QuoteStatus = "ACCEPTED"
	QuoteStatusRejected  QuoteStatus = "REJECTED"
	QuoteStatusExpired   QuoteStatus = "EXPIRED"
)

// IsValid checks if the quote status is valid
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusSubmitted, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired:
		return true
	}
	return false
}

// VendorQuote is a vendor's price and lead-time offer for an order. The
// price/lead-time terms are immutable once created; during re-negotiation a
// new quote supersedes the old one instead of mutating it. Only the status
// moves (submitted -> accepted/rejected/expired).
type VendorQuote struct {
	ID           uuid.UUID
	VendorID     uuid.UUID
	TotalPrice   valueobject.Money
	LeadTimeDays int
	QuotedAt     time.Time
	ExpiresAt    time.Time
	Status       QuoteStatus
}

// NewVendorQuote creates a submitted quote. The expiry defaults to
// DefaultQuoteValidity after quotedAt when the zero time is given.
func NewVendorQuote(vendorID uuid.UUID, totalPrice valueobject.Money, leadTimeDays int, quotedAt time.Time, expiresAt time.Time) (VendorQuote, error) {
	if vendorID == uuid.Nil {
		return VendorQuote{}, shared.NewDomainError("INVALID_VENDOR_ID", "Vendor ID cannot be empty")
	}
	if totalPrice.IsNegative() {
		return VendorQuote{}, shared.NewDomainError("INVALID_QUOTED_PRICE", "Quoted price cannot be negative")
	}
	if leadTimeDays < 0 {
		return VendorQuote{}, shared.NewDomainError("INVALID_LEAD_TIME", "Lead time cannot be negative")
	}
	if expiresAt.IsZero() {
		expiresAt = quotedAt.Add(DefaultQuoteValidity)
	}
	if expiresAt.Before(quotedAt) {
		return VendorQuote{}, shared.NewDomainError("INVALID_QUOTE_EXPIRY", "Quote expiry cannot be before the quote time")
	}

	return VendorQuote{
		ID:           uuid.New(),
		VendorID:     vendorID,
		TotalPrice:   totalPrice,
		LeadTimeDays: leadTimeDays,
		QuotedAt:     quotedAt,
		ExpiresAt:    expiresAt,
		Status:       QuoteStatusSubmitted,
	}, nil
}

// IsExpiredAt returns true if the quote's validity has lapsed at the given
// instant
func (q VendorQuote) IsExpiredAt(now time.Time) bool {
	return q.ExpiresAt.Before(now)
}

// Accepted returns a copy of the quote marked accepted
func (q VendorQuote) Accepted() VendorQuote {
	q.Status = QuoteStatusAccepted
	return q
}

// Rejected returns a copy of the quote marked rejected
func (q VendorQuote) Rejected() VendorQuote {
	q.Status = QuoteStatusRejected
	return q
}

// Expired returns a copy of the quote marked expired
func (q VendorQuote) Expired() VendorQuote {
	q.Status = QuoteStatusExpired
	return q
}
