package handler

import (
	"time"

	"github.com/google/uuid"

	apppartner "github.com/procureflow/backend/internal/application/partner"
	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/sourcing"
)

// CreateVendorRequest is the request body for registering a vendor
type CreateVendorRequest struct {
	Name            string   `json:"name" binding:"required"`
	Code            string   `json:"code" binding:"required"`
	ContactEmail    string   `json:"contact_email" binding:"omitempty,email"`
	ContactPhone    string   `json:"contact_phone"`
	Rating          int      `json:"rating" binding:"min=0,max=5"`
	Capabilities    []string `json:"capabilities"`
	MaxActiveOrders int      `json:"max_active_orders" binding:"min=0"`
	MinLeadTimeDays int      `json:"min_lead_time_days" binding:"min=0"`
}

// UpdateVendorRequest is the request body for partially updating a vendor
type UpdateVendorRequest struct {
	ContactEmail    *string  `json:"contact_email" binding:"omitempty,email"`
	ContactPhone    *string  `json:"contact_phone"`
	Rating          *int     `json:"rating" binding:"omitempty,min=0,max=5"`
	Capabilities    []string `json:"capabilities"`
	MaxActiveOrders *int     `json:"max_active_orders" binding:"omitempty,min=0"`
	MinLeadTimeDays *int     `json:"min_lead_time_days" binding:"omitempty,min=0"`
}

// SetVendorRatingRequest is the request body for setting a vendor rating
type SetVendorRatingRequest struct {
	Rating int `json:"rating" binding:"min=0,max=5"`
}

// MatchVendorsRequest is the request body for ranking vendors against
// sourcing requirements
type MatchVendorsRequest struct {
	OrderID             string    `json:"order_id" binding:"required,uuid"`
	Material            string    `json:"material" binding:"required"`
	Quantity            int       `json:"quantity" binding:"required,min=1"`
	QualityTier         string    `json:"quality_tier" binding:"required,oneof=economy standard premium"`
	Deadline            time.Time `json:"deadline" binding:"required"`
	Currency            string    `json:"currency" binding:"required"`
	BudgetMinMinorUnits int64     `json:"budget_min_minor_units" binding:"min=0"`
	BudgetMaxMinorUnits int64     `json:"budget_max_minor_units" binding:"required,min=0"`
	MinScore            int       `json:"min_score" binding:"min=0,max=100"`
}

// ToInput converts the request into a service input
func (r MatchVendorsRequest) ToInput(tenantID uuid.UUID) apppartner.MatchVendorsInput {
	return apppartner.MatchVendorsInput{
		TenantID:            tenantID,
		OrderID:             uuid.MustParse(r.OrderID),
		Material:            r.Material,
		Quantity:            r.Quantity,
		QualityTier:         r.QualityTier,
		Deadline:            r.Deadline,
		Currency:            r.Currency,
		BudgetMinMinorUnits: r.BudgetMinMinorUnits,
		BudgetMaxMinorUnits: r.BudgetMaxMinorUnits,
		MinScore:            r.MinScore,
	}
}

// VendorResponse is the API representation of a vendor
type VendorResponse struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenant_id"`
	Name            string    `json:"name"`
	Code            string    `json:"code"`
	ContactEmail    string    `json:"contact_email,omitempty"`
	ContactPhone    string    `json:"contact_phone,omitempty"`
	Status          string    `json:"status"`
	Rating          int       `json:"rating"`
	Capabilities    []string  `json:"capabilities"`
	MaxActiveOrders int       `json:"max_active_orders"`
	MinLeadTimeDays int       `json:"min_lead_time_days"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// VendorFromDomain converts a domain vendor into its API representation
func VendorFromDomain(vendor *partner.Vendor) VendorResponse {
	return VendorResponse{
		ID:              vendor.ID.String(),
		TenantID:        vendor.TenantID.String(),
		Name:            vendor.Name,
		Code:            vendor.Code,
		ContactEmail:    vendor.ContactEmail,
		ContactPhone:    vendor.ContactPhone,
		Status:          string(vendor.Status),
		Rating:          vendor.Rating,
		Capabilities:    vendor.Capabilities,
		MaxActiveOrders: vendor.MaxActiveOrders,
		MinLeadTimeDays: vendor.MinLeadTimeDays,
		CreatedAt:       vendor.CreatedAt,
		UpdatedAt:       vendor.UpdatedAt,
	}
}

// VendorMatchResponse pairs a vendor with its compatibility score
type VendorMatchResponse struct {
	Vendor  VendorResponse `json:"vendor"`
	Score   int            `json:"score"`
	Reasons []string       `json:"reasons"`
}

// VendorMatchesFromDomain converts domain match results
func VendorMatchesFromDomain(matches []sourcing.VendorMatch) []VendorMatchResponse {
	out := make([]VendorMatchResponse, 0, len(matches))
	for i := range matches {
		out = append(out, VendorMatchResponse{
			Vendor:  VendorFromDomain(&matches[i].Vendor),
			Score:   matches[i].Score,
			Reasons: matches[i].Reasons,
		})
	}
	return out
}
