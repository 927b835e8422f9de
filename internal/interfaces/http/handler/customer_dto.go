package handler

import (
	"time"

	"github.com/procureflow/backend/internal/domain/partner"
)

// CreateCustomerRequest is the request body for registering a customer
type CreateCustomerRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	TierCode  string `json:"tier_code" binding:"omitempty,oneof=standard silver gold platinum vip"`
	TaxRegion string `json:"tax_region"`
	TaxExempt bool   `json:"tax_exempt"`
}

// ChangeTierRequest is the request body for moving a customer to a tier
type ChangeTierRequest struct {
	TierCode string `json:"tier_code" binding:"required,oneof=standard silver gold platinum vip"`
}

// TaxSettingsRequest is the request body for updating tax settings
type TaxSettingsRequest struct {
	TaxRegion string `json:"tax_region"`
	TaxExempt bool   `json:"tax_exempt"`
}

// CustomerResponse is the API representation of a customer
type CustomerResponse struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"tenant_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	TierCode        string    `json:"tier_code"`
	TierName        string    `json:"tier_name"`
	DiscountPercent string    `json:"discount_percent"`
	TaxRegion       string    `json:"tax_region,omitempty"`
	TaxExempt       bool      `json:"tax_exempt"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CustomerFromDomain converts a domain customer into its API representation
func CustomerFromDomain(customer *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              customer.ID.String(),
		TenantID:        customer.TenantID.String(),
		Name:            customer.Name,
		Email:           customer.Email,
		Phone:           customer.Phone,
		TierCode:        customer.Tier.Code(),
		TierName:        customer.Tier.Name(),
		DiscountPercent: customer.Tier.DiscountPercent().String(),
		TaxRegion:       customer.TaxRegion,
		TaxExempt:       customer.TaxExempt,
		Status:          string(customer.Status),
		CreatedAt:       customer.CreatedAt,
		UpdatedAt:       customer.UpdatedAt,
	}
}
