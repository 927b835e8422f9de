package models

import (
	"github.com/procureflow/backend/internal/domain/partner"
)

// VendorModel is the persistence model for the Vendor aggregate root.
type VendorModel struct {
	TenantAggregateModel
	Name            string               `gorm:"type:varchar(200);not null"`
	Code            string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_vendor_tenant_code,priority:2"`
	ContactEmail    string               `gorm:"type:varchar(200);index"`
	ContactPhone    string               `gorm:"type:varchar(50)"`
	Status          partner.VendorStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Rating          int                  `gorm:"not null;default:0;check:rating >= 0 AND rating <= 5"`
	Capabilities    []string             `gorm:"type:jsonb;serializer:json"`
	MaxActiveOrders int                  `gorm:"not null;default:0"`
	MinLeadTimeDays int                  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (VendorModel) TableName() string {
	return "vendors"
}

// ToDomain converts the persistence model to a domain Vendor aggregate.
func (m *VendorModel) ToDomain() *partner.Vendor {
	vendor := &partner.Vendor{
		Name:            m.Name,
		Code:            m.Code,
		ContactEmail:    m.ContactEmail,
		ContactPhone:    m.ContactPhone,
		Status:          m.Status,
		Rating:          m.Rating,
		Capabilities:    m.Capabilities,
		MaxActiveOrders: m.MaxActiveOrders,
		MinLeadTimeDays: m.MinLeadTimeDays,
	}
	m.PopulateTenantAggregateRoot(&vendor.TenantAggregateRoot)
	return vendor
}

// FromDomain populates the persistence model from a domain Vendor aggregate.
func (m *VendorModel) FromDomain(v *partner.Vendor) {
	m.FromDomainTenantAggregateRoot(v.TenantAggregateRoot)
	m.Name = v.Name
	m.Code = v.Code
	m.ContactEmail = v.ContactEmail
	m.ContactPhone = v.ContactPhone
	m.Status = v.Status
	m.Rating = v.Rating
	m.Capabilities = v.Capabilities
	m.MaxActiveOrders = v.MaxActiveOrders
	m.MinLeadTimeDays = v.MinLeadTimeDays
}

// VendorModelFromDomain creates a new persistence model from a domain Vendor aggregate.
func VendorModelFromDomain(v *partner.Vendor) *VendorModel {
	m := &VendorModel{}
	m.FromDomain(v)
	return m
}

// CustomerModel is the persistence model for the Customer aggregate root.
// The tier is stored as its code string; CustomerTier implements
// driver.Valuer and sql.Scanner for the round trip.
type CustomerModel struct {
	TenantAggregateModel
	Name      string                 `gorm:"type:varchar(200);not null"`
	Email     string                 `gorm:"type:varchar(200);index"`
	Phone     string                 `gorm:"type:varchar(50)"`
	Tier      partner.CustomerTier   `gorm:"type:varchar(20);not null;default:'standard'"`
	TaxRegion string                 `gorm:"type:varchar(50)"`
	TaxExempt bool                   `gorm:"not null;default:false"`
	Status    partner.CustomerStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer aggregate.
func (m *CustomerModel) ToDomain() *partner.Customer {
	customer := &partner.Customer{
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Tier:      m.Tier,
		TaxRegion: m.TaxRegion,
		TaxExempt: m.TaxExempt,
		Status:    m.Status,
	}
	m.PopulateTenantAggregateRoot(&customer.TenantAggregateRoot)
	return customer
}

// FromDomain populates the persistence model from a domain Customer aggregate.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Tier = c.Tier
	m.TaxRegion = c.TaxRegion
	m.TaxExempt = c.TaxExempt
	m.Status = c.Status
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer aggregate.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
