package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/infrastructure/persistence/models"
)

// GormVendorRepository implements VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByID finds a vendor by its ID
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Vendor, error) {
	var model models.VendorModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a vendor by ID within a tenant
func (r *GormVendorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Vendor, error) {
	var model models.VendorModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveForTenant finds all active vendors for a tenant
func (r *GormVendorRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]partner.Vendor, error) {
	var vendorModels []models.VendorModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, partner.VendorStatusActive).
		Order("name ASC").
		Find(&vendorModels).Error; err != nil {
		return nil, err
	}
	return toDomainVendors(vendorModels), nil
}

// FindAllForTenant finds vendors for a tenant with filtering
func (r *GormVendorRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Vendor, error) {
	var vendorModels []models.VendorModel

	query := r.db.WithContext(ctx).Model(&models.VendorModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&vendorModels).Error; err != nil {
		return nil, err
	}
	return toDomainVendors(vendorModels), nil
}

// Save creates or updates a vendor
func (r *GormVendorRepository) Save(ctx context.Context, vendor *partner.Vendor) error {
	model := models.VendorModelFromDomain(vendor)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a vendor
func (r *GormVendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.VendorModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormVendorRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "min_rating":
			query = query.Where("rating >= ?", value)
		}
	}

	if limit := filter.Limit(); limit > 0 {
		query = query.Offset(filter.Offset()).Limit(limit)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, VendorSortFields, "")
		if sortField != "" {
			query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
		} else {
			query = query.Order("created_at DESC")
		}
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// toDomainVendors converts a batch of persistence models to domain aggregates
func toDomainVendors(vendorModels []models.VendorModel) []partner.Vendor {
	vendors := make([]partner.Vendor, len(vendorModels))
	for i := range vendorModels {
		vendors[i] = *vendorModels[i].ToDomain()
	}
	return vendors
}

// Ensure GormVendorRepository implements VendorRepository
var _ partner.VendorRepository = (*GormVendorRepository)(nil)
