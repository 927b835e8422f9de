// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderStatsProvider implements OrderStatsProvider using GORM.
// It queries the purchase_orders table directly for aggregated metrics.
type GormOrderStatsProvider struct {
	db *gorm.DB
}

// NewGormOrderStatsProvider creates a new GormOrderStatsProvider.
func NewGormOrderStatsProvider(db *gorm.DB) *GormOrderStatsProvider {
	return &GormOrderStatsProvider{db: db}
}

// CountOpenOrdersByStatus returns the number of non-terminal orders per status
// for a tenant.
func (p *GormOrderStatsProvider) CountOpenOrdersByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("purchase_orders").
		Select("status, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Where("status NOT IN ?", []string{"COMPLETED", "CANCELLED", "EXPIRED"}).
		Group("status").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Status] = r.Count
	}

	return m, nil
}

// GormTenantProvider implements TenantProvider using GORM.
// Tenants are not modeled as a separate table, so active tenants are the
// distinct tenant IDs present in purchase_orders.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns all tenant IDs with at least one purchase order.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("purchase_orders").
		Distinct("tenant_id").
		Find(&ids).Error

	return ids, err
}
