// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the procurement system.
// It tracks order creation, vendor activity, and quote lifecycle events.
// It satisfies the application layer's Metrics interface.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderCreatedTotal    *Counter
	vendorAssignedTotal  *Counter
	quoteNegotiatedTotal *Counter
	quoteExpiredTotal    *Counter

	// Gauge metrics (point-in-time values)
	openOrdersByStatus *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	orderStatsProvider OrderStatsProvider
}

// OrderStatsProvider provides purchase order data for periodic metrics
// collection. This interface allows the telemetry layer to query order state
// without depending on the procurement domain directly.
type OrderStatsProvider interface {
	// CountOpenOrdersByStatus returns the number of non-terminal orders per
	// status for a tenant. Keys are status codes such as "PENDING".
	CountOpenOrdersByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter              metric.Meter
	Logger             *zap.Logger
	CollectInterval    time.Duration // Default: 5 minutes
	OrderStatsProvider OrderStatsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:              cfg.Meter,
		logger:             logger,
		stopChan:           make(chan struct{}),
		orderStatsProvider: cfg.OrderStatsProvider,
	}

	var err error

	bm.orderCreatedTotal, err = NewCounter(
		cfg.Meter,
		"procurement_order_created_total",
		"Total number of purchase orders created",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.vendorAssignedTotal, err = NewCounter(
		cfg.Meter,
		"procurement_vendor_assigned_total",
		"Total number of vendor assignments",
		"{assignments}",
	)
	if err != nil {
		return nil, err
	}

	bm.quoteNegotiatedTotal, err = NewCounter(
		cfg.Meter,
		"procurement_quote_negotiated_total",
		"Total number of negotiated quote revisions",
		"{quotes}",
	)
	if err != nil {
		return nil, err
	}

	bm.quoteExpiredTotal, err = NewCounter(
		cfg.Meter,
		"procurement_quote_expired_total",
		"Total number of orders expired by the quote expiration sweep",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.openOrdersByStatus, err = NewGauge(
		cfg.Meter,
		"procurement_open_orders",
		"Current number of non-terminal purchase orders",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Lifecycle Counters
// =============================================================================

// OrderCreated records a purchase order creation event.
func (bm *BusinessMetrics) OrderCreated(ctx context.Context) {
	bm.orderCreatedTotal.Inc(ctx)
}

// VendorAssigned records a vendor assignment event.
func (bm *BusinessMetrics) VendorAssigned(ctx context.Context) {
	bm.vendorAssignedTotal.Inc(ctx)
}

// QuoteNegotiated records a negotiated quote revision.
func (bm *BusinessMetrics) QuoteNegotiated(ctx context.Context) {
	bm.quoteNegotiatedTotal.Inc(ctx)
}

// QuotesExpired records the number of orders expired by a single sweep.
func (bm *BusinessMetrics) QuotesExpired(ctx context.Context, count int) {
	if count <= 0 {
		return
	}
	bm.quoteExpiredTotal.Add(ctx, int64(count))
}

// RecordOpenOrders records the current number of open orders for a tenant
// and status. This is a gauge metric updated by the periodic collector.
func (bm *BusinessMetrics) RecordOpenOrders(ctx context.Context, tenantID uuid.UUID, status string, count int64) {
	bm.openOrdersByStatus.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrOrderStatus.String(status),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects order statistics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectOrderMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectOrderMetrics(ctx, tenantProvider)
		}
	}
}

func (bm *BusinessMetrics) collectOrderMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.orderStatsProvider == nil {
		bm.logger.Debug("No order stats provider configured, skipping order metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantOrderMetrics(ctx, tenantID)
	}
}

func (bm *BusinessMetrics) collectTenantOrderMetrics(ctx context.Context, tenantID uuid.UUID) {
	countsByStatus, err := bm.orderStatsProvider.CountOpenOrdersByStatus(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get open order counts for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		return
	}

	for status, count := range countsByStatus {
		bm.RecordOpenOrders(ctx, tenantID, status, count)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
