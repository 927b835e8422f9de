package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/procureflow/backend/internal/domain/partner"
	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
)

// ExpireQuotesStats summarizes one expiration sweep
type ExpireQuotesStats struct {
	TotalCandidates   int       `json:"total_candidates"`
	SuccessExpired    int       `json:"success_expired"`
	FailedExpirations int       `json:"failed_expirations"`
	DryRun            bool      `json:"dry_run"`
	ProcessedAt       time.Time `json:"processed_at"`
}

// ExpireQuotesService sweeps orders whose vendor quote validity has lapsed
// and transitions them to EXPIRED. One failing order never aborts the sweep;
// failures are counted and the remaining candidates are still processed.
type ExpireQuotesService struct {
	orderRepo      procurement.PurchaseOrderRepository
	vendorRepo     partner.VendorRepository
	notifications  NotificationService
	eventPublisher shared.EventPublisher
	metrics        Metrics
	clock          shared.Clock
	logger         *zap.Logger
	dryRun         bool
}

// NewExpireQuotesService creates a new quote expiration service
func NewExpireQuotesService(
	orderRepo procurement.PurchaseOrderRepository,
	vendorRepo partner.VendorRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *ExpireQuotesService {
	return &ExpireQuotesService{
		orderRepo:  orderRepo,
		vendorRepo: vendorRepo,
		clock:      clock,
		logger:     logger,
	}
}

// SetNotificationService sets the notification service for expiry notices
func (s *ExpireQuotesService) SetNotificationService(notifications NotificationService) {
	s.notifications = notifications
}

// SetEventPublisher sets the event publisher for domain events
func (s *ExpireQuotesService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the business metrics recorder
func (s *ExpireQuotesService) SetMetrics(metrics Metrics) {
	s.metrics = metrics
}

// SetDryRun toggles dry-run mode. In dry-run the sweep reports what it
// would expire without writing anything.
func (s *ExpireQuotesService) SetDryRun(dryRun bool) {
	s.dryRun = dryRun
}

// ExpireForTenant runs one sweep scoped to a single tenant
func (s *ExpireQuotesService) ExpireForTenant(ctx context.Context, tenantID uuid.UUID) (*ExpireQuotesStats, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	return s.sweep(ctx, &tenantID)
}

// ExpireAll runs one sweep across all tenants
func (s *ExpireQuotesService) ExpireAll(ctx context.Context) (*ExpireQuotesStats, error) {
	return s.sweep(ctx, nil)
}

func (s *ExpireQuotesService) sweep(ctx context.Context, tenantID *uuid.UUID) (*ExpireQuotesStats, error) {
	now := s.clock.Now()
	stats := &ExpireQuotesStats{
		DryRun:      s.dryRun,
		ProcessedAt: now,
	}

	candidates, err := s.orderRepo.FindExpiredQuotes(ctx, tenantID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired quotes: %w", err)
	}
	stats.TotalCandidates = len(candidates)
	if len(candidates) == 0 {
		return stats, nil
	}

	if s.dryRun {
		for i := range candidates {
			order := &candidates[i]
			s.logger.Info("Dry run: quote would expire",
				zap.String("order_id", order.ID.String()),
				zap.String("order_number", order.OrderNumber),
				zap.String("status", string(order.Status)),
			)
		}
		return stats, nil
	}

	for i := range candidates {
		order := &candidates[i]
		if err := s.expireOne(ctx, order, now); err != nil {
			stats.FailedExpirations++
			s.logger.Error("Failed to expire order quote",
				zap.String("order_id", order.ID.String()),
				zap.String("order_number", order.OrderNumber),
				zap.Error(err),
			)
			continue
		}
		stats.SuccessExpired++
	}

	if s.metrics != nil && stats.SuccessExpired > 0 {
		s.metrics.QuotesExpired(ctx, stats.SuccessExpired)
	}

	s.logger.Info("Quote expiration sweep finished",
		zap.Int("total_candidates", stats.TotalCandidates),
		zap.Int("success_expired", stats.SuccessExpired),
		zap.Int("failed_expirations", stats.FailedExpirations),
	)

	if stats.FailedExpirations > 0 {
		return stats, fmt.Errorf("quote expiration completed with %d failures", stats.FailedExpirations)
	}
	return stats, nil
}

func (s *ExpireQuotesService) expireOne(ctx context.Context, order *procurement.PurchaseOrder, now time.Time) error {
	var previousExpiry time.Time
	if order.QuoteExpiresAt != nil {
		previousExpiry = *order.QuoteExpiresAt
	}

	if err := order.Expire(now); err != nil {
		return err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return err
	}

	s.publishEvents(ctx, order)
	s.notify(ctx, order)

	s.logger.Info("Order quote expired",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Time("previous_expiry", previousExpiry),
		zap.Time("expired_at", now),
	)
	return nil
}

// notify sends the expiry notice. Notification failures are logged and
// swallowed; the state transition is already persisted.
func (s *ExpireQuotesService) notify(ctx context.Context, order *procurement.PurchaseOrder) {
	if s.notifications == nil {
		return
	}

	var vendor *partner.Vendor
	if order.VendorID != nil {
		found, err := s.vendorRepo.FindByID(ctx, *order.VendorID)
		if err != nil {
			s.logger.Warn("Failed to load vendor for expiry notice",
				zap.String("order_id", order.ID.String()),
				zap.String("vendor_id", order.VendorID.String()),
				zap.Error(err),
			)
		} else {
			vendor = found
		}
	}

	if err := s.notifications.SendQuoteExpiredNotification(ctx, order, vendor); err != nil {
		s.logger.Warn("Failed to send quote expiry notice",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *ExpireQuotesService) publishEvents(ctx context.Context, order *procurement.PurchaseOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return
	}
	order.ClearDomainEvents()
}
