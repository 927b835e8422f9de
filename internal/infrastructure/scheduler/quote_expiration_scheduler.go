// Package scheduler runs time-driven background jobs.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appprocurement "github.com/procureflow/backend/internal/application/procurement"
)

// QuoteSweeper runs one quote expiration sweep across all tenants.
type QuoteSweeper interface {
	ExpireAll(ctx context.Context) (*appprocurement.ExpireQuotesStats, error)
}

// QuoteExpirationConfig holds configuration for the quote expiration scheduler.
type QuoteExpirationConfig struct {
	Enabled       bool
	CheckInterval time.Duration // How often to sweep for lapsed quotes
	SweepTimeout  time.Duration // Per-sweep deadline, default 5 minutes
}

// DefaultQuoteExpirationConfig returns default scheduler configuration.
func DefaultQuoteExpirationConfig() QuoteExpirationConfig {
	return QuoteExpirationConfig{
		Enabled:       true,
		CheckInterval: 5 * time.Minute,
		SweepTimeout:  5 * time.Minute,
	}
}

// QuoteExpirationScheduler periodically expires orders whose vendor quote
// validity has lapsed. It sweeps once on start and then on every tick.
type QuoteExpirationScheduler struct {
	config  QuoteExpirationConfig
	sweeper QuoteSweeper
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	sweeping  bool
	lastStats *appprocurement.ExpireQuotesStats
}

// NewQuoteExpirationScheduler creates a new scheduler instance.
func NewQuoteExpirationScheduler(config QuoteExpirationConfig, sweeper QuoteSweeper, logger *zap.Logger) (*QuoteExpirationScheduler, error) {
	if sweeper == nil {
		return nil, ErrInvalidConfig
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = 5 * time.Minute
	}
	if config.SweepTimeout <= 0 {
		config.SweepTimeout = 5 * time.Minute
	}
	return &QuoteExpirationScheduler{
		config:  config,
		sweeper: sweeper,
		logger:  logger,
	}, nil
}

// Start starts the background sweep loop. It is a no-op when the scheduler
// is disabled or already running.
func (s *QuoteExpirationScheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Quote expiration scheduler disabled")
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Quote expiration scheduler started",
		zap.Duration("check_interval", s.config.CheckInterval),
		zap.Duration("sweep_timeout", s.config.SweepTimeout),
	)

	return nil
}

// Stop gracefully stops the sweep loop, waiting for an in-flight sweep to
// finish or ctx to expire.
func (s *QuoteExpirationScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Quote expiration scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Quote expiration scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the sweep loop is active.
func (s *QuoteExpirationScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// LastStats returns the stats of the most recent completed sweep, or nil if
// no sweep has completed yet.
func (s *QuoteExpirationScheduler) LastStats() *appprocurement.ExpireQuotesStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStats
}

// TriggerNow runs one sweep immediately, outside the normal schedule.
// It is used by the admin API to force an expiration pass.
func (s *QuoteExpirationScheduler) TriggerNow(ctx context.Context) (*appprocurement.ExpireQuotesStats, error) {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil, ErrSchedulerNotRunning
	}
	if s.sweeping {
		s.mu.Unlock()
		return nil, ErrSweepAlreadyRunning
	}
	s.sweeping = true
	s.mu.Unlock()

	return s.sweep(ctx)
}

func (s *QuoteExpirationScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	// Sweep immediately on start so a restart never extends quote lifetimes
	s.trySweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.trySweep(ctx)
		}
	}
}

// trySweep runs one sweep unless another is in flight.
func (s *QuoteExpirationScheduler) trySweep(ctx context.Context) {
	s.mu.Lock()
	if s.sweeping {
		s.mu.Unlock()
		s.logger.Warn("Skipping quote expiration sweep, previous sweep still running")
		return
	}
	s.sweeping = true
	s.mu.Unlock()

	if _, err := s.sweep(ctx); err != nil {
		s.logger.Error("Quote expiration sweep failed", zap.Error(err))
	}
}

func (s *QuoteExpirationScheduler) sweep(ctx context.Context) (*appprocurement.ExpireQuotesStats, error) {
	defer func() {
		s.mu.Lock()
		s.sweeping = false
		s.mu.Unlock()
	}()

	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	stats, err := s.sweeper.ExpireAll(sweepCtx)
	if stats != nil {
		s.mu.Lock()
		s.lastStats = stats
		s.mu.Unlock()
	}
	if err != nil {
		return stats, err
	}

	if stats.TotalCandidates > 0 {
		s.logger.Info("Quote expiration sweep completed",
			zap.Int("total_candidates", stats.TotalCandidates),
			zap.Int("success_expired", stats.SuccessExpired),
			zap.Int("failed_expirations", stats.FailedExpirations),
			zap.Bool("dry_run", stats.DryRun),
		)
	}
	return stats, nil
}
