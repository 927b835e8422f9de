package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appprocurement "github.com/procureflow/backend/internal/application/procurement"
)

type mockSweeper struct {
	mu    sync.Mutex
	calls int
	stats *appprocurement.ExpireQuotesStats
	err   error
	block chan struct{} // when set, ExpireAll blocks until closed
}

func (m *mockSweeper) ExpireAll(ctx context.Context) (*appprocurement.ExpireQuotesStats, error) {
	m.mu.Lock()
	m.calls++
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.stats, m.err
}

func (m *mockSweeper) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newTestScheduler(t *testing.T, cfg QuoteExpirationConfig, sweeper QuoteSweeper) *QuoteExpirationScheduler {
	t.Helper()
	s, err := NewQuoteExpirationScheduler(cfg, sweeper, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestNewQuoteExpirationScheduler_NilSweeper(t *testing.T) {
	_, err := NewQuoteExpirationScheduler(DefaultQuoteExpirationConfig(), nil, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewQuoteExpirationScheduler_DefaultsApplied(t *testing.T) {
	s := newTestScheduler(t, QuoteExpirationConfig{Enabled: true}, &mockSweeper{})

	assert.Equal(t, 5*time.Minute, s.config.CheckInterval)
	assert.Equal(t, 5*time.Minute, s.config.SweepTimeout)
}

func TestQuoteExpirationScheduler_Disabled(t *testing.T) {
	sweeper := &mockSweeper{}
	s := newTestScheduler(t, QuoteExpirationConfig{Enabled: false}, sweeper)

	require.NoError(t, s.Start(context.Background()))

	assert.False(t, s.IsRunning())
	assert.Equal(t, 0, sweeper.callCount())
}

func TestQuoteExpirationScheduler_SweepsOnStart(t *testing.T) {
	sweeper := &mockSweeper{
		stats: &appprocurement.ExpireQuotesStats{TotalCandidates: 2, SuccessExpired: 2},
	}
	cfg := QuoteExpirationConfig{
		Enabled:       true,
		CheckInterval: time.Hour, // only the startup sweep fires during the test
		SweepTimeout:  time.Second,
	}
	s := newTestScheduler(t, cfg, sweeper)

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	assert.Eventually(t, func() bool {
		return sweeper.callCount() == 1
	}, time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		stats := s.LastStats()
		return stats != nil && stats.SuccessExpired == 2
	}, time.Second, 10*time.Millisecond)
}

func TestQuoteExpirationScheduler_SweepsOnInterval(t *testing.T) {
	sweeper := &mockSweeper{
		stats: &appprocurement.ExpireQuotesStats{},
	}
	cfg := QuoteExpirationConfig{
		Enabled:       true,
		CheckInterval: 20 * time.Millisecond,
		SweepTimeout:  time.Second,
	}
	s := newTestScheduler(t, cfg, sweeper)

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	assert.Eventually(t, func() bool {
		return sweeper.callCount() >= 3
	}, time.Second, 10*time.Millisecond)
}

func TestQuoteExpirationScheduler_StartIdempotent(t *testing.T) {
	sweeper := &mockSweeper{stats: &appprocurement.ExpireQuotesStats{}}
	cfg := QuoteExpirationConfig{Enabled: true, CheckInterval: time.Hour, SweepTimeout: time.Second}
	s := newTestScheduler(t, cfg, sweeper)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))

	assert.True(t, s.IsRunning())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())

	// Stopping again is a no-op
	require.NoError(t, s.Stop(ctx))
}

func TestQuoteExpirationScheduler_TriggerNow(t *testing.T) {
	sweeper := &mockSweeper{
		stats: &appprocurement.ExpireQuotesStats{TotalCandidates: 1, SuccessExpired: 1},
	}
	cfg := QuoteExpirationConfig{Enabled: true, CheckInterval: time.Hour, SweepTimeout: time.Second}
	s := newTestScheduler(t, cfg, sweeper)

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	// Wait for the startup sweep to finish before triggering manually
	assert.Eventually(t, func() bool {
		return s.LastStats() != nil
	}, time.Second, 10*time.Millisecond)

	stats, err := s.TriggerNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SuccessExpired)
}

func TestQuoteExpirationScheduler_TriggerNow_NotRunning(t *testing.T) {
	s := newTestScheduler(t, QuoteExpirationConfig{Enabled: true}, &mockSweeper{})

	_, err := s.TriggerNow(context.Background())
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestQuoteExpirationScheduler_SweepFailureDoesNotStopLoop(t *testing.T) {
	sweeper := &mockSweeper{err: errors.New("database unavailable")}
	cfg := QuoteExpirationConfig{
		Enabled:       true,
		CheckInterval: 20 * time.Millisecond,
		SweepTimeout:  time.Second,
	}
	s := newTestScheduler(t, cfg, sweeper)

	require.NoError(t, s.Start(context.Background()))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	}()

	assert.Eventually(t, func() bool {
		return sweeper.callCount() >= 2
	}, time.Second, 10*time.Millisecond)
}

func TestQuoteExpirationScheduler_StopCancelsInFlightSweep(t *testing.T) {
	block := make(chan struct{})
	sweeper := &mockSweeper{block: block}
	cfg := QuoteExpirationConfig{Enabled: true, CheckInterval: time.Hour, SweepTimeout: time.Minute}
	s := newTestScheduler(t, cfg, sweeper)

	require.NoError(t, s.Start(context.Background()))

	// The startup sweep is now blocked inside ExpireAll
	assert.Eventually(t, func() bool {
		return sweeper.callCount() == 1
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	close(block)
}
