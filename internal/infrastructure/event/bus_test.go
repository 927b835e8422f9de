package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/procureflow/backend/internal/domain/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/domain/shared/valueobject"
)

type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	received   []shared.DomainEvent
	err        error
	panics     bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.received = append(h.received, event)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

func newCreatedEvent(t *testing.T) shared.DomainEvent {
	t.Helper()
	order, err := procurement.NewPurchaseOrder(uuid.New(), uuid.New(), "PO-20260315-0001", valueobject.CurrencyIDR)
	require.NoError(t, err)
	return procurement.NewOrderCreatedEvent(order)
}

func TestInMemoryEventBusPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to type-specific handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{eventTypes: []string{procurement.EventTypeOrderCreated}}
		other := &recordingHandler{eventTypes: []string{procurement.EventTypeOrderCompleted}}
		bus.Subscribe(handler)
		bus.Subscribe(other)

		require.NoError(t, bus.Publish(ctx, newCreatedEvent(t)))

		assert.Equal(t, 1, handler.count())
		assert.Equal(t, 0, other.count())
	})

	t.Run("wildcard handlers receive every event", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		wildcard := &recordingHandler{}
		bus.Subscribe(wildcard)

		require.NoError(t, bus.Publish(ctx, newCreatedEvent(t), newCreatedEvent(t)))

		assert.Equal(t, 2, wildcard.count())
	})

	t.Run("a failing handler does not block others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{eventTypes: []string{procurement.EventTypeOrderCreated}, err: errors.New("boom")}
		healthy := &recordingHandler{eventTypes: []string{procurement.EventTypeOrderCreated}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newCreatedEvent(t)))

		assert.Equal(t, 1, healthy.count())
	})

	t.Run("a panicking handler does not block others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{eventTypes: []string{procurement.EventTypeOrderCreated}, panics: true}
		healthy := &recordingHandler{eventTypes: []string{procurement.EventTypeOrderCreated}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newCreatedEvent(t)))

		assert.Equal(t, 1, healthy.count())
	})

	t.Run("unsubscribed handlers stop receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{eventTypes: []string{procurement.EventTypeOrderCreated}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		require.NoError(t, bus.Publish(ctx, newCreatedEvent(t)))

		assert.Equal(t, 0, handler.count())
	})
}

func TestInMemoryEventBusLifecycle(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())

	assert.NoError(t, bus.Start(ctx))
	assert.NoError(t, bus.Stop(ctx))
}
