package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the contract every event raised by an aggregate satisfies.
// Events are immutable once created; consumers read them through this
// interface only.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// BaseDomainEvent carries the envelope every event shares. Embed it by
// value and build it through NewBaseDomainEvent; the fields are sealed so
// an event cannot be re-stamped after creation.
type BaseDomainEvent struct {
	eventID       uuid.UUID
	eventType     string
	occurredAt    time.Time
	aggregateID   uuid.UUID
	aggregateType string
	tenantID      uuid.UUID
}

// NewBaseDomainEvent stamps a fresh envelope for an aggregate's event.
func NewBaseDomainEvent(eventType, aggregateType string, aggregateID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		eventID:       uuid.New(),
		eventType:     eventType,
		occurredAt:    time.Now(),
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		tenantID:      tenantID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID { return e.eventID }

func (e *BaseDomainEvent) EventType() string { return e.eventType }

func (e *BaseDomainEvent) OccurredAt() time.Time { return e.occurredAt }

func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.aggregateID }

func (e *BaseDomainEvent) AggregateType() string { return e.aggregateType }

func (e *BaseDomainEvent) TenantID() uuid.UUID { return e.tenantID }
