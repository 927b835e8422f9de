package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot marks an entity as a consistency boundary. Roots carry a
// version counter for optimistic locking and buffer the domain events
// raised by their state changes until a use case publishes them.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot implements the root bookkeeping. Version starts at 1
// and only the persistence layer advances it.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot returns root bookkeeping for a freshly created
// aggregate.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent buffers an event until the surrounding use case persists
// the aggregate and publishes.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the buffered events in the order they were raised.
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the buffer, typically after a successful publish.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// TenantAggregateRoot pins an aggregate to one tenant. Every aggregate in
// the system is tenant-scoped; cross-tenant references are rejected by the
// use cases, never silently ignored.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID uuid.UUID
}

// NewTenantAggregateRoot returns root bookkeeping owned by the given tenant.
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TenantID:          tenantID,
	}
}

// BelongsToTenant reports whether the aggregate is owned by the given tenant.
func (t *TenantAggregateRoot) BelongsToTenant(tenantID uuid.UUID) bool {
	return t.TenantID == tenantID
}
