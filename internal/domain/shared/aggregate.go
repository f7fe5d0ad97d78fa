package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch bumps UpdatedAt
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// BaseAggregateRoot adds the optimistic lock version and the events raised
// since the aggregate was loaded. Version starts at 1 and is bumped by the
// repository on every successful update.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	events  []DomainEvent
}

func NewBaseAggregateRoot() BaseAggregateRoot {
	now := time.Now()
	return BaseAggregateRoot{
		BaseEntity: BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Version:    1,
	}
}

// CheckVersion returns ErrConcurrencyConflict when the caller edited a stale
// copy. A nil expected version skips the check (last writer wins).
func (a *BaseAggregateRoot) CheckVersion(expected *int) error {
	if expected != nil && *expected != a.Version {
		return ErrConcurrencyConflict
	}
	return nil
}

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.events
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.events = nil
}

// CompanyAggregateRoot is an aggregate owned by one company. Repositories
// filter every read and write on CompanyID.
type CompanyAggregateRoot struct {
	BaseAggregateRoot
	CompanyID uuid.UUID
	CreatedBy *uuid.UUID
}

func NewCompanyAggregateRoot(companyID uuid.UUID) CompanyAggregateRoot {
	return CompanyAggregateRoot{BaseAggregateRoot: NewBaseAggregateRoot(), CompanyID: companyID}
}

// SetCreatedBy records the creating user; uuid.Nil (system actions) leaves
// CreatedBy unset
func (c *CompanyAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	if userID != uuid.Nil {
		c.CreatedBy = &userID
	}
}
