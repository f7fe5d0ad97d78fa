package shared

import "context"

// EventHandler reacts to domain events after the aggregate that raised them
// has been saved
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the types the handler wants; none means every event
	EventTypes() []string
}

type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

type EventSubscriber interface {
	// Subscribe registers handler for eventTypes, or for handler.EventTypes()
	// when none are given
	Subscribe(handler EventHandler, eventTypes ...string)
}

// EventBus routes published events to subscribed handlers
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// PendingEvents is an aggregate that buffers events until it is saved
type PendingEvents interface {
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// PublishPending hands the aggregate's buffered events to pub and clears
// them. Handler failures are logged by the bus and never returned.
func PublishPending(ctx context.Context, pub EventPublisher, agg PendingEvents) {
	if pub == nil {
		return
	}
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = pub.Publish(ctx, events...)
	agg.ClearDomainEvents()
}
