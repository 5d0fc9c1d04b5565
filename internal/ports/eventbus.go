// Package ports define the EventBus interface for event-driven communication.
// Player adapters publish on the bus; the session controller and the UI subscribe.
package ports

import (
	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
//
// The bus decouples the player integration (which reports track changes) from
// the session core (which reacts to them) and from the UI (which renders
// status). Publishers never learn who is listening.
//
// Thread-safety: Implementations must be thread-safe as events may be published and
// subscribed from multiple goroutines simultaneously. The Spotify watcher publishes
// from its polling goroutine while the session loop publishes from its own.
//
// Example usage:
//
//	// In a player adapter: Publish an event
//	bus.Publish(domain.NewTrackChangedEvent(track, pctx))
//
//	// In the session controller: Subscribe to events
//	subID := bus.Subscribe(domain.EventTrackChanged, func(event domain.Event) {
//	    e := event.(domain.TrackChangedEvent)
//	    sched.Post(func() { c.onTrackChanged(e) })
//	})
//
//	// Later: Unsubscribe
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish delivers an event to all subscribers of that event type,
	// in the order they subscribed.
	//
	// Handlers run on the publisher's goroutine. A handler that needs to do
	// real work should hand it off (the session controller posts onto its
	// scheduler) so publishers are never blocked.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type.
	// Returns a SubscriptionID that can be used to unsubscribe later.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered event handler.
	// If the subscription ID is invalid or already unsubscribed, this is a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives all events regardless of type.
	// Used for debug logging of the whole event stream.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers returns true if there are any active subscriptions for the given event type.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and cleans up resources.
	// After calling Close, publishing is a no-op.
	Close() error
}

// EventFilter is a function that determines if an event should be delivered to a subscriber.
// It returns true if the event should be delivered, false otherwise.
type EventFilter func(event domain.Event) bool

// FilteringEventBus extends EventBus with filtered subscriptions.
type FilteringEventBus interface {
	EventBus

	// SubscribeFiltered registers a handler with a filter function.
	// The handler will only be called for events that pass the filter.
	//
	// Example: only picks made by the selector
	//	bus.SubscribeFiltered(domain.EventTrackPicked, func(e domain.Event) bool {
	//	    return e.(domain.TrackPickedEvent).Source == domain.PickSelector
	//	}, handlePick)
	SubscribeFiltered(eventType domain.EventType, filter EventFilter, handler domain.EventHandler) domain.SubscriptionID
}
