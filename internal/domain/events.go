// Package domain defines events for the event-driven architecture.
// Player adapters publish these events and the session controller consumes them.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Player events
	EventTrackChanged   EventType = "player.track_changed"
	EventShuffleChanged EventType = "player.shuffle_changed"
	EventPlayerError    EventType = "player.error"

	// Session events
	EventActiveToggled  EventType = "session.active_toggled"
	EventContextChanged EventType = "session.context_changed"
	EventTrackPicked    EventType = "session.track_picked"
	EventSkipDropped    EventType = "session.skip_dropped"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// TrackChangedEvent is published by a player whenever the playing track changes.
type TrackChangedEvent struct {
	baseEvent
	Track   Track
	Context PlaybackContext
}

// Type returns the event type.
func (e TrackChangedEvent) Type() EventType {
	return EventTrackChanged
}

// NewTrackChangedEvent creates a new TrackChangedEvent.
func NewTrackChangedEvent(track Track, pctx PlaybackContext) TrackChangedEvent {
	return TrackChangedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Context:   pctx,
	}
}

// ShuffleChangedEvent is published when the player's native shuffle mode flips.
type ShuffleChangedEvent struct {
	baseEvent
	Enabled bool
}

// Type returns the event type.
func (e ShuffleChangedEvent) Type() EventType {
	return EventShuffleChanged
}

// NewShuffleChangedEvent creates a new ShuffleChangedEvent.
func NewShuffleChangedEvent(enabled bool) ShuffleChangedEvent {
	return ShuffleChangedEvent{baseEvent: newBaseEvent(), Enabled: enabled}
}

// PlayerErrorEvent is published when a player adapter fails in the background.
type PlayerErrorEvent struct {
	baseEvent
	Operation string
	Error     error
}

// Type returns the event type.
func (e PlayerErrorEvent) Type() EventType {
	return EventPlayerError
}

// NewPlayerErrorEvent creates a new PlayerErrorEvent.
func NewPlayerErrorEvent(op string, err error) PlayerErrorEvent {
	return PlayerErrorEvent{baseEvent: newBaseEvent(), Operation: op, Error: err}
}

// ActiveToggledEvent is published when the user flips the on/off toggle.
type ActiveToggledEvent struct {
	baseEvent
	Active bool
}

// Type returns the event type.
func (e ActiveToggledEvent) Type() EventType {
	return EventActiveToggled
}

// NewActiveToggledEvent creates a new ActiveToggledEvent.
func NewActiveToggledEvent(active bool) ActiveToggledEvent {
	return ActiveToggledEvent{baseEvent: newBaseEvent(), Active: active}
}

// ContextChangedEvent is published after the session resets for a new context.
type ContextChangedEvent struct {
	baseEvent
	Previous PlaybackContext
	Current  PlaybackContext
}

// Type returns the event type.
func (e ContextChangedEvent) Type() EventType {
	return EventContextChanged
}

// NewContextChangedEvent creates a new ContextChangedEvent.
func NewContextChangedEvent(prev, cur PlaybackContext) ContextChangedEvent {
	return ContextChangedEvent{baseEvent: newBaseEvent(), Previous: prev, Current: cur}
}

// PickSource says which path produced a track.
type PickSource string

const (
	PickSelector PickSource = "selector"
	PickNative   PickSource = "native"
	PickReplay   PickSource = "replay"
	PickBack     PickSource = "back"
)

// TrackPickedEvent is published once a chosen track is confirmed playing.
type TrackPickedEvent struct {
	baseEvent
	Track  Track
	Source PickSource
}

// Type returns the event type.
func (e TrackPickedEvent) Type() EventType {
	return EventTrackPicked
}

// NewTrackPickedEvent creates a new TrackPickedEvent.
func NewTrackPickedEvent(track Track, source PickSource) TrackPickedEvent {
	return TrackPickedEvent{baseEvent: newBaseEvent(), Track: track, Source: source}
}

// SkipDroppedEvent is published when a request is rejected by the re-entrancy guard.
type SkipDroppedEvent struct {
	baseEvent
	Forward bool
}

// Type returns the event type.
func (e SkipDroppedEvent) Type() EventType {
	return EventSkipDropped
}

// NewSkipDroppedEvent creates a new SkipDroppedEvent.
func NewSkipDroppedEvent(forward bool) SkipDroppedEvent {
	return SkipDroppedEvent{baseEvent: newBaseEvent(), Forward: forward}
}
