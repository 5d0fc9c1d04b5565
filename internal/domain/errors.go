// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services and adapters can return.
var (
	// ErrPlaylistUnavailable is returned when a context's contents cannot be loaded.
	ErrPlaylistUnavailable = errors.New("playlist unavailable")

	// ErrNotPlaylist is returned when an operation requires a playlist context.
	ErrNotPlaylist = errors.New("context is not a playlist")

	// ErrNoCandidates is returned when there is nothing to choose from.
	ErrNoCandidates = errors.New("no candidate tracks")

	// ErrTrackNotFound is returned when a track URI is unknown to the player.
	ErrTrackNotFound = errors.New("track not found")

	// ErrTrackUnplayable is returned when a track exists but cannot be played.
	ErrTrackUnplayable = errors.New("track is not playable")

	// ErrPlayFailed is returned when the player refuses a play command.
	ErrPlayFailed = errors.New("play command failed")

	// ErrNoActiveDevice is returned when no device is available to control.
	ErrNoActiveDevice = errors.New("no active playback device")

	// ErrNotAuthenticated is returned when no usable credentials are present.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidVolume is returned when the volume is out of valid range (0.0-1.0).
	ErrInvalidVolume = errors.New("invalid volume: must be between 0.0 and 1.0")

	// ErrInvalidConfig is returned when configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// PlayerError represents a failed call into a player adapter.
type PlayerError struct {
	Op  string // Operation that failed (e.g., "play", "next", "load")
	URI string // Track or context URI (if applicable)
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *PlayerError) Error() string {
	if e.URI != "" {
		return fmt.Sprintf("player %s failed for '%s': %v", e.Op, e.URI, e.Err)
	}
	return fmt.Sprintf("player %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *PlayerError) Unwrap() error {
	return e.Err
}

// NewPlayerError creates a new PlayerError.
func NewPlayerError(op, uri string, err error) *PlayerError {
	return &PlayerError{Op: op, URI: uri, Err: err}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   any    // Value that failed validation
	Message string // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "SkipCoordinator", "PlaylistCache")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
