package ports

import (
	"github.com/tejashwikalptaru/trueshuffle/internal/domain"
)

// SessionControl is what a user interface needs from the session.
// It lets the terminal UI drive the session without depending on the
// service package directly.
//
// Thread-safety: Implementations must be safe to call from any goroutine.
// Requests are queued; they do not wait for the player.
type SessionControl interface {
	// Toggle flips the shuffle override and returns the new state.
	Toggle() bool

	// Active reports whether the override is on.
	Active() bool

	// RequestSkip asks for the next track.
	RequestSkip()

	// RequestBack asks for the previous track.
	RequestBack()

	// Status returns a snapshot for display.
	Status() domain.SessionStatus
}
