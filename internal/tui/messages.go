package tui

import (
	"github.com/google/uuid"

	"github.com/polarhour/frameline/internal/timeline"
)

// Message types for Bubble Tea update loop.

// tickPlayMsg advances the playhead while play mode is active.
type tickPlayMsg struct{}

// pollStatesMsg triggers a catalog poll for frame display states.
type pollStatesMsg struct{}

// statesMsg carries the result of a catalog poll.
type statesMsg struct {
	States map[uuid.UUID]timeline.FrameState
	Err    error
}
