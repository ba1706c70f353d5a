package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/polarhour/frameline/internal/timescale"
)

// FrameState is the display state of a frame, externally driven by the
// workspace engine and rendered as color.
type FrameState int

const (
	StateUnknown FrameState = iota
	StateAvailable
	StateReady
	StateCurrent
	StateMissing
	StateError
)

//nolint:gochecknoglobals // immutable lookup table used across the package.
var frameStateNames = map[FrameState]string{
	StateUnknown:   "unknown",
	StateAvailable: "available",
	StateReady:     "ready",
	StateCurrent:   "current",
	StateMissing:   "missing",
	StateError:     "error",
}

func (s FrameState) String() string {
	if name, ok := frameStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("FrameState(%d)", int(s))
}

// ParseFrameState converts a lowercase state name to a FrameState.
func ParseFrameState(name string) (FrameState, error) {
	for st, n := range frameStateNames {
		if n == strings.ToLower(name) {
			return st, nil
		}
	}
	return StateUnknown, fmt.Errorf("unknown frame state %q", name)
}

// FrameSpec describes a frame to be added to a track. A zero ID gets a
// generated one.
type FrameSpec struct {
	ID        uuid.UUID
	Start     time.Time
	Duration  time.Duration
	State     FrameState
	Title     string
	Subtitle  string
	Metadata  Metadata
	Thumbnail string // opaque handle into the thumbnail cache, optional
}

// Frame is a discrete time interval representing a single data product.
// The interval is immutable after creation; the display state mutates in
// place and triggers a repaint, not a re-layout. A frame is owned by
// exactly one track and holds only the owner's id as a non-owning back
// reference.
type Frame struct {
	id        uuid.UUID
	trackID   uuid.UUID
	start     time.Time
	duration  time.Duration
	state     FrameState
	title     string
	subtitle  string
	meta      Metadata
	thumbnail string

	// Geometry relative to the owning track's anchor, maintained by the
	// track during layout.
	pos    float64
	bounds Rect
}

func (f *Frame) ID() uuid.UUID           { return f.id }
func (f *Frame) TrackID() uuid.UUID      { return f.trackID }
func (f *Frame) Start() time.Time        { return f.start }
func (f *Frame) Duration() time.Duration { return f.duration }
func (f *Frame) End() time.Time          { return f.start.Add(f.duration) }
func (f *Frame) State() FrameState       { return f.state }
func (f *Frame) Title() string           { return f.title }
func (f *Frame) Subtitle() string        { return f.subtitle }
func (f *Frame) Metadata() Metadata      { return f.meta }
func (f *Frame) Thumbnail() string       { return f.thumbnail }

// Pos is the frame's X offset relative to the owning track's anchor.
// Y within the track is always 0.
func (f *Frame) Pos() float64 { return f.pos }

// Bounds is the frame's rectangle relative to its own position.
func (f *Frame) Bounds() Rect { return f.bounds }

// setState mutates the display state and reports whether it changed, so
// callers can skip repaints for no-op updates.
func (f *Frame) setState(st FrameState) bool {
	if st == f.state {
		return false
	}
	f.state = st
	return true
}

// updateBounds recomputes the frame's relative rectangle from the
// current scale. Width follows the duration; height is fixed and
// vertically centered on the lane.
func (f *Frame) updateBounds(tf *timescale.Transform) {
	w, err := tf.DurationToLength(f.duration)
	if err != nil {
		// Frame durations are validated non-negative at creation.
		return
	}
	f.bounds = Rect{X: 0, Y: -FrameHeight / 2, W: w, H: FrameHeight}
}

// Overlaps reports whether the frame's time span intersects [start, end).
func (f *Frame) Overlaps(start, end time.Time) bool {
	return f.start.Before(end) && f.End().After(start)
}
