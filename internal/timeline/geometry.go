package timeline

import "time"

// Layout constants shared by track and frame geometry, in scene pixels.
const (
	// TrackHeight is the vertical size of one lane; a track at rank z
	// occupies [z*TrackHeight, (z+1)*TrackHeight).
	TrackHeight = 48.0
	// FrameHeight is the height of a frame block, centered in its lane.
	FrameHeight = 40.0
)

// Decoration reservations before the first frame and after the last,
// expressed in time so they scale with the transform.
const (
	DefaultLeftPad  = time.Hour
	DefaultRightPad = 5 * time.Minute
)

// Point is a position in scene coordinates.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle, usually expressed relative to an
// anchor point rather than in absolute scene coordinates.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Right returns the X coordinate of the rectangle's right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the Y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }
