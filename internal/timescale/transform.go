// Package timescale converts between absolute time and one-dimensional
// scene coordinates. The scene X axis corresponds to seconds scaled by a
// pixels-per-second factor, with a movable time origin at coordinate 0.
package timescale

import (
	"errors"
	"time"
)

// Sentinel errors for transform preconditions.
var (
	// ErrNonPositiveScale rejects a pixels-per-second scale <= 0.
	ErrNonPositiveScale = errors.New("pixels-per-second scale must be positive")
	// ErrNonPositiveFactor rejects a zoom factor <= 0.
	ErrNonPositiveFactor = errors.New("zoom factor must be positive")
	// ErrNegativeDuration rejects negative durations in length conversions.
	ErrNegativeDuration = errors.New("duration must be non-negative")
	// ErrDegenerateTransform indicates a transform whose scale has become
	// non-positive. Constructor and mutator checks keep this unreachable;
	// seeing it means an invariant was broken upstream.
	ErrDegenerateTransform = errors.New("degenerate transform: non-positive scale")
)

// Span is a horizontal extent in scene coordinates.
type Span struct {
	X float64
	W float64
}

// Transform maps absolute time to scene X coordinates and back.
// The mapping is monotonic: a later time never maps to a smaller
// coordinate, since the scale is strictly positive.
type Transform struct {
	origin          time.Time
	pixelsPerSecond float64
}

// New returns a transform mapping origin to coordinate 0 at the given
// pixels-per-second scale.
func New(origin time.Time, pixelsPerSecond float64) (*Transform, error) {
	if pixelsPerSecond <= 0 {
		return nil, ErrNonPositiveScale
	}
	return &Transform{origin: origin, pixelsPerSecond: pixelsPerSecond}, nil
}

// Origin returns the time instant currently mapped to coordinate 0.
func (tf *Transform) Origin() time.Time {
	return tf.origin
}

// PixelsPerSecond returns the current horizontal scale.
func (tf *Transform) PixelsPerSecond() float64 {
	return tf.pixelsPerSecond
}

// TimeToCoord converts an absolute time to a scene X coordinate.
func (tf *Transform) TimeToCoord(at time.Time) float64 {
	return at.Sub(tf.origin).Seconds() * tf.pixelsPerSecond
}

// CoordToTime converts a scene X coordinate back to an absolute time.
func (tf *Transform) CoordToTime(x float64) (time.Time, error) {
	if tf.pixelsPerSecond <= 0 {
		return time.Time{}, ErrDegenerateTransform
	}
	seconds := x / tf.pixelsPerSecond
	return tf.origin.Add(time.Duration(seconds * float64(time.Second))), nil
}

// DurationToLength converts a duration to a width in scene coordinates.
func (tf *Transform) DurationToLength(d time.Duration) (float64, error) {
	if d < 0 {
		return 0, ErrNegativeDuration
	}
	return d.Seconds() * tf.pixelsPerSecond, nil
}

// IntervalToSpan converts a (start, duration) interval to its scene span.
func (tf *Transform) IntervalToSpan(start time.Time, d time.Duration) (Span, error) {
	w, err := tf.DurationToLength(d)
	if err != nil {
		return Span{}, err
	}
	return Span{X: tf.TimeToCoord(start), W: w}, nil
}

// Zoom multiplies the scale by factor, pivoting on anchor: the anchor
// time maps to the same coordinate before and after, so the point under
// the cursor does not jump during a slider or alt-drag zoom.
func (tf *Transform) Zoom(factor float64, anchor time.Time) error {
	if factor <= 0 {
		return ErrNonPositiveFactor
	}
	anchorX := tf.TimeToCoord(anchor)
	tf.pixelsPerSecond *= factor
	offset := time.Duration(anchorX / tf.pixelsPerSecond * float64(time.Second))
	tf.origin = anchor.Add(-offset)
	return nil
}

// Pan shifts the origin forward by delta (negative delta pans back).
func (tf *Transform) Pan(delta time.Duration) {
	tf.origin = tf.origin.Add(delta)
}
