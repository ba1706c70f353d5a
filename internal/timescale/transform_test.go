//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package timescale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustTransform(t *testing.T, origin time.Time, pps float64) *Transform {
	t.Helper()
	tf, err := New(origin, pps)
	require.NoError(t, err)
	return tf
}

func TestNew_RejectsNonPositiveScale(t *testing.T) {
	_, err := New(time.Now(), 0)
	require.ErrorIs(t, err, ErrNonPositiveScale)

	_, err = New(time.Now(), -2.5)
	require.ErrorIs(t, err, ErrNonPositiveScale)
}

func TestTimeToCoord_LinearInOrigin(t *testing.T) {
	origin := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	tf := mustTransform(t, origin, 2.0)

	require.InDelta(t, 0.0, tf.TimeToCoord(origin), 1e-9)
	require.InDelta(t, 120.0, tf.TimeToCoord(origin.Add(time.Minute)), 1e-9)
	require.InDelta(t, -120.0, tf.TimeToCoord(origin.Add(-time.Minute)), 1e-9)
}

func TestRoundTrip(t *testing.T) {
	origin := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	tf := mustTransform(t, origin, 0.35)

	for _, at := range []time.Time{
		origin,
		origin.Add(17 * time.Second),
		origin.Add(-3 * time.Hour),
		origin.Add(90*time.Minute + 500*time.Millisecond),
	} {
		back, err := tf.CoordToTime(tf.TimeToCoord(at))
		require.NoError(t, err)
		require.WithinDuration(t, at, back, time.Millisecond)
	}
}

func TestDurationToLength(t *testing.T) {
	tf := mustTransform(t, time.Now(), 4.0)

	w, err := tf.DurationToLength(30 * time.Second)
	require.NoError(t, err)
	require.InDelta(t, 120.0, w, 1e-9)

	_, err = tf.DurationToLength(-time.Second)
	require.ErrorIs(t, err, ErrNegativeDuration)
}

func TestIntervalToSpan(t *testing.T) {
	origin := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	tf := mustTransform(t, origin, 1.0)

	span, err := tf.IntervalToSpan(origin.Add(10*time.Second), 20*time.Second)
	require.NoError(t, err)
	require.InDelta(t, 10.0, span.X, 1e-9)
	require.InDelta(t, 20.0, span.W, 1e-9)

	_, err = tf.IntervalToSpan(origin, -time.Second)
	require.ErrorIs(t, err, ErrNegativeDuration)
}

func TestZoom_PivotsOnAnchor(t *testing.T) {
	origin := time.Date(2026, 8, 20, 6, 0, 0, 0, time.UTC)
	anchor := origin.Add(42 * time.Minute)

	for _, factor := range []float64{0.25, 0.5, 1.0, 2.0, 10.0} {
		tf := mustTransform(t, origin, 1.5)
		before := tf.TimeToCoord(anchor)
		require.NoError(t, tf.Zoom(factor, anchor))
		require.InDelta(t, before, tf.TimeToCoord(anchor), 1e-6)
		require.InDelta(t, 1.5*factor, tf.PixelsPerSecond(), 1e-9)
	}
}

func TestZoom_RejectsNonPositiveFactor(t *testing.T) {
	tf := mustTransform(t, time.Now(), 1.0)
	require.ErrorIs(t, tf.Zoom(0, time.Now()), ErrNonPositiveFactor)
	require.ErrorIs(t, tf.Zoom(-1, time.Now()), ErrNonPositiveFactor)
	// Scale untouched after a rejected zoom.
	require.InDelta(t, 1.0, tf.PixelsPerSecond(), 1e-9)
}

func TestPan_ShiftsOrigin(t *testing.T) {
	origin := time.Date(2026, 8, 20, 6, 0, 0, 0, time.UTC)
	tf := mustTransform(t, origin, 1.0)
	at := origin.Add(time.Hour)

	x := tf.TimeToCoord(at)
	tf.Pan(10 * time.Second)
	require.InDelta(t, x-10.0, tf.TimeToCoord(at), 1e-9)
	tf.Pan(-10 * time.Second)
	require.InDelta(t, x, tf.TimeToCoord(at), 1e-9)
}

func TestMonotonic(t *testing.T) {
	origin := time.Date(2026, 8, 20, 6, 0, 0, 0, time.UTC)
	tf := mustTransform(t, origin, 0.01)

	prev := tf.TimeToCoord(origin.Add(-time.Hour))
	for step := 1; step <= 100; step++ {
		x := tf.TimeToCoord(origin.Add(-time.Hour).Add(time.Duration(step) * time.Minute))
		require.GreaterOrEqual(t, x, prev)
		prev = x
	}
}
