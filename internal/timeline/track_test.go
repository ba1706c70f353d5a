//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package timeline

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/polarhour/frameline/internal/timescale"
)

var testOrigin = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	tf, err := timescale.New(testOrigin, 1.0)
	require.NoError(t, err)
	return NewScene(tf)
}

func addTrack(t *testing.T, s *Scene, title string, meta Metadata) *Track {
	t.Helper()
	tr, err := s.AddTrack(TrackSpec{Title: title, Metadata: meta})
	require.NoError(t, err)
	return tr
}

func addFrame(t *testing.T, s *Scene, tr *Track, startOffset, dur time.Duration) *Frame {
	t.Helper()
	f, err := s.AddFrame(tr.ID(), FrameSpec{
		Start:    testOrigin.Add(startOffset),
		Duration: dur,
		State:    StateReady,
	})
	require.NoError(t, err)
	return f
}

func TestTimeExtent_EmptyTrackUndefined(t *testing.T) {
	s := newTestScene(t)
	tr := addTrack(t, s, "empty", nil)

	_, _, ok := tr.TimeExtent()
	require.False(t, ok)
	_, ok = tr.Bounds()
	require.False(t, ok)
	_, ok = tr.Anchor()
	require.False(t, ok)
}

func TestTimeExtent_Monotonic(t *testing.T) {
	s := newTestScene(t)
	tr := addTrack(t, s, "t", nil)

	addFrame(t, s, tr, 10*time.Second, 10*time.Second)
	start, dur, ok := tr.TimeExtent()
	require.True(t, ok)

	// Adding frames never shrinks the extent.
	addFrame(t, s, tr, 30*time.Second, 15*time.Second)
	start2, dur2, ok := tr.TimeExtent()
	require.True(t, ok)
	require.False(t, start2.After(start))
	require.GreaterOrEqual(t, dur2, dur)

	addFrame(t, s, tr, -20*time.Second, 5*time.Second)
	start3, dur3, ok := tr.TimeExtent()
	require.True(t, ok)
	require.False(t, start3.After(start2))
	require.GreaterOrEqual(t, dur3, dur2)

	require.Equal(t, testOrigin.Add(-20*time.Second), start3)
	require.Equal(t, 65*time.Second, dur3)
}

func TestRemoveLastFrame_ExtentUndefined(t *testing.T) {
	s := newTestScene(t)
	tr := addTrack(t, s, "t", nil)
	f := addFrame(t, s, tr, 0, 10*time.Second)

	require.NoError(t, s.RemoveFrame(f.ID()))
	_, _, ok := tr.TimeExtent()
	require.False(t, ok)
	_, ok = tr.Bounds()
	require.False(t, ok)
}

func TestAddFrame_RejectsNegativeDuration(t *testing.T) {
	s := newTestScene(t)
	tr := addTrack(t, s, "t", nil)

	_, err := s.AddFrame(tr.ID(), FrameSpec{Start: testOrigin, Duration: -time.Second})
	require.ErrorIs(t, err, timescale.ErrNegativeDuration)
	require.Empty(t, tr.Frames())
}

func TestAddFrame_StableOrderOnEqualStarts(t *testing.T) {
	s := newTestScene(t)
	tr := addTrack(t, s, "t", nil)

	a := addFrame(t, s, tr, 10*time.Second, 5*time.Second)
	b := addFrame(t, s, tr, 10*time.Second, 3*time.Second)
	c := addFrame(t, s, tr, 5*time.Second, time.Second)

	frames := tr.Frames()
	require.Len(t, frames, 3)
	require.Equal(t, c.ID(), frames[0].ID())
	require.Equal(t, a.ID(), frames[1].ID())
	require.Equal(t, b.ID(), frames[2].ID())
}

func TestRecomputeBounds_Geometry(t *testing.T) {
	s := newTestScene(t)
	tr := addTrack(t, s, "t", nil)
	addFrame(t, s, tr, 2*time.Hour, 30*time.Minute)

	anchor, ok := tr.Anchor()
	require.True(t, ok)
	// Anchor X at the first frame's coordinate, Y centered on lane 0.
	require.InDelta(t, 2*3600.0, anchor.X, 1e-9)
	require.InDelta(t, TrackHeight/2, anchor.Y, 1e-9)

	bounds, ok := tr.Bounds()
	require.True(t, ok)
	// Left pad (1h) sits left of the local origin.
	require.InDelta(t, -3600.0, bounds.X, 1e-9)
	require.InDelta(t, -TrackHeight/2, bounds.Y, 1e-9)
	// Width covers pad + frames + right pad (5m).
	require.InDelta(t, 3600.0+1800.0+300.0, bounds.W, 1e-9)
	require.InDelta(t, TrackHeight, bounds.H, 1e-9)
	// Right edge reaches 5m past the frames' end, bottom closes the lane.
	require.InDelta(t, 1800.0+300.0, bounds.Right(), 1e-9)
	require.InDelta(t, TrackHeight/2, bounds.Bottom(), 1e-9)
}

func TestRecomputeBounds_Idempotent(t *testing.T) {
	s := newTestScene(t)
	tr := addTrack(t, s, "t", nil)
	addFrame(t, s, tr, time.Hour, 10*time.Minute)
	addFrame(t, s, tr, 90*time.Minute, 10*time.Minute)

	b1, ok := tr.Bounds()
	require.True(t, ok)
	a1, _ := tr.Anchor()

	tr.RecomputeBounds()
	tr.RecomputeBounds()

	b2, ok := tr.Bounds()
	require.True(t, ok)
	a2, _ := tr.Anchor()
	require.Equal(t, b1, b2)
	require.Equal(t, a1, a2)
}

func TestPositionFrames_RelativeToAnchor(t *testing.T) {
	s := newTestScene(t)
	tr := addTrack(t, s, "t", nil)
	first := addFrame(t, s, tr, time.Hour, 10*time.Minute)
	second := addFrame(t, s, tr, time.Hour+20*time.Minute, 10*time.Minute)

	// The first frame sits on the local origin; the second is offset by
	// the time gap at the current scale.
	require.InDelta(t, 0.0, first.Pos(), 1e-9)
	require.InDelta(t, 1200.0, second.Pos(), 1e-9)

	// Positions track the anchor across zooms.
	require.NoError(t, s.Zoom(0.5, testOrigin))
	require.InDelta(t, 0.0, first.Pos(), 1e-9)
	require.InDelta(t, 600.0, second.Pos(), 1e-9)
	require.InDelta(t, 300.0, second.Bounds().W, 1e-9)
}

func TestFrameStateChange_NoRelayout(t *testing.T) {
	s := newTestScene(t)
	tr := addTrack(t, s, "t", nil)
	f := addFrame(t, s, tr, time.Hour, 10*time.Minute)

	before, _ := tr.Bounds()
	require.NoError(t, s.SetFrameState(f.ID(), StateMissing))
	require.Equal(t, StateMissing, f.State())
	after, _ := tr.Bounds()
	require.Equal(t, before, after)

	require.ErrorIs(t, s.SetFrameState(uuid.New(), StateReady), ErrNotFound)
}

func TestFramesUnder(t *testing.T) {
	s := newTestScene(t)
	tr := addTrack(t, s, "t", nil)
	f := addFrame(t, s, tr, 10*time.Second, 10*time.Second)
	addFrame(t, s, tr, 40*time.Second, 10*time.Second)

	hits := tr.FramesUnder(testOrigin.Add(15 * time.Second))
	require.Len(t, hits, 1)
	require.Equal(t, f.ID(), hits[0].ID())

	require.Empty(t, tr.FramesUnder(testOrigin.Add(25*time.Second)))
	// End boundary is exclusive.
	require.Empty(t, tr.FramesUnder(testOrigin.Add(20*time.Second)))
}

func TestFrameOverlaps(t *testing.T) {
	s := newTestScene(t)
	tr := addTrack(t, s, "t", nil)
	f := addFrame(t, s, tr, 10*time.Second, 10*time.Second)

	require.True(t, f.Overlaps(testOrigin.Add(15*time.Second), testOrigin.Add(25*time.Second)))
	require.True(t, f.Overlaps(testOrigin, testOrigin.Add(time.Hour)))
	// Touching intervals do not overlap.
	require.False(t, f.Overlaps(testOrigin.Add(20*time.Second), testOrigin.Add(30*time.Second)))
	require.False(t, f.Overlaps(testOrigin, testOrigin.Add(10*time.Second)))
}
