package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/polarhour/frameline/internal/timescale"
)

// ValueRange is the optional data range a track's colormap spans.
type ValueRange struct {
	Min float64
	Max float64
}

// TrackSpec describes a track to be added to a scene. A zero ID gets a
// generated one.
type TrackSpec struct {
	ID         uuid.UUID
	Title      string
	Subtitle   string
	Icon       string // opaque handle, e.g. whether the product is algebraic or RGB
	Metadata   Metadata
	Colormap   string // opaque colormap handle, optional
	ValueRange *ValueRange
	LeftPad    time.Duration // zero means DefaultLeftPad
	RightPad   time.Duration // zero means DefaultRightPad
}

// Track is a z-ordered lane holding a time-ordered sequence of frames.
// The track exclusively owns its frames and owns their layout: whenever
// the transform changes or frames are added or removed, the track
// recomputes its extent, anchor, bounds, and frame positions before the
// mutation returns, so rendering reads are always consistent.
type Track struct {
	id       uuid.UUID
	z        int
	title    string
	subtitle string
	icon     string
	meta     Metadata
	colormap string
	vrange   *ValueRange
	selected bool

	leftPad  time.Duration
	rightPad time.Duration

	tf     *timescale.Transform // shared with the owning scene, non-owning
	frames []*Frame             // ordered by start, insertion order on ties
	byID   map[uuid.UUID]*Frame

	// anchor is the track's local-origin placement in scene space: X at
	// the first frame's coordinate, Y vertically centered on the lane.
	anchor  Point
	bounds  Rect // relative to anchor
	laidOut bool
}

func newTrack(spec TrackSpec, z int, tf *timescale.Transform) *Track {
	id := spec.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	leftPad := spec.LeftPad
	if leftPad == 0 {
		leftPad = DefaultLeftPad
	}
	rightPad := spec.RightPad
	if rightPad == 0 {
		rightPad = DefaultRightPad
	}
	return &Track{
		id:       id,
		z:        z,
		title:    spec.Title,
		subtitle: spec.Subtitle,
		icon:     spec.Icon,
		meta:     spec.Metadata,
		colormap: spec.Colormap,
		vrange:   spec.ValueRange,
		leftPad:  leftPad,
		rightPad: rightPad,
		tf:       tf,
		byID:     make(map[uuid.UUID]*Frame),
	}
}

func (tr *Track) ID() uuid.UUID      { return tr.id }
func (tr *Track) Z() int             { return tr.z }
func (tr *Track) Title() string      { return tr.title }
func (tr *Track) Subtitle() string   { return tr.subtitle }
func (tr *Track) Icon() string       { return tr.icon }
func (tr *Track) Metadata() Metadata { return tr.meta }
func (tr *Track) Colormap() string   { return tr.colormap }
func (tr *Track) Selected() bool     { return tr.selected }

// ValueRange returns the optional colormap data range.
func (tr *Track) ValueRange() (ValueRange, bool) {
	if tr.vrange == nil {
		return ValueRange{}, false
	}
	return *tr.vrange, true
}

// SetColormap replaces the track's colormap handle. Rendering picks it
// up on the next paint; no re-layout is needed.
func (tr *Track) SetColormap(colormap string) {
	tr.colormap = colormap
}

// Frames returns the owned frames in layout order. The slice is shared;
// callers must not mutate it.
func (tr *Track) Frames() []*Frame { return tr.frames }

// Frame looks up an owned frame by id.
func (tr *Track) Frame(id uuid.UUID) (*Frame, bool) {
	f, ok := tr.byID[id]
	return f, ok
}

// Anchor returns the track's local-origin placement in scene space.
// Valid only while the track has frames.
func (tr *Track) Anchor() (Point, bool) {
	return tr.anchor, tr.laidOut
}

// Bounds returns the track's rectangle relative to its anchor, spanning
// the padded extent horizontally and the full lane height vertically.
// The second return is false while the track is empty.
func (tr *Track) Bounds() (Rect, bool) {
	return tr.bounds, tr.laidOut
}

// TimeExtent scans the owned frames once and returns the earliest start
// and the duration to the latest end. ok is false for an empty track.
func (tr *Track) TimeExtent() (start time.Time, dur time.Duration, ok bool) {
	if len(tr.frames) == 0 {
		return time.Time{}, 0, false
	}
	var s, e time.Time
	for i, f := range tr.frames {
		if i == 0 || f.start.Before(s) {
			s = f.start
		}
		if end := f.End(); i == 0 || end.After(e) {
			e = end
		}
	}
	return s, e.Sub(s), true
}

// AddFrame creates a frame from spec and inserts it in start order,
// keeping insertion order among equal starts. The track's extent,
// bounds, and frame positions are recomputed before returning.
func (tr *Track) AddFrame(spec FrameSpec) (*Frame, error) {
	if spec.Duration < 0 {
		return nil, fmt.Errorf("add frame to track %s: %w", tr.id, timescale.ErrNegativeDuration)
	}
	id := spec.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	if _, exists := tr.byID[id]; exists {
		return nil, fmt.Errorf("add frame %s to track %s: %w", id, tr.id, ErrDuplicateID)
	}
	f := &Frame{
		id:        id,
		trackID:   tr.id,
		start:     spec.Start,
		duration:  spec.Duration,
		state:     spec.State,
		title:     spec.Title,
		subtitle:  spec.Subtitle,
		meta:      spec.Metadata,
		thumbnail: spec.Thumbnail,
	}
	// Insert after any frame with an equal start so ties keep insertion
	// order for sequential iteration.
	idx := sort.Search(len(tr.frames), func(i int) bool {
		return tr.frames[i].start.After(f.start)
	})
	tr.frames = append(tr.frames, nil)
	copy(tr.frames[idx+1:], tr.frames[idx:])
	tr.frames[idx] = f
	tr.byID[id] = f

	f.updateBounds(tr.tf)
	tr.RecomputeBounds()
	tr.PositionFrames()
	return f, nil
}

// RemoveFrame disposes an owned frame and recomputes layout. Removing
// the last frame leaves the track with an undefined extent.
func (tr *Track) RemoveFrame(id uuid.UUID) error {
	if _, ok := tr.byID[id]; !ok {
		return NotFoundError{Kind: "frame", ID: id}
	}
	delete(tr.byID, id)
	for i, f := range tr.frames {
		if f.id == id {
			tr.frames = append(tr.frames[:i], tr.frames[i+1:]...)
			break
		}
	}
	tr.RecomputeBounds()
	tr.PositionFrames()
	return nil
}

// RecomputeBounds updates the track's anchor and relative bounds from
// the current extent and transform. It must run after the transform
// changes or after any frame is added or removed. Recomputation is
// idempotent: with unchanged extent and transform the resulting bounds
// are bit-identical, so dependents are never needlessly invalidated.
func (tr *Track) RecomputeBounds() {
	t, d, ok := tr.TimeExtent()
	if !ok {
		logrus.WithField("track", tr.id).Debug("empty track cannot determine its horizontal extent")
		tr.laidOut = false
		tr.anchor = Point{}
		tr.bounds = Rect{}
		return
	}
	framesSpan, err := tr.tf.IntervalToSpan(t, d)
	if err != nil {
		logrus.WithError(err).WithField("track", tr.id).Error("frames span")
		return
	}
	paddedSpan, err := tr.tf.IntervalToSpan(t.Add(-tr.leftPad), d+tr.leftPad+tr.rightPad)
	if err != nil {
		logrus.WithError(err).WithField("track", tr.id).Error("padded span")
		return
	}
	top := float64(tr.z) * TrackHeight
	// The local origin sits at the first frame's coordinate, vertically
	// centered on the lane.
	tr.anchor = Point{X: framesSpan.X, Y: top + TrackHeight/2}
	tr.bounds = Rect{
		X: paddedSpan.X - framesSpan.X,
		Y: -TrackHeight / 2,
		W: paddedSpan.W,
		H: TrackHeight,
	}
	tr.laidOut = true
}

// PositionFrames places each owned frame relative to the track anchor.
// Frames store absolute time, so this must re-run whenever the anchor
// moves for relative placement to stay correct.
func (tr *Track) PositionFrames() {
	if !tr.laidOut {
		return
	}
	for _, f := range tr.frames {
		f.pos = tr.tf.TimeToCoord(f.start) - tr.anchor.X
	}
}

// relayout refreshes all scale-dependent geometry: per-frame widths,
// the track's anchor and bounds, and frame positions.
func (tr *Track) relayout() {
	for _, f := range tr.frames {
		f.updateBounds(tr.tf)
	}
	tr.RecomputeBounds()
	tr.PositionFrames()
}

// setZ changes the rank and refreshes the vertical anchor placement.
// Scene re-ranking calls this; ranks stay a dense permutation there.
func (tr *Track) setZ(z int) {
	if tr.z == z {
		return
	}
	tr.z = z
	tr.RecomputeBounds()
	tr.PositionFrames()
}

// FramesUnder returns the owned frames whose span contains at, used to
// highlight borders of frames under the playhead.
func (tr *Track) FramesUnder(at time.Time) []*Frame {
	var hits []*Frame
	for _, f := range tr.frames {
		if !f.start.After(at) && f.End().After(at) {
			hits = append(hits, f)
		}
	}
	return hits
}
