// Package timeline implements the layout and coordinate engine behind
// the frameline view: the z-ordered track/frame data model with derived
// geometry, selection and reorder algorithms, keyboard navigation, and
// the drag-and-drop intent protocol. All mutations run synchronously to
// completion on the goroutine that owns the Scene; derived geometry is
// always consistent when a mutation returns. Multi-goroutine hosting
// must serialize access externally.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/polarhour/frameline/internal/timescale"
)

// SelectionMode controls how a selection operation combines with the
// current selection set.
type SelectionMode int

const (
	SelectReplace SelectionMode = iota
	SelectAdd
	SelectToggle
)

// Scene is the collection of tracks keyed by identity, with a separately
// maintained total order by z rank. The z ranks always form a dense
// 0..N-1 permutation; every reorder renumbers atomically.
type Scene struct {
	tf *timescale.Transform

	tracks map[uuid.UUID]*Track
	order  []*Track // index == z rank

	frameIndex map[uuid.UUID]*Track // frame id -> owning track

	selTracks map[uuid.UUID]struct{}
	selFrames map[uuid.UUID]struct{}

	playhead    *time.Time
	playheadFns []func(time.Time)

	source  BoundarySource  // workspace fallback for unscoped jumps, optional
	applier ColormapApplier // colormap drop collaborator, optional
}

// NewScene creates an empty scene owning the given transform.
func NewScene(tf *timescale.Transform) *Scene {
	return &Scene{
		tf:         tf,
		tracks:     make(map[uuid.UUID]*Track),
		frameIndex: make(map[uuid.UUID]*Track),
		selTracks:  make(map[uuid.UUID]struct{}),
		selFrames:  make(map[uuid.UUID]struct{}),
	}
}

// Transform returns the scene's coordinate transform.
func (s *Scene) Transform() *timescale.Transform { return s.tf }

// SetBoundarySource registers the external document/workspace queried
// for frame boundaries when nothing is selected during a jump.
func (s *Scene) SetBoundarySource(src BoundarySource) { s.source = src }

// SetColormapApplier registers the collaborator performing the actual
// colormap side effect on drop.
func (s *Scene) SetColormapApplier(a ColormapApplier) { s.applier = a }

// AddTrack creates a track from spec and appends it at the bottom of
// the z order.
func (s *Scene) AddTrack(spec TrackSpec) (*Track, error) {
	tr := newTrack(spec, len(s.order), s.tf)
	if _, exists := s.tracks[tr.id]; exists {
		return nil, fmt.Errorf("add track %s: %w", tr.id, ErrDuplicateID)
	}
	s.tracks[tr.id] = tr
	s.order = append(s.order, tr)
	return tr, nil
}

// RemoveTrack destroys a track, disposing all frames it owns, and
// renumbers the remaining ranks densely.
func (s *Scene) RemoveTrack(id uuid.UUID) error {
	tr, ok := s.tracks[id]
	if !ok {
		return NotFoundError{Kind: "track", ID: id}
	}
	for _, f := range tr.frames {
		delete(s.frameIndex, f.id)
		delete(s.selFrames, f.id)
	}
	delete(s.tracks, id)
	delete(s.selTracks, id)
	for i, t := range s.order {
		if t == tr {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.renumber()
	return nil
}

// Track looks up a track by id.
func (s *Scene) Track(id uuid.UUID) (*Track, bool) {
	tr, ok := s.tracks[id]
	return tr, ok
}

// Tracks returns the tracks in z order (rank 0 first). The returned
// slice is a copy; the tracks are shared.
func (s *Scene) Tracks() []*Track {
	out := make([]*Track, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of tracks.
func (s *Scene) Len() int { return len(s.order) }

// AddFrame creates a frame on the named track and indexes it for
// scene-wide lookups.
func (s *Scene) AddFrame(trackID uuid.UUID, spec FrameSpec) (*Frame, error) {
	tr, ok := s.tracks[trackID]
	if !ok {
		return nil, NotFoundError{Kind: "track", ID: trackID}
	}
	f, err := tr.AddFrame(spec)
	if err != nil {
		return nil, err
	}
	s.frameIndex[f.id] = tr
	return f, nil
}

// RemoveFrame disposes a frame wherever it lives.
func (s *Scene) RemoveFrame(frameID uuid.UUID) error {
	tr, ok := s.frameIndex[frameID]
	if !ok {
		return NotFoundError{Kind: "frame", ID: frameID}
	}
	if err := tr.RemoveFrame(frameID); err != nil {
		return err
	}
	delete(s.frameIndex, frameID)
	delete(s.selFrames, frameID)
	return nil
}

// Frame looks up a frame by id across all tracks.
func (s *Scene) Frame(frameID uuid.UUID) (*Frame, bool) {
	tr, ok := s.frameIndex[frameID]
	if !ok {
		return nil, false
	}
	return tr.Frame(frameID)
}

// SetFrameState applies an externally driven display-state change.
// A state change triggers a repaint, never a re-layout.
func (s *Scene) SetFrameState(frameID uuid.UUID, st FrameState) error {
	f, ok := s.Frame(frameID)
	if !ok {
		return NotFoundError{Kind: "frame", ID: frameID}
	}
	if f.setState(st) {
		logrus.WithFields(logrus.Fields{"frame": frameID, "state": st}).Debug("frame state changed")
	}
	return nil
}

// Zoom scales the transform pivoting on anchor, then relays out every
// track before returning.
func (s *Scene) Zoom(factor float64, anchor time.Time) error {
	if err := s.tf.Zoom(factor, anchor); err != nil {
		return err
	}
	s.relayout()
	return nil
}

// Pan shifts the transform origin and relays out every track.
func (s *Scene) Pan(delta time.Duration) {
	s.tf.Pan(delta)
	s.relayout()
}

func (s *Scene) relayout() {
	for _, tr := range s.order {
		tr.relayout()
	}
}

// Reorder moves a track to immediately precede before in the z order
// and renumbers all ranks densely and atomically. Reordering a track
// onto itself, or to a slot it already occupies, succeeds as a no-op.
func (s *Scene) Reorder(trackID, beforeID uuid.UUID) error {
	src, ok := s.tracks[trackID]
	if !ok {
		return NotFoundError{Kind: "track", ID: trackID}
	}
	dst, ok := s.tracks[beforeID]
	if !ok {
		return NotFoundError{Kind: "track", ID: beforeID}
	}
	if src == dst {
		return nil
	}
	if src.z+1 == dst.z {
		return nil // already immediately before the target
	}
	// Remove, then insert before the target's current slot.
	for i, tr := range s.order {
		if tr == src {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for i, tr := range s.order {
		if tr == dst {
			s.order = append(s.order[:i], append([]*Track{src}, s.order[i:]...)...)
			break
		}
	}
	s.renumber()
	return nil
}

// CirculateZ moves a track one rank up (toward 0) or down, wrapping at
// the ends. Bound to the up/down arrow keys.
func (s *Scene) CirculateZ(trackID uuid.UUID, up bool) error {
	tr, ok := s.tracks[trackID]
	if !ok {
		return NotFoundError{Kind: "track", ID: trackID}
	}
	n := len(s.order)
	if n < 2 {
		return nil
	}
	from := tr.z
	to := from + 1
	if up {
		to = from - 1
	}
	to = ((to % n) + n) % n
	s.order = append(s.order[:from], s.order[from+1:]...)
	s.order = append(s.order[:to], append([]*Track{tr}, s.order[to:]...)...)
	s.renumber()
	return nil
}

// SortTracks stable-sorts the z order by the given comparison; tracks
// comparing equal keep their prior relative order. This is a full
// re-rank performed as a single atomic update.
func (s *Scene) SortTracks(less func(a, b *Track) bool) {
	sort.SliceStable(s.order, func(i, j int) bool {
		return less(s.order[i], s.order[j])
	})
	s.renumber()
}

// SortTracksByMetadata sorts by the values under a metadata key. Tracks
// missing the key, or holding values that do not compare, sort after
// those that do and keep their relative order.
func (s *Scene) SortTracksByMetadata(key string) {
	s.SortTracks(func(a, b *Track) bool {
		av, aok := a.meta.Lookup(key)
		bv, bok := b.meta.Lookup(key)
		if !aok || !bok {
			return aok && !bok
		}
		less, ok := av.Less(bv)
		return ok && less
	})
}

// renumber reassigns dense 0..N-1 ranks from the order slice and
// refreshes the vertical placement of any track whose rank changed.
func (s *Scene) renumber() {
	for i, tr := range s.order {
		tr.setZ(i)
	}
}

// SelectTracks updates the track selection set. All ids are validated
// before any state changes, so an unknown id leaves the selection
// untouched.
func (s *Scene) SelectTracks(ids []uuid.UUID, mode SelectionMode) error {
	for _, id := range ids {
		if _, ok := s.tracks[id]; !ok {
			return NotFoundError{Kind: "track", ID: id}
		}
	}
	applySelection(s.selTracks, ids, mode)
	for id, tr := range s.tracks {
		_, tr.selected = s.selTracks[id]
	}
	return nil
}

// SelectFrames updates the frame selection set, independent of the
// track selection.
func (s *Scene) SelectFrames(ids []uuid.UUID, mode SelectionMode) error {
	for _, id := range ids {
		if _, ok := s.frameIndex[id]; !ok {
			return NotFoundError{Kind: "frame", ID: id}
		}
	}
	applySelection(s.selFrames, ids, mode)
	return nil
}

// SelectByMetadata evaluates the predicate against every track's and
// frame's metadata and applies the matches per mode. Absent keys are
// handled inside the predicate helpers and never error.
func (s *Scene) SelectByMetadata(pred Predicate, mode SelectionMode) {
	var trackIDs, frameIDs []uuid.UUID
	for _, tr := range s.order {
		if pred(tr.meta) {
			trackIDs = append(trackIDs, tr.id)
		}
		for _, f := range tr.frames {
			if pred(f.meta) {
				frameIDs = append(frameIDs, f.id)
			}
		}
	}
	// Ids come from live scene iteration, so the NotFound paths cannot
	// trigger.
	_ = s.SelectTracks(trackIDs, mode)
	_ = s.SelectFrames(frameIDs, mode)
}

// SelectedTracks returns the selected track ids in z order.
func (s *Scene) SelectedTracks() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.selTracks))
	for _, tr := range s.order {
		if _, ok := s.selTracks[tr.id]; ok {
			out = append(out, tr.id)
		}
	}
	return out
}

// SelectedFrames returns the selected frame ids in track, then layout,
// order.
func (s *Scene) SelectedFrames() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s.selFrames))
	for _, tr := range s.order {
		for _, f := range tr.frames {
			if _, ok := s.selFrames[f.id]; ok {
				out = append(out, f.id)
			}
		}
	}
	return out
}

// FrameSelected reports whether a frame is in the selection set.
func (s *Scene) FrameSelected(id uuid.UUID) bool {
	_, ok := s.selFrames[id]
	return ok
}

// ClearSelection empties both selection sets.
func (s *Scene) ClearSelection() {
	s.selTracks = make(map[uuid.UUID]struct{})
	s.selFrames = make(map[uuid.UUID]struct{})
	for _, tr := range s.tracks {
		tr.selected = false
	}
}

func applySelection(set map[uuid.UUID]struct{}, ids []uuid.UUID, mode SelectionMode) {
	switch mode {
	case SelectReplace:
		for id := range set {
			delete(set, id)
		}
		for _, id := range ids {
			set[id] = struct{}{}
		}
	case SelectAdd:
		for _, id := range ids {
			set[id] = struct{}{}
		}
	case SelectToggle:
		for _, id := range ids {
			if _, ok := set[id]; ok {
				delete(set, id)
			} else {
				set[id] = struct{}{}
			}
		}
	}
}
