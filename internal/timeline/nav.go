package timeline

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Direction is a keyboard jump direction.
type Direction int

const (
	Next Direction = iota
	Prev
)

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// BoundarySource supplies frame boundary times the scene has not
// materialized, e.g. products known only to the workspace document.
// Implementations resolve their candidates up front; the scene never
// issues I/O of its own during a jump.
type BoundarySource interface {
	Boundaries() []time.Time
}

// BoundarySourceFunc adapts a function to the BoundarySource interface.
type BoundarySourceFunc func() []time.Time

func (fn BoundarySourceFunc) Boundaries() []time.Time { return fn() }

// SetPlayhead places the playhead directly, e.g. from a click on the
// time ruler, and notifies listeners.
func (s *Scene) SetPlayhead(at time.Time) {
	s.playhead = &at
	s.notifyPlayhead(at)
}

// Playhead returns the current playhead time; ok is false when the
// playhead has never been placed.
func (s *Scene) Playhead() (time.Time, bool) {
	if s.playhead == nil {
		return time.Time{}, false
	}
	return *s.playhead, true
}

// PlayheadCoord returns the playhead's scene X coordinate.
func (s *Scene) PlayheadCoord() (float64, bool) {
	if s.playhead == nil {
		return 0, false
	}
	return s.tf.TimeToCoord(*s.playhead), true
}

// OnPlayheadMoved registers a listener for playhead movement, so
// external agencies such as a synchronized player can follow along.
func (s *Scene) OnPlayheadMoved(fn func(time.Time)) {
	s.playheadFns = append(s.playheadFns, fn)
}

func (s *Scene) notifyPlayhead(at time.Time) {
	for _, fn := range s.playheadFns {
		fn(at)
	}
}

// Jump moves the playhead to the nearest frame boundary strictly after
// (Next) or before (Prev) the current playhead time, scoped to the
// current selection. With no selection, all frames are considered, plus
// any boundaries the external source reports. A playhead that was never
// placed is treated as negative infinity. There is no wraparound and an
// empty candidate set is a silent no-op: moved is false and the playhead
// is unchanged.
func (s *Scene) Jump(dir Direction) (at time.Time, moved bool) {
	boundaries := s.candidateBoundaries()
	if len(boundaries) == 0 {
		logrus.Debug("jump: no candidate boundaries")
		if s.playhead != nil {
			return *s.playhead, false
		}
		return time.Time{}, false
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].Before(boundaries[j]) })

	var target *time.Time
	switch dir {
	case Next:
		for i := range boundaries {
			if s.playhead == nil || boundaries[i].After(*s.playhead) {
				target = &boundaries[i]
				break
			}
		}
	case Prev:
		if s.playhead != nil {
			for i := len(boundaries) - 1; i >= 0; i-- {
				if boundaries[i].Before(*s.playhead) {
					target = &boundaries[i]
					break
				}
			}
		}
	}
	if target == nil {
		if s.playhead != nil {
			return *s.playhead, false
		}
		return time.Time{}, false
	}
	s.SetPlayhead(*target)
	return *target, true
}

// candidateBoundaries collects the start and end instants of every
// candidate frame. With any selection active, candidates are the frames
// of selected tracks plus directly selected frames; otherwise every
// frame in the scene plus the external source's boundaries.
func (s *Scene) candidateBoundaries() []time.Time {
	var out []time.Time
	scoped := len(s.selTracks) > 0 || len(s.selFrames) > 0
	if !scoped {
		for _, tr := range s.order {
			for _, f := range tr.frames {
				out = append(out, f.start, f.End())
			}
		}
		if s.source != nil {
			out = append(out, s.source.Boundaries()...)
		}
		return out
	}
	seen := make(map[uuid.UUID]struct{})
	for _, tr := range s.order {
		_, trackSelected := s.selTracks[tr.id]
		for _, f := range tr.frames {
			_, frameSelected := s.selFrames[f.id]
			if !trackSelected && !frameSelected {
				continue
			}
			if _, dup := seen[f.id]; dup {
				continue
			}
			seen[f.id] = struct{}{}
			out = append(out, f.start, f.End())
		}
	}
	return out
}
