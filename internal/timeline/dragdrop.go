package timeline

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FamilyKey is the metadata key grouping tracks into a product family.
// A colormap dropped on one track applies to its whole family.
const FamilyKey = "family"

// PayloadKind discriminates drag payloads. Acceptance is decided on the
// kind alone, never on payload content, so the rendering layer can show
// accept/reject affordance live during the drag.
type PayloadKind int

const (
	PayloadUnknown PayloadKind = iota
	PayloadTrackReorder
	PayloadColormap
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadTrackReorder:
		return "track-reorder"
	case PayloadColormap:
		return "colormap"
	default:
		return "unknown"
	}
}

// Payload is a typed drag payload. The core validates and routes
// payloads; rendering the drag itself belongs to the view layer.
type Payload interface {
	Kind() PayloadKind
}

// TrackReorderPayload carries the track being dragged up or down the z
// order. Dropping it on a target track moves it to just before the
// target.
type TrackReorderPayload struct {
	TrackID uuid.UUID
}

func (TrackReorderPayload) Kind() PayloadKind { return PayloadTrackReorder }

// ColormapOrigin says where a dragged colormap came from.
type ColormapOrigin int

const (
	OriginPalette ColormapOrigin = iota
	OriginTrack
)

// ColormapPayload carries an opaque colormap reference dragged off an
// external palette or another track.
type ColormapPayload struct {
	Colormap    string
	Origin      ColormapOrigin
	SourceTrack uuid.UUID // valid when Origin == OriginTrack
}

func (ColormapPayload) Kind() PayloadKind { return PayloadColormap }

// ColormapApplier performs the colormap side effect on the tracks'
// backing products. The scene only recognizes the payload and routes.
type ColormapApplier interface {
	ApplyColormap(tracks []*Track, colormap string)
}

// Accepts reports whether scene drop targets take a payload of the
// given kind. It is stateless and side-effect free, so the rendering
// layer may query it repeatedly while a drag is in flight.
func (s *Scene) Accepts(kind PayloadKind) bool {
	return kind == PayloadTrackReorder || kind == PayloadColormap
}

// Drop routes a payload dropped onto the named track. A track dropped
// onto itself is a successful no-op; an unrecognized payload kind is
// silently ignored rather than an error.
func (s *Scene) Drop(targetID uuid.UUID, p Payload) error {
	target, ok := s.tracks[targetID]
	if !ok {
		return NotFoundError{Kind: "track", ID: targetID}
	}
	switch payload := p.(type) {
	case TrackReorderPayload:
		if payload.TrackID == targetID {
			return nil
		}
		return s.Reorder(payload.TrackID, targetID)
	case ColormapPayload:
		s.applyColormapToFamily(target, payload.Colormap)
		return nil
	default:
		logrus.WithField("kind", p.Kind()).Debug("ignoring unrecognized drop payload")
		return nil
	}
}

// applyColormapToFamily adopts the colormap on every track sharing the
// target's family. A target without a family applies to itself alone.
func (s *Scene) applyColormapToFamily(target *Track, colormap string) {
	members := []*Track{target}
	if family, ok := target.meta.Lookup(FamilyKey); ok {
		members = members[:0]
		for _, tr := range s.order {
			if v, ok := tr.meta.Lookup(FamilyKey); ok && v.Equal(family) {
				members = append(members, tr)
			}
		}
	}
	for _, tr := range members {
		tr.SetColormap(colormap)
	}
	if s.applier != nil {
		s.applier.ApplyColormap(members, colormap)
	}
}
