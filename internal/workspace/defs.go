// Package workspace loads scene definition files and builds live scenes
// from them. The definitions stand in for the product metadata store:
// track and frame identities, metadata, and display states are supplied
// here, while the timeline core only consumes them.
package workspace

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/polarhour/frameline/internal/timeline"
	"github.com/polarhour/frameline/internal/timescale"
	"github.com/polarhour/frameline/internal/validate"
)

// defaultPixelsPerSecond renders an hour as 3600 scene pixels; views
// scale down from scene pixels to their own cells.
const defaultPixelsPerSecond = 1.0

// SceneDef is the on-disk shape of a scene definition file.
type SceneDef struct {
	Title           string      `yaml:"title"`
	Origin          time.Time   `yaml:"origin"`
	PixelsPerSecond float64     `yaml:"pixels_per_second" validate:"omitempty,gt=0"`
	Tracks          []TrackDef  `yaml:"tracks" validate:"required,min=1,dive"`
	Document        DocumentDef `yaml:"document"`
}

// TrackDef describes one lane.
type TrackDef struct {
	ID       string         `yaml:"id" validate:"omitempty,uuid_rfc4122"`
	Title    string         `yaml:"title" validate:"required"`
	Subtitle string         `yaml:"subtitle"`
	Family   string         `yaml:"family"`
	Icon     string         `yaml:"icon"`
	Colormap string         `yaml:"colormap"`
	Range    *RangeDef      `yaml:"range"`
	Metadata map[string]any `yaml:"metadata"`
	Frames   []FrameDef     `yaml:"frames" validate:"dive"`
}

// FrameDef describes one frame on a track. Duration uses Go syntax
// ("10m", "1h30m").
type FrameDef struct {
	ID        string         `yaml:"id" validate:"omitempty,uuid_rfc4122"`
	Start     time.Time      `yaml:"start" validate:"required"`
	Duration  string         `yaml:"duration" validate:"required"`
	State     string         `yaml:"state" validate:"omitempty,framestate"`
	Title     string         `yaml:"title"`
	Subtitle  string         `yaml:"subtitle"`
	Thumbnail string         `yaml:"thumbnail"`
	Metadata  map[string]any `yaml:"metadata"`
}

// RangeDef is the optional colormap data range.
type RangeDef struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// DocumentDef lists frame boundaries the workspace knows about that are
// not materialized into the scene, so unscoped navigation can still
// reach them.
type DocumentDef struct {
	Times []time.Time `yaml:"boundaries"`
}

// Load reads, parses, and validates a scene definition file.
func Load(path string) (*SceneDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene definition: %w", err)
	}
	var def SceneDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse scene definition %s: %w", path, err)
	}
	if err := validate.Struct(def); err != nil {
		return nil, fmt.Errorf("invalid scene definition %s: %w", path, err)
	}
	for _, td := range def.Tracks {
		if td.Range != nil && td.Range.Min >= td.Range.Max {
			return nil, fmt.Errorf("invalid scene definition %s: track %q range min >= max", path, td.Title)
		}
		for fi, fd := range td.Frames {
			d, err := time.ParseDuration(fd.Duration)
			if err != nil {
				return nil, fmt.Errorf("invalid scene definition %s: track %q frame %d: %w", path, td.Title, fi, err)
			}
			if d < 0 {
				return nil, fmt.Errorf("invalid scene definition %s: track %q frame %d: negative duration", path, td.Title, fi)
			}
		}
	}
	logrus.WithFields(logrus.Fields{"path": path, "tracks": len(def.Tracks)}).Debug("loaded scene definition")
	return &def, nil
}

// Build constructs a live scene from the definition. The transform
// origin defaults to the earliest frame start when unset.
func (d *SceneDef) Build() (*timeline.Scene, error) {
	pps := d.PixelsPerSecond
	if pps == 0 {
		pps = defaultPixelsPerSecond
	}
	origin := d.Origin
	if origin.IsZero() {
		origin = d.earliestStart()
	}
	tf, err := timescale.New(origin, pps)
	if err != nil {
		return nil, err
	}
	scene := timeline.NewScene(tf)
	for _, td := range d.Tracks {
		spec := timeline.TrackSpec{
			Title:    td.Title,
			Subtitle: td.Subtitle,
			Icon:     td.Icon,
			Colormap: td.Colormap,
			Metadata: toMetadata(td.Metadata),
		}
		if td.Family != "" {
			if spec.Metadata == nil {
				spec.Metadata = timeline.Metadata{}
			}
			spec.Metadata[timeline.FamilyKey] = timeline.StringValue(td.Family)
		}
		if td.Range != nil {
			spec.ValueRange = &timeline.ValueRange{Min: td.Range.Min, Max: td.Range.Max}
		}
		if td.ID != "" {
			spec.ID = uuid.MustParse(td.ID) // format checked by validation
		}
		tr, err := scene.AddTrack(spec)
		if err != nil {
			return nil, fmt.Errorf("build track %q: %w", td.Title, err)
		}
		for fi, fd := range td.Frames {
			dur, err := time.ParseDuration(fd.Duration)
			if err != nil {
				return nil, fmt.Errorf("build track %q frame %d: %w", td.Title, fi, err)
			}
			state := timeline.StateUnknown
			if fd.State != "" {
				state, err = timeline.ParseFrameState(fd.State)
				if err != nil {
					return nil, fmt.Errorf("build track %q frame %d: %w", td.Title, fi, err)
				}
			}
			spec := timeline.FrameSpec{
				Start:     fd.Start,
				Duration:  dur,
				State:     state,
				Title:     fd.Title,
				Subtitle:  fd.Subtitle,
				Thumbnail: fd.Thumbnail,
				Metadata:  toMetadata(fd.Metadata),
			}
			if fd.ID != "" {
				spec.ID = uuid.MustParse(fd.ID)
			}
			if _, err := scene.AddFrame(tr.ID(), spec); err != nil {
				return nil, fmt.Errorf("build track %q frame %d: %w", td.Title, fi, err)
			}
		}
	}
	scene.SetBoundarySource(d.Document)
	return scene, nil
}

// Boundaries implements timeline.BoundarySource over the document's
// unmaterialized frames.
func (d DocumentDef) Boundaries() []time.Time {
	out := make([]time.Time, len(d.Times))
	copy(out, d.Times)
	return out
}

func (d *SceneDef) earliestStart() time.Time {
	var earliest time.Time
	for _, td := range d.Tracks {
		for _, fd := range td.Frames {
			if earliest.IsZero() || fd.Start.Before(earliest) {
				earliest = fd.Start
			}
		}
	}
	if earliest.IsZero() {
		earliest = time.Now().UTC()
	}
	return earliest
}

// toMetadata converts loose YAML values into the closed metadata
// variant type. Unrecognized types fall back to their string form.
func toMetadata(in map[string]any) timeline.Metadata {
	if len(in) == 0 {
		return nil
	}
	out := make(timeline.Metadata, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case string:
			out[k] = timeline.StringValue(val)
		case bool:
			out[k] = timeline.BoolValue(val)
		case int:
			out[k] = timeline.NumberValue(float64(val))
		case int64:
			out[k] = timeline.NumberValue(float64(val))
		case float64:
			out[k] = timeline.NumberValue(val)
		case time.Time:
			out[k] = timeline.TimeValue(val)
		default:
			out[k] = timeline.StringValue(fmt.Sprint(val))
		}
	}
	return out
}
