package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/polarhour/frameline/internal/catalog"
	"github.com/polarhour/frameline/internal/timeline"
)

// handleKey processes key bindings and returns updated model and command.
//
//nolint:gocyclo,cyclop,funlen // one arm per binding keeps the dispatch flat and readable.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
		return m, nil

	case key.Matches(msg, m.keys.JumpNext):
		m.jump(timeline.Next)
		return m, nil

	case key.Matches(msg, m.keys.JumpPrev):
		m.jump(timeline.Prev)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.CirculateUp):
		m.circulate(true)
		return m, nil

	case key.Matches(msg, m.keys.CirculateDn):
		m.circulate(false)
		return m, nil

	case key.Matches(msg, m.keys.ZoomIn):
		m.zoom(zoomStep)
		return m, nil

	case key.Matches(msg, m.keys.ZoomOut):
		m.zoom(1 / zoomStep)
		return m, nil

	case key.Matches(msg, m.keys.PanLeft):
		m.pan(-1)
		return m, nil

	case key.Matches(msg, m.keys.PanRight):
		m.pan(1)
		return m, nil

	case key.Matches(msg, m.keys.Select):
		m.toggleSelectCursorTrack()
		return m, nil

	case key.Matches(msg, m.keys.SelectFrame):
		m.toggleSelectFramesUnderPlayhead()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.grabbed != nil {
			m.grabbed = nil
			m.statusMsg = "grab cancelled"
			return m, nil
		}
		m.scene.ClearSelection()
		m.statusMsg = "selection cleared"
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.scene.SortTracks(func(a, b *timeline.Track) bool {
			return strings.ToLower(a.Title()) < strings.ToLower(b.Title())
		})
		m.clampCursor()
		m.statusMsg = "sorted by title"
		return m, nil

	case key.Matches(msg, m.keys.Grab):
		m.grabOrDrop()
		return m, nil

	case key.Matches(msg, m.keys.Colormap):
		m.dropPaletteColormap()
		return m, nil

	case key.Matches(msg, m.keys.Play):
		m.playing = !m.playing
		if m.playing {
			return m, m.tickPlay()
		}
		return m, nil

	case key.Matches(msg, m.keys.RulerHome):
		// Equivalent of a click on the left edge of the time ruler.
		if at, err := m.scene.Transform().CoordToTime(m.viewX + pixelsPerCell); err == nil {
			m.scene.SetPlayhead(at)
		}
		return m, nil
	}

	return m, nil
}

// cursorTrack returns the track under the keyboard cursor.
func (m *Model) cursorTrack() (*timeline.Track, bool) {
	tracks := m.scene.Tracks()
	if m.cursor < 0 || m.cursor >= len(tracks) {
		return nil, false
	}
	return tracks[m.cursor], true
}

func (m *Model) clampCursor() {
	if n := m.scene.Len(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// moveCursor moves the keyboard cursor between lanes.
func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// circulate moves the cursor track one rank up or down, wrapping, and
// keeps the cursor on it.
func (m *Model) circulate(up bool) {
	tr, ok := m.cursorTrack()
	if !ok {
		return
	}
	if err := m.scene.CirculateZ(tr.ID(), up); err != nil {
		logrus.WithError(err).Debug("circulate failed")
		return
	}
	m.cursor = tr.Z()
}

// jump asks the scene for the next or previous frame boundary and
// follows the playhead with the viewport.
func (m *Model) jump(dir timeline.Direction) {
	at, moved := m.scene.Jump(dir)
	if !moved {
		m.statusMsg = fmt.Sprintf("no %s boundary", dir)
		return
	}
	m.statusMsg = "playhead " + at.UTC().Format(time.RFC3339)
	m.followPlayhead()
}

// zoom pivots on the time at the center of the lane viewport, the
// keyboard equivalent of an anchor under the cursor.
func (m *Model) zoom(factor float64) {
	centerX := m.viewX + float64(m.laneCells())/2*pixelsPerCell
	anchor, err := m.scene.Transform().CoordToTime(centerX)
	if err != nil {
		logrus.WithError(err).Error("zoom anchor")
		return
	}
	if err := m.scene.Zoom(factor, anchor); err != nil {
		logrus.WithError(err).Debug("zoom rejected")
	}
}

// pan shifts the transform by a fraction of the visible span.
func (m *Model) pan(sign int) {
	visible := float64(m.laneCells()) * pixelsPerCell / m.scene.Transform().PixelsPerSecond()
	delta := time.Duration(float64(sign) * visible * panFraction * float64(time.Second))
	// Panning the content left means shifting the origin forward.
	m.scene.Pan(delta)
}

func (m *Model) toggleSelectCursorTrack() {
	tr, ok := m.cursorTrack()
	if !ok {
		return
	}
	if err := m.scene.SelectTracks([]uuid.UUID{tr.ID()}, timeline.SelectToggle); err != nil {
		logrus.WithError(err).Debug("select track failed")
	}
}

// toggleSelectFramesUnderPlayhead selects the frames the playhead
// currently intersects on the cursor track.
func (m *Model) toggleSelectFramesUnderPlayhead() {
	at, ok := m.scene.Playhead()
	if !ok {
		m.statusMsg = "no playhead placed"
		return
	}
	tr, ok := m.cursorTrack()
	if !ok {
		return
	}
	hits := tr.FramesUnder(at)
	if len(hits) == 0 {
		m.statusMsg = "no frame under playhead"
		return
	}
	ids := make([]uuid.UUID, len(hits))
	for i, f := range hits {
		ids[i] = f.ID()
	}
	if err := m.scene.SelectFrames(ids, timeline.SelectToggle); err != nil {
		logrus.WithError(err).Debug("select frames failed")
	}
}

// grabOrDrop implements the track-reorder drag with the keyboard: the
// first press picks up the cursor track as a payload, the second drops
// it onto the track now under the cursor.
func (m *Model) grabOrDrop() {
	tr, ok := m.cursorTrack()
	if !ok {
		return
	}
	if m.grabbed == nil {
		id := tr.ID()
		m.grabbed = &id
		m.statusMsg = fmt.Sprintf("grabbed %q", tr.Title())
		return
	}
	payload := timeline.TrackReorderPayload{TrackID: *m.grabbed}
	if !m.scene.Accepts(payload.Kind()) {
		m.grabbed = nil
		return
	}
	if err := m.scene.Drop(tr.ID(), payload); err != nil {
		logrus.WithError(err).Warn("track drop failed")
		m.statusMsg = "drop failed"
	} else {
		m.statusMsg = fmt.Sprintf("dropped before %q", tr.Title())
	}
	m.grabbed = nil
	m.clampCursor()
}

// dropPaletteColormap drops the next palette colormap onto the cursor
// track, cycling through the palette on repeated presses.
func (m *Model) dropPaletteColormap() {
	tr, ok := m.cursorTrack()
	if !ok {
		return
	}
	payload := timeline.ColormapPayload{
		Colormap: palette[m.paletteIdx%len(palette)],
		Origin:   timeline.OriginPalette,
	}
	m.paletteIdx++
	if !m.scene.Accepts(payload.Kind()) {
		return
	}
	if err := m.scene.Drop(tr.ID(), payload); err != nil {
		logrus.WithError(err).Warn("colormap drop failed")
		return
	}
	m.statusMsg = fmt.Sprintf("colormap %s -> %q family", payload.Colormap, tr.Title())
}

// advancePlayhead steps play mode forward and scrolls to follow.
func (m *Model) advancePlayhead() {
	at, ok := m.scene.Playhead()
	if !ok {
		if x, err := m.scene.Transform().CoordToTime(m.viewX); err == nil {
			at = x
		}
	}
	m.scene.SetPlayhead(at.Add(playStep))
	m.followPlayhead()
}

// followPlayhead pans the viewport when the playhead leaves it.
func (m *Model) followPlayhead() {
	x, ok := m.scene.PlayheadCoord()
	if !ok {
		return
	}
	right := m.viewX + float64(m.laneCells())*pixelsPerCell
	if x > right {
		m.viewX = x - float64(m.laneCells())*pixelsPerCell/2
	} else if x < m.viewX {
		m.viewX = x - pixelsPerCell
	}
}

// applyStates folds a catalog poll result into the scene.
func (m *Model) applyStates(states map[uuid.UUID]timeline.FrameState) {
	if changed := catalog.Apply(m.scene, states); changed > 0 {
		m.statusMsg = fmt.Sprintf("%d frame state(s) updated", changed)
	}
}

// laneCells is the width of the lane viewport in terminal cells.
func (m *Model) laneCells() int {
	cells := m.width - gutterWidth
	if cells < minLaneCells {
		cells = minLaneCells
	}
	return cells
}
