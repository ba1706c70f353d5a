package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/polarhour/frameline/internal/catalog"
	"github.com/polarhour/frameline/internal/timeline"
)

// Model is the root Bubble Tea model. It owns no timeline state of its
// own beyond view concerns: the scene is the single source of truth and
// every mutation goes through its public operations.
type Model struct {
	scene *timeline.Scene
	title string

	// states is the optional catalog the model polls for display-state
	// changes. nil disables polling.
	states catalog.StateSource

	keys   keyMap
	width  int
	height int

	// cursor is the z index of the track under the keyboard cursor.
	cursor int

	// viewX is the scene X coordinate at the left edge of the lane area.
	viewX float64

	// grabbed holds the in-flight track-reorder drag payload, if any.
	grabbed *uuid.UUID

	playing     bool
	paletteIdx  int
	helpVisible bool
	statusMsg   string
	quitting    bool
}

// NewModel constructs a Model around a built scene.
func NewModel(title string, scene *timeline.Scene, states catalog.StateSource) Model {
	return Model{
		scene:  scene,
		title:  title,
		states: states,
		keys:   newKeyMap(),
		viewX:  -pixelsPerCell, // one cell of margin left of the origin
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.states == nil {
		return nil
	}
	return m.schedulePoll()
}

// schedulePoll arms the next catalog poll.
func (m Model) schedulePoll() tea.Cmd {
	return tea.Tick(statePollInterval, func(time.Time) tea.Msg {
		return pollStatesMsg{}
	})
}

// fetchStates queries the catalog for every frame currently in the
// scene and reports the result as a message.
func (m Model) fetchStates() tea.Cmd {
	scene := m.scene
	source := m.states
	return func() tea.Msg {
		var ids []uuid.UUID
		for _, tr := range scene.Tracks() {
			for _, f := range tr.Frames() {
				ids = append(ids, f.ID())
			}
		}
		states, err := source.FrameStates(context.Background(), ids)
		return statesMsg{States: states, Err: err}
	}
}

// tickPlay arms the next play-mode tick.
func (m Model) tickPlay() tea.Cmd {
	return tea.Tick(playTickInterval, func(time.Time) tea.Msg {
		return tickPlayMsg{}
	})
}
