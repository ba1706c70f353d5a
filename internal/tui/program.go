package tui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/polarhour/frameline/internal/catalog"
	"github.com/polarhour/frameline/internal/timeline"
)

// Run starts the interactive timeline viewer and blocks until the user
// quits. Log output is silenced for the duration so it cannot corrupt
// the alternate screen.
func Run(title string, scene *timeline.Scene, states catalog.StateSource) error {
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(prevOut)

	scene.OnPlayheadMoved(func(at time.Time) {
		logrus.WithField("at", at.UTC().Format(time.RFC3339)).Debug("playhead moved")
	})

	m := NewModel(title, scene, states)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running timeline viewer: %w", err)
	}
	return nil
}
