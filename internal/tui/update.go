package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint:ireturn
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(x)
		return m, cmd

	case tickPlayMsg:
		if !m.playing {
			return m, nil
		}
		m.advancePlayhead()
		return m, m.tickPlay()

	case pollStatesMsg:
		if m.states == nil {
			return m, nil
		}
		return m, tea.Batch(m.fetchStates(), m.schedulePoll())

	case statesMsg:
		if x.Err != nil {
			logrus.WithError(x.Err).Debug("catalog poll failed")
			m.statusMsg = "catalog unreachable"
			return m, nil
		}
		m.applyStates(x.States)
		return m, nil
	}

	return m, nil
}
