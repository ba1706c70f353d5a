package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/polarhour/frameline/internal/timeline"
)

//nolint:gochecknoglobals // immutable style table used across the package.
var (
	styleHeader   = lipgloss.NewStyle().Bold(true)
	styleDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true)
	stylePlayhead = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleSelected = lipgloss.NewStyle().Reverse(true)

	stateStyles = map[timeline.FrameState]lipgloss.Style{
		timeline.StateUnknown:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		timeline.StateAvailable: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		timeline.StateReady:     lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		timeline.StateCurrent:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		timeline.StateMissing:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		timeline.StateError:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderRuler())
	b.WriteString("\n")

	playheadCol := m.playheadColumn()
	for i, tr := range m.scene.Tracks() {
		b.WriteString(m.renderLane(tr, i, playheadCol))
		b.WriteString("\n")
	}

	if m.helpVisible {
		b.WriteString("\n")
		b.WriteString(renderHelp())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	left := styleHeader.Render("frameline") + " " + m.title
	zoom := fmt.Sprintf("%.3g px/s", m.scene.Transform().PixelsPerSecond())
	right := styleDim.Render(zoom)
	if at, ok := m.scene.Playhead(); ok {
		right += "  " + stylePlayhead.Render(at.UTC().Format(time.RFC3339))
	}
	if m.statusMsg != "" {
		right += "  " + styleDim.Render(m.statusMsg)
	}
	return left + "  " + right
}

// renderRuler draws the labeled time axis across the lane viewport.
func (m Model) renderRuler() string {
	cells := m.laneCells()
	labels := make([]byte, 0, cells)
	ticks := make([]byte, 0, cells)
	for col := 0; col < cells; {
		if col%rulerTickCells == 0 {
			at, err := m.scene.Transform().CoordToTime(m.viewX + float64(col)*pixelsPerCell)
			label := "?"
			if err == nil {
				label = at.UTC().Format("15:04")
			}
			if col+len(label) > cells {
				label = label[:cells-col]
			}
			labels = append(labels, label...)
			ticks = append(ticks, '+')
			for i := 1; i < len(label); i++ {
				ticks = append(ticks, '-')
			}
			col += len(label)
			continue
		}
		labels = append(labels, ' ')
		ticks = append(ticks, '-')
		col++
	}
	gutter := strings.Repeat(" ", gutterWidth)
	return gutter + styleDim.Render(string(labels)) + "\n" + gutter + styleDim.Render(string(ticks))
}

// renderLane draws one track row: gutter with markers and title, then
// the frame blocks, selection highlights, and playhead overlay.
func (m Model) renderLane(tr *timeline.Track, idx, playheadCol int) string {
	cells := m.laneCells()

	marker := "  "
	if idx == m.cursor {
		marker = styleCursor.Render("> ")
	}
	if m.grabbed != nil && *m.grabbed == tr.ID() {
		marker = styleCursor.Render("≡ ")
	}
	sel := " "
	if tr.Selected() {
		sel = styleCursor.Render("*")
	}
	title := tr.Title()
	if tr.Colormap() != "" {
		title += " [" + tr.Colormap() + "]"
	}
	maxTitle := gutterWidth - 5
	if len(title) > maxTitle {
		title = title[:maxTitle-1] + "…"
	}
	gutter := marker + sel + " " + title
	pad := gutterWidth - 4 - len(title)
	if pad > 0 {
		gutter += strings.Repeat(" ", pad)
	}

	anchor, ok := tr.Anchor()
	if !ok {
		return gutter + styleDim.Render("(no frames)")
	}

	// Paint per-cell frame occupancy, then emit styled runs.
	occupant := make([]*timeline.Frame, cells)
	for _, f := range tr.Frames() {
		x := anchor.X + f.Pos()
		c0, c1 := cellRange(x, f.Bounds().W, m.viewX, cells)
		for c := c0; c < c1; c++ {
			occupant[c] = f
		}
	}

	var row strings.Builder
	for c := 0; c < cells; c++ {
		if c == playheadCol {
			row.WriteString(stylePlayhead.Render("│"))
			continue
		}
		f := occupant[c]
		if f == nil {
			row.WriteString(" ")
			continue
		}
		style := stateStyles[f.State()]
		if m.scene.FrameSelected(f.ID()) {
			style = style.Inherit(styleSelected)
		}
		row.WriteString(style.Render("█"))
	}
	return gutter + row.String()
}

// cellRange maps a scene-space span to a half-open terminal cell range
// clamped to the viewport. A non-empty span always covers at least one
// cell so short frames stay visible.
func cellRange(x, w, viewX float64, cells int) (int, int) {
	c0 := int((x - viewX) / pixelsPerCell)
	c1 := int((x + w - viewX) / pixelsPerCell)
	if c1 <= c0 {
		c1 = c0 + 1
	}
	if c0 < 0 {
		c0 = 0
	}
	if c1 > cells {
		c1 = cells
	}
	if c0 >= cells || c1 <= 0 {
		return 0, 0
	}
	return c0, c1
}

// playheadColumn returns the viewport cell the playhead occupies, or -1
// when it is not visible.
func (m Model) playheadColumn() int {
	x, ok := m.scene.PlayheadCoord()
	if !ok {
		return -1
	}
	col := int((x - m.viewX) / pixelsPerCell)
	if col < 0 || col >= m.laneCells() {
		return -1
	}
	return col
}

func renderHelp() string {
	border := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).Foreground(lipgloss.Color("69"))
	content := []string{
		"Help",
		"",
		"←/→: jump playhead to prev/next frame boundary",
		"↑/↓ or k/j: move cursor between tracks",
		"shift+↑/↓: circulate track in z-order",
		"space: toggle track selection   f: toggle frames under playhead",
		"g: grab/drop track (reorder)    c: drop palette colormap",
		"+/-: zoom (pivot on view center)   h/l: pan",
		"p: play/pause   0: playhead to view start   s: sort by title",
		"esc: clear selection / cancel grab   q: quit",
	}
	return border.Render(strings.Join(content, "\n"))
}

func (m Model) renderFooter() string {
	mode := ""
	if m.playing {
		mode = " • playing"
	}
	if m.grabbed != nil {
		mode += " • grab in flight"
	}
	return styleDim.Render("←/→ jump • g grab • c colormap • +/- zoom • h/l pan • ? help • q quit" + mode)
}
