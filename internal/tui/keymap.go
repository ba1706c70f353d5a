package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines global key bindings used across the TUI.
type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	JumpPrev    key.Binding
	JumpNext    key.Binding
	Up          key.Binding
	Down        key.Binding
	CirculateUp key.Binding
	CirculateDn key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	PanLeft     key.Binding
	PanRight    key.Binding
	Select      key.Binding
	SelectFrame key.Binding
	Escape      key.Binding
	Sort        key.Binding
	Grab        key.Binding
	Colormap    key.Binding
	Play        key.Binding
	RulerHome   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		JumpPrev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "jump to previous frame boundary"),
		),
		JumpNext: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "jump to next frame boundary"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "cursor up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "cursor down"),
		),
		CirculateUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("shift+↑", "circulate track up"),
		),
		CirculateDn: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("shift+↓", "circulate track down"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "zoom out"),
		),
		PanLeft: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "pan left"),
		),
		PanRight: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "pan right"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle track selection"),
		),
		SelectFrame: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "toggle frames under playhead"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear selection / cancel grab"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort tracks by title"),
		),
		Grab: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grab/drop track (reorder)"),
		),
		Colormap: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "drop next palette colormap"),
		),
		Play: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "play/pause"),
		),
		RulerHome: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "place playhead at view start"),
		),
	}
}
