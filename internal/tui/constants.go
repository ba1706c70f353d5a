package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	// One terminal cell covers this many scene pixels. At the default
	// transform scale of 1 px/s that makes a cell one minute wide.
	pixelsPerCell = 60.0

	// gutterWidth is the left column holding track titles and markers.
	gutterWidth = 26

	// rulerTickCells spaces the labeled ticks on the time ruler.
	rulerTickCells = 15

	// zoomStep is the factor applied per zoom keypress.
	zoomStep = 1.25

	// panFraction of the visible span shifted per pan keypress.
	panFraction = 0.25

	playTickMS      = 500
	playStepSeconds = 60
	statePollSecs   = 5

	playTickInterval  = playTickMS * time.Millisecond
	playStep          = playStepSeconds * time.Second
	statePollInterval = statePollSecs * time.Second
	minLaneCells      = 10
)

// palette is the built-in colormap palette a colormap drag starts from.
//
//nolint:gochecknoglobals // immutable lookup table used across the package.
var palette = []string{"viridis", "magma", "plasma", "cividis", "grayscale"}
