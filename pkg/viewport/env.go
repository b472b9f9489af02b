package viewport

import (
	"os"
	"strconv"
	"sync"

	"golang.org/x/term"
)

// Environment supplies the raw viewport signals.
type Environment interface {
	// Size returns the current dimensions in pixels. ok is false when the
	// environment has no interactive viewport.
	Size() (width, height int, ok bool)
	// TouchSignals returns the input-capability signals.
	TouchSignals() TouchSignals
}

// CellMetrics converts terminal cells to pixels.
type CellMetrics struct {
	Width  int `koanf:"width" yaml:"width" json:"width"`
	Height int `koanf:"height" yaml:"height" json:"height"`
}

// DefaultCellMetrics is a typical monospace cell.
var DefaultCellMetrics = CellMetrics{Width: 8, Height: 16}

func (m CellMetrics) normalized() CellMetrics {
	if m.Width <= 0 {
		m.Width = DefaultCellMetrics.Width
	}
	if m.Height <= 0 {
		m.Height = DefaultCellMetrics.Height
	}
	return m
}

// ToPixels converts a cell size to pixels.
func (m CellMetrics) ToPixels(cols, rows int) (int, int) {
	m = m.normalized()
	return cols * m.Width, rows * m.Height
}

// ToCells converts a pixel size to whole cells.
func (m CellMetrics) ToCells(width, height int) (int, int) {
	m = m.normalized()
	return width / m.Width, height / m.Height
}

// TerminalEnv reads the controlling terminal attached to a file descriptor.
type TerminalEnv struct {
	fd      int
	metrics CellMetrics
	getenv  func(string) string

	touchOnce sync.Once
	touch     TouchSignals
}

// NewTerminalEnv returns an environment for stdout.
func NewTerminalEnv(metrics CellMetrics) *TerminalEnv {
	return &TerminalEnv{
		fd:      int(os.Stdout.Fd()),
		metrics: metrics.normalized(),
		getenv:  os.Getenv,
	}
}

// Size implements Environment. It asks the terminal first, then COLUMNS
// and LINES. Without either it reports no viewport.
func (e *TerminalEnv) Size() (int, int, bool) {
	cols, rows, err := term.GetSize(e.fd)
	if err != nil || cols <= 0 || rows <= 0 {
		cols, _ = strconv.Atoi(e.getenv("COLUMNS"))
		rows, _ = strconv.Atoi(e.getenv("LINES"))
	}
	if cols <= 0 || rows <= 0 {
		return 0, 0, false
	}
	w, h := e.metrics.ToPixels(cols, rows)
	return w, h, true
}

// TouchSignals implements Environment. Signals are read once; touch
// capability does not change during a session.
func (e *TerminalEnv) TouchSignals() TouchSignals {
	e.touchOnce.Do(func() {
		e.touch = terminalTouchSignals(e.getenv)
	})
	return e.touch
}

// Metrics returns the cell metrics in use.
func (e *TerminalEnv) Metrics() CellMetrics {
	return e.metrics
}
