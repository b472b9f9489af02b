package viewport

import "sync"

// EventKind identifies a viewport event.
type EventKind int

const (
	EventResize EventKind = iota
	EventOrientationChange
	EventVisualViewportResize
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventOrientationChange:
		return "orientationchange"
	case EventVisualViewportResize:
		return "visualviewport.resize"
	default:
		return "unknown"
	}
}

// EventSource delivers viewport events to listeners.
type EventSource interface {
	// Listen registers fn for kind and returns a function removing it.
	Listen(kind EventKind, fn func()) (remove func())
	// Supports reports whether the source ever emits kind.
	Supports(kind EventKind) bool
}

// VisualViewport is implemented by environments that track the visible
// area separately from the layout viewport.
type VisualViewport interface {
	VisualHeight() int
}

type listener struct {
	fn func()
}

// Window is an in-memory viewport: an Environment and an EventSource.
// Hosts feed it the sizes they observe (for example tea.WindowSizeMsg)
// and it dispatches the matching events synchronously.
type Window struct {
	mu           sync.Mutex
	width        int
	height       int
	visualHeight int
	visual       bool
	touch        TouchSignals
	metrics      CellMetrics
	listeners    map[EventKind][]*listener
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithTouchSignals sets the touch signals the window reports.
func WithTouchSignals(s TouchSignals) WindowOption {
	return func(w *Window) { w.touch = s }
}

// WithVisualViewport enables visual-viewport resize events.
func WithVisualViewport() WindowOption {
	return func(w *Window) { w.visual = true }
}

// WithCellMetrics sets the metrics used by ResizeCells.
func WithCellMetrics(m CellMetrics) WindowOption {
	return func(w *Window) { w.metrics = m.normalized() }
}

// NewWindow returns a window of the given pixel size. A zero size means
// "no viewport yet".
func NewWindow(width, height int, opts ...WindowOption) *Window {
	w := &Window{
		width:        width,
		height:       height,
		visualHeight: height,
		metrics:      DefaultCellMetrics,
		listeners:    make(map[EventKind][]*listener),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Size implements Environment.
func (w *Window) Size() (int, int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height, w.width > 0 && w.height > 0
}

// TouchSignals implements Environment.
func (w *Window) TouchSignals() TouchSignals {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.touch
}

// VisualHeight implements VisualViewport.
func (w *Window) VisualHeight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visualHeight
}

// Metrics returns the cell metrics used by ResizeCells.
func (w *Window) Metrics() CellMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Resize updates the dimensions and dispatches a resize event. The visible
// height follows the new window height.
func (w *Window) Resize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.visualHeight = height
	w.mu.Unlock()
	w.dispatch(EventResize)
}

// ResizeCells resizes the window from a terminal size in cells.
func (w *Window) ResizeCells(cols, rows int) {
	width, height := w.Metrics().ToPixels(cols, rows)
	w.Resize(width, height)
}

// Rotate swaps width and height and dispatches an orientation change.
func (w *Window) Rotate() {
	w.mu.Lock()
	w.width, w.height = w.height, w.width
	w.visualHeight = w.height
	w.mu.Unlock()
	w.dispatch(EventOrientationChange)
}

// SetSize updates the dimensions without dispatching anything. Hosts use
// it when the platform reports new dimensions after the event.
func (w *Window) SetSize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
	w.visualHeight = height
}

// DispatchOrientationChange emits an orientation change without touching
// the dimensions.
func (w *Window) DispatchOrientationChange() {
	w.dispatch(EventOrientationChange)
}

// ResizeVisual changes the visible height. It only dispatches when the
// window supports visual-viewport events.
func (w *Window) ResizeVisual(height int) {
	w.mu.Lock()
	w.visualHeight = height
	visual := w.visual
	w.mu.Unlock()
	if visual {
		w.dispatch(EventVisualViewportResize)
	}
}

// Listen implements EventSource.
func (w *Window) Listen(kind EventKind, fn func()) func() {
	l := &listener{fn: fn}
	w.mu.Lock()
	w.listeners[kind] = append(w.listeners[kind], l)
	w.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			ls := w.listeners[kind]
			for i, cur := range ls {
				if cur == l {
					w.listeners[kind] = append(ls[:i:i], ls[i+1:]...)
					break
				}
			}
		})
	}
}

// Supports implements EventSource.
func (w *Window) Supports(kind EventKind) bool {
	if kind == EventVisualViewportResize {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.visual
	}
	return true
}

// ListenerCount returns the number of listeners registered for kind.
func (w *Window) ListenerCount(kind EventKind) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners[kind])
}

func (w *Window) dispatch(kind EventKind) {
	w.mu.Lock()
	ls := make([]*listener, len(w.listeners[kind]))
	copy(ls, w.listeners[kind])
	w.mu.Unlock()
	for _, l := range ls {
		l.fn()
	}
}
