// Package responsive owns the live viewport classification for one
// application instance and the UI flags derived from it.
//
// A Store is created per application root and scoped through a
// context.Context; there is no package-level state, so independent stores
// (for example in parallel tests) never interfere.
package responsive

import (
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/watcher"
)

// DefaultKeyboardThreshold is the height loss, in pixels, above which an
// on-screen keyboard is assumed to be visible.
const DefaultKeyboardThreshold = 150

// ErrAlreadyMounted is returned by Mount on a store that is mounted.
var ErrAlreadyMounted = errors.New("responsive: store already mounted")

// UIState is the component-facing state. The breakpoint flags and
// Orientation are projections of the viewport; MenuOpen and
// KeyboardLikelyVisible are UI flags.
type UIState struct {
	IsMobile    bool                 `json:"is_mobile" yaml:"is_mobile"`
	IsTablet    bool                 `json:"is_tablet" yaml:"is_tablet"`
	IsDesktop   bool                 `json:"is_desktop" yaml:"is_desktop"`
	Orientation viewport.Orientation `json:"orientation" yaml:"orientation"`
	MenuOpen    bool                 `json:"menu_open" yaml:"menu_open"`
	// KeyboardLikelyVisible is a heuristic based on viewport height loss on
	// touch devices. It can be wrong (split keyboards, browser chrome,
	// unusual devices) and must not be treated as ground truth.
	KeyboardLikelyVisible bool `json:"keyboard_likely_visible" yaml:"keyboard_likely_visible"`
}

// Snapshot is a read-only copy of everything a consumer may read.
type Snapshot struct {
	Viewport viewport.State  `json:"viewport" yaml:"viewport"`
	Config   viewport.Config `json:"config" yaml:"config"`
	UI       UIState         `json:"ui" yaml:"ui"`
}

// Breakpoint is shorthand for s.Viewport.Breakpoint.
func (s Snapshot) Breakpoint() viewport.Breakpoint {
	return s.Viewport.Breakpoint
}

// Store is the single writer of the viewport state for an application.
type Store struct {
	env      viewport.Environment
	cfg      viewport.Config
	logger   *slog.Logger
	resize   *watcher.Debouncer
	orient   *watcher.Delayer
	kbLimit  int
	debounce time.Duration
	delay    time.Duration

	mu       sync.Mutex
	vp       viewport.State
	ui       UIState
	baseline int
	mounted  bool
	source   viewport.EventSource
	removers []func()
	subs     map[uint64]func(Snapshot)
	nextSub  uint64
}

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	base      viewport.Config
	overrides viewport.Overrides
	logger    *slog.Logger
	clock     watcher.Clock
	debounce  time.Duration
	delay     time.Duration
	kbLimit   int
}

// WithConfig replaces the defaults the overrides are merged over.
func WithConfig(cfg viewport.Config) Option {
	return func(o *storeOptions) { o.base = cfg }
}

// WithOverrides merges a partial configuration over the defaults.
func WithOverrides(ov viewport.Overrides) Option {
	return func(o *storeOptions) { o.overrides = ov }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *storeOptions) { o.logger = l }
}

// WithClock sets the clock driving the debounce and delay timers.
func WithClock(c watcher.Clock) Option {
	return func(o *storeOptions) { o.clock = c }
}

// WithResizeDebounce sets the resize debounce window.
func WithResizeDebounce(d time.Duration) Option {
	return func(o *storeOptions) { o.debounce = d }
}

// WithOrientationDelay sets the delay between an orientation change and
// the recomputation.
func WithOrientationDelay(d time.Duration) Option {
	return func(o *storeOptions) { o.delay = d }
}

// WithKeyboardThreshold sets the height loss that flags a keyboard.
func WithKeyboardThreshold(px int) Option {
	return func(o *storeOptions) { o.kbLimit = px }
}

// New creates a store and classifies the environment immediately. env may
// be nil, in which case the fallback viewport is used.
func New(env viewport.Environment, opts ...Option) *Store {
	o := storeOptions{
		base:     viewport.DefaultConfig(),
		clock:    watcher.RealClock,
		debounce: watcher.DefaultResizeDebounce,
		delay:    watcher.DefaultOrientationDelay,
		kbLimit:  DefaultKeyboardThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cfg := o.base.Apply(o.overrides)
	if err := cfg.Validate(); err != nil {
		o.logger.Warn("invalid responsive config, using defaults for invalid fields", "error", err)
		cfg = cfg.Sanitize()
	}

	s := &Store{
		env:      env,
		cfg:      cfg,
		logger:   o.logger,
		resize:   watcher.NewDebouncerWithClock(o.debounce, o.clock),
		orient:   watcher.NewDelayer(o.delay, o.clock),
		kbLimit:  o.kbLimit,
		debounce: o.debounce,
		delay:    o.delay,
		subs:     make(map[uint64]func(Snapshot)),
	}
	s.vp = viewport.GetViewportState(env, cfg)
	s.ui = project(s.vp, UIState{})
	return s
}

// project derives the breakpoint flags and orientation from vp, carrying
// the mutable flags over from prev.
func project(vp viewport.State, prev UIState) UIState {
	ui := prev
	ui.IsMobile = vp.Breakpoint == viewport.Mobile
	ui.IsTablet = vp.Breakpoint == viewport.Tablet
	ui.IsDesktop = vp.Breakpoint == viewport.Desktop
	ui.Orientation = vp.Orientation
	if ui.IsDesktop {
		// Desktop layouts have no navigation drawer.
		ui.MenuOpen = false
	}
	return ui
}

// Config returns the merged configuration.
func (s *Store) Config() viewport.Config {
	return s.cfg
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Viewport: s.vp, Config: s.cfg, UI: s.ui}
}

// Mounted reports whether the store is listening to an event source.
func (s *Store) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Mount subscribes the store to source. Resize events are debounced,
// orientation changes are delayed, and the keyboard heuristic listens to
// visual-viewport resizes when the source has them, plain resizes
// otherwise.
func (s *Store) Mount(source viewport.EventSource) error {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return ErrAlreadyMounted
	}
	s.mounted = true
	s.source = source
	s.mu.Unlock()

	s.Recompute()

	s.mu.Lock()
	s.baseline = s.currentHeight()
	s.mu.Unlock()

	keyboardEvent := viewport.EventResize
	if source.Supports(viewport.EventVisualViewportResize) {
		keyboardEvent = viewport.EventVisualViewportResize
	}
	removers := []func(){
		source.Listen(viewport.EventResize, s.onResize),
		source.Listen(viewport.EventOrientationChange, s.onOrientationChange),
		source.Listen(keyboardEvent, s.checkKeyboard),
	}

	s.mu.Lock()
	s.removers = removers
	s.mu.Unlock()

	s.logger.Debug("responsive store mounted",
		"breakpoint", s.Snapshot().Viewport.Breakpoint.String(),
		"keyboard_event", keyboardEvent.String(),
		"resize_debounce", s.debounce,
		"orientation_delay", s.delay)
	return nil
}

// Unmount removes every listener, cancels pending recomputations and
// drops subscribers. UI flags are reset; nothing survives an unmount.
func (s *Store) Unmount() {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	removers := s.removers
	s.removers = nil
	s.source = nil
	s.mounted = false
	s.subs = make(map[uint64]func(Snapshot))
	s.ui.MenuOpen = false
	s.ui.KeyboardLikelyVisible = false
	s.baseline = 0
	s.mu.Unlock()

	for _, remove := range removers {
		remove()
	}
	s.resize.Cancel()
	s.orient.Cancel()
	s.logger.Debug("responsive store unmounted")
}

func (s *Store) onResize() {
	s.resize.Trigger(s.Recompute)
}

func (s *Store) onOrientationChange() {
	s.orient.After(func() {
		s.Recompute()
		s.mu.Lock()
		// Re-arm the keyboard baseline for the new orientation.
		s.baseline = s.currentHeight()
		changed := s.ui.KeyboardLikelyVisible
		s.ui.KeyboardLikelyVisible = false
		snap := s.snapshotLocked()
		s.mu.Unlock()
		if changed {
			s.notify(snap)
		}
	})
}

// Recompute reclassifies the environment and updates the derived state in
// one step. Subscribers are notified when anything changed.
func (s *Store) Recompute() {
	s.mu.Lock()
	prev := s.snapshotLocked()
	s.vp = viewport.GetViewportState(s.env, s.cfg)
	s.ui = project(s.vp, s.ui)
	next := s.snapshotLocked()
	s.mu.Unlock()

	if prev == next {
		return
	}
	if prev.Viewport.Breakpoint != next.Viewport.Breakpoint {
		s.logger.Info("breakpoint changed",
			"from", prev.Viewport.Breakpoint.String(),
			"to", next.Viewport.Breakpoint.String(),
			"width", next.Viewport.Width)
	}
	if prev.UI.MenuOpen && !next.UI.MenuOpen {
		s.logger.Debug("menu closed for desktop layout")
	}
	s.notify(next)
}

// currentHeight returns the height the keyboard heuristic compares. Caller
// holds s.mu.
func (s *Store) currentHeight() int {
	if s.env == nil {
		return 0
	}
	if vv, ok := s.env.(viewport.VisualViewport); ok && s.source != nil &&
		s.source.Supports(viewport.EventVisualViewportResize) {
		return vv.VisualHeight()
	}
	_, h, _ := s.env.Size()
	return h
}

// checkKeyboard applies the keyboard heuristic. It only runs on touch
// devices; desktops never report a keyboard.
func (s *Store) checkKeyboard() {
	s.mu.Lock()
	if !s.vp.TouchDevice || !s.mounted {
		s.mu.Unlock()
		return
	}
	h := s.currentHeight()
	if s.baseline == 0 {
		s.baseline = h
	}
	visible := false
	if h >= s.baseline {
		s.baseline = h
	} else {
		visible = s.baseline-h > s.kbLimit
	}
	changed := visible != s.ui.KeyboardLikelyVisible
	s.ui.KeyboardLikelyVisible = visible
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		s.logger.Debug("keyboard visibility guess changed", "visible", visible, "height", h)
		s.notify(snap)
	}
}

// SetMenuOpen opens or closes the navigation menu.
func (s *Store) SetMenuOpen(open bool) {
	s.update(func(ui *UIState) { ui.MenuOpen = open })
}

// ToggleMenu flips the navigation menu.
func (s *Store) ToggleMenu() {
	s.update(func(ui *UIState) { ui.MenuOpen = !ui.MenuOpen })
}

// SetKeyboardVisible overrides the keyboard guess.
func (s *Store) SetKeyboardVisible(visible bool) {
	s.update(func(ui *UIState) { ui.KeyboardLikelyVisible = visible })
}

func (s *Store) update(fn func(*UIState)) {
	s.mu.Lock()
	prev := s.ui
	fn(&s.ui)
	changed := prev != s.ui
	snap := s.snapshotLocked()
	s.mu.Unlock()
	if changed {
		s.notify(snap)
	}
}

// Subscribe registers fn to receive every changed snapshot. fn runs on
// the goroutine that caused the change (a timer goroutine for debounced
// resizes). The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(snap Snapshot) {
	s.mu.Lock()
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
