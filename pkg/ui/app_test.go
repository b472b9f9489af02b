package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/responsive_viewer/internal/testutil"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/loader"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/responsive"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/watcher"
)

type appHarness struct {
	app    App
	win    *viewport.Window
	store  *responsive.Store
	bridge *responsive.Bridge
	clock  *watcher.FakeClock
}

// newHarness builds an explorer in a terminal of cols×rows cells with the
// sample records already loaded.
func newHarness(t *testing.T, cols, rows int) *appHarness {
	t.Helper()
	m := viewport.DefaultCellMetrics
	win := viewport.NewWindow(cols*m.Width, rows*m.Height)
	clock := watcher.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	logger := testutil.NewTestLogger(t)
	store := responsive.New(win, responsive.WithClock(clock), responsive.WithLogger(logger))
	require.NoError(t, store.Mount(win))
	bridge := responsive.NewBridge(store, win)
	t.Cleanup(func() {
		bridge.Close()
		store.Unmount()
	})

	source := loader.StaticSource{Label: "orders", Records: loader.Result{Records: sampleRecords()}}
	app := NewApp(bridge, source, sampleManifest(), WithTheme(testTheme()), WithAppLogger(logger))
	h := &appHarness{app: app, win: win, store: store, bridge: bridge, clock: clock}
	h.send(tea.WindowSizeMsg{Width: cols, Height: rows})
	h.send(LoadedMsg{Result: loader.Result{Records: sampleRecords()}})
	return h
}

func (h *appHarness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.app.Update(msg)
	h.app = next.(App)
	return cmd
}

func (h *appHarness) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		h.send(msg)
	}
}

// settle lets pending store timers fire and delivers the bridged change.
func (h *appHarness) settle() {
	h.clock.Advance(time.Second)
	h.send(h.bridge.Listen()())
}

func TestApp_StartsLoadingAndLoads(t *testing.T) {
	h := newHarness(t, 100, 40)
	assert.Len(t, h.app.Shown(), 3)
	assert.Contains(t, ansi.Strip(h.app.View()), "Grace")

	src := loader.StaticSource{Label: "x"}
	fresh := NewApp(h.bridge, src, nil, WithTheme(testTheme()))
	assert.True(t, fresh.loading)
	assert.NotNil(t, fresh.Init())
}

func TestApp_ResizeFlowsThroughStore(t *testing.T) {
	h := newHarness(t, 60, 40)
	require.True(t, h.app.Snapshot().UI.IsMobile)
	assert.Equal(t, model.ModeCards, h.app.Decision().Mode)

	h.send(tea.WindowSizeMsg{Width: 200, Height: 50})
	// Nothing changes until the debounce elapses.
	assert.True(t, h.app.Snapshot().UI.IsMobile)

	h.settle()
	snap := h.app.Snapshot()
	assert.True(t, snap.UI.IsDesktop)
	assert.Equal(t, 1600, snap.Viewport.Width)
	assert.Equal(t, model.ModeTable, h.app.Decision().Mode)
}

func TestApp_MobileMenuDrawer(t *testing.T) {
	h := newHarness(t, 60, 40)

	h.press("m")
	require.True(t, h.app.Snapshot().UI.MenuOpen)
	require.True(t, h.store.Snapshot().UI.MenuOpen)
	view := ansi.Strip(h.app.View())
	assert.Contains(t, view, "Fit to screen")
	assert.NotContains(t, view, "Grace", "the drawer covers the content")

	// Pick the second entry: table.
	h.press("down", "enter")
	assert.Equal(t, model.ModeTable, h.app.Override())
	assert.False(t, h.store.Snapshot().UI.MenuOpen)
	assert.Equal(t, model.ModeTable, h.app.Decision().Mode)

	h.press("m", "esc")
	assert.False(t, h.app.Snapshot().UI.MenuOpen)
}

func TestApp_MenuClosesWhenGrowingToDesktop(t *testing.T) {
	h := newHarness(t, 100, 40)
	h.press("m")
	require.True(t, h.app.Snapshot().UI.MenuOpen)

	h.send(tea.WindowSizeMsg{Width: 200, Height: 50})
	h.settle()
	assert.False(t, h.app.Snapshot().UI.MenuOpen)
	assert.True(t, h.app.Snapshot().UI.IsDesktop)
}

func TestApp_DesktopSidebarIgnoresMenuKey(t *testing.T) {
	h := newHarness(t, 200, 50)
	require.True(t, h.app.Snapshot().UI.IsDesktop)

	h.press("m")
	assert.False(t, h.store.Snapshot().UI.MenuOpen)
	view := ansi.Strip(h.app.View())
	assert.Contains(t, view, "Fit to screen")
	assert.Contains(t, view, "Grace")

	// Navigation keys scroll the data, not the sidebar.
	h.press("j")
	assert.Equal(t, 1, h.app.offset)
}

func TestApp_ModeCycling(t *testing.T) {
	h := newHarness(t, 200, 50)
	assert.Equal(t, model.ModeTable, h.app.Decision().Requested)

	h.press("v")
	assert.Equal(t, model.ModeCards, h.app.Override())
	h.press("v", "v")
	assert.Equal(t, model.ModeGrid, h.app.Override())
	assert.Equal(t, model.ModeGrid, h.app.Decision().Mode)

	h.press("v")
	assert.Equal(t, model.ModeAuto, h.app.Override())
	assert.Contains(t, ansi.Strip(h.app.header()), "auto→grid")

	h.press("a")
	assert.Empty(t, h.app.Override())
}

func TestApp_ChartModeWithoutConfig(t *testing.T) {
	h := newHarness(t, 200, 50)
	h.app.override = model.ModeChart
	assert.Contains(t, ansi.Strip(h.app.View()), "Chart not available")
}

func TestApp_FilterAndClear(t *testing.T) {
	h := newHarness(t, 200, 50)

	h.press("/", "g", "r", "a", "c", "e")
	require.Len(t, h.app.Shown(), 1)
	assert.Equal(t, "Grace", h.app.Shown()[0]["customer"])
	assert.Contains(t, ansi.Strip(h.app.header()), "1/3")

	h.press("enter")
	assert.False(t, h.app.filtering)
	assert.Len(t, h.app.Shown(), 1)

	h.press("esc")
	assert.Len(t, h.app.Shown(), 3)
}

func TestApp_SortCycles(t *testing.T) {
	h := newHarness(t, 200, 50)

	h.press("s")
	assert.Equal(t, SortSpec{Key: "id"}, h.app.sort)
	h.press("s")
	assert.Equal(t, SortSpec{Key: "id", Desc: true}, h.app.sort)
	assert.Equal(t, "ord-3", h.app.Shown()[0]["id"])

	h.press("s", "s")
	assert.Equal(t, "customer", h.app.sort.Key)
	assert.True(t, h.app.sort.Desc)
	assert.Equal(t, "Linus", h.app.Shown()[0]["customer"])
}

func TestApp_ReloadAndErrors(t *testing.T) {
	h := newHarness(t, 100, 40)

	cmd := h.send(ReloadMsg{})
	require.NotNil(t, cmd)
	assert.True(t, h.app.reloading)
	assert.Contains(t, ansi.Strip(h.app.header()), "reloading")

	h.send(cmd())
	assert.False(t, h.app.reloading)
	assert.Len(t, h.app.Shown(), 3)

	h.send(LoadedMsg{Err: errors.New("disk on fire")})
	assert.Contains(t, ansi.Strip(h.app.View()), "Error: disk on fire")
}

func TestApp_HelpOverlay(t *testing.T) {
	h := newHarness(t, 100, 40)

	h.press("?")
	view := ansi.Strip(h.app.View())
	assert.Contains(t, view, "NAVIGATION")
	assert.Contains(t, view, "DATA")

	h.press("x")
	assert.NotContains(t, ansi.Strip(h.app.View()), "NAVIGATION")
}

func TestApp_KeyboardHidesFooter(t *testing.T) {
	h := newHarness(t, 60, 40)
	assert.Contains(t, ansi.Strip(h.app.View()), "next layout")

	h.store.SetKeyboardVisible(true)
	h.send(h.bridge.Listen()())
	require.True(t, h.app.Snapshot().UI.KeyboardLikelyVisible)
	assert.NotContains(t, ansi.Strip(h.app.View()), "next layout")
}

func TestApp_QuitKey(t *testing.T) {
	h := newHarness(t, 100, 40)
	cmd := h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_RecordDetail(t *testing.T) {
	h := newHarness(t, 60, 40)
	h.press("j", "enter")
	require.True(t, h.app.detail.IsVisible())
	assert.Equal(t, "ord-2", h.app.detail.Record()["id"])

	view := ansi.Strip(h.app.View())
	// The detail lists columns the mobile layout hides.
	assert.Contains(t, view, "Id")
	assert.Contains(t, view, "ord-2")
	assert.Contains(t, view, "$40.00")
	assert.NotContains(t, view, "Linus", "the detail replaces the data on small screens")

	h.press("esc")
	assert.False(t, h.app.detail.IsVisible())
}

func TestApp_RecordDetailSplitsOnWideDesktop(t *testing.T) {
	h := newHarness(t, 200, 50)
	h.press("enter")
	require.True(t, h.app.detail.IsVisible())

	view := ansi.Strip(h.app.View())
	assert.Contains(t, view, "Linus", "the data stays visible beside the detail")
	assert.Contains(t, view, "ord-1")

	h.press("enter")
	assert.False(t, h.app.detail.IsVisible())
}

func TestApp_YankCopiesRecord(t *testing.T) {
	h := newHarness(t, 100, 40)
	var copied string
	WithClipboard(func(s string) error {
		copied = s
		return nil
	})(&h.app)

	h.press("y")
	assert.JSONEq(t, `{"id":"ord-1","customer":"Ada","total":12.5,"status":"open"}`, copied)
	assert.Contains(t, ansi.Strip(h.app.header()), "copied")

	WithClipboard(func(string) error { return errors.New("no clipboard") })(&h.app)
	h.press("enter", "y")
	assert.Contains(t, ansi.Strip(h.app.header()), "copy failed")

	// Any later key clears the status.
	h.press("down")
	assert.NotContains(t, ansi.Strip(h.app.header()), "copy")
}

func TestApp_ReloadKeyIsThrottled(t *testing.T) {
	h := newHarness(t, 100, 40)
	r := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}

	cmd := h.send(r)
	require.NotNil(t, cmd)
	assert.True(t, h.app.reloading)
	h.send(cmd())

	assert.Nil(t, h.send(r), "a second press right away is ignored")
	assert.False(t, h.app.reloading)
}
