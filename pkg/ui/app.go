package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/layout"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/loader"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/model"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/responsive"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
	"github.com/Dicklesworthstone/responsive_viewer/pkg/watcher"
)

// reloadInterval is the minimum time between manual reloads.
const reloadInterval = 500 * time.Millisecond

// LoadedMsg carries the result of loading the data source.
type LoadedMsg struct {
	Result loader.Result
	Err    error
}

// ReloadMsg asks the explorer to load its source again. File watchers
// send it through tea.Program.Send.
type ReloadMsg struct{}

// App is the interactive dataset explorer.
type App struct {
	theme    Theme
	keys     KeyMap
	help     help.Model
	overlay  HelpOverlayModel
	menu     MenuModel
	detail   DetailModel
	filter   textinput.Model
	bridge   *responsive.Bridge
	source   loader.Source
	manifest *model.Manifest
	logger   *slog.Logger
	copy     func(string) error
	reloads  *watcher.Throttler

	snap      responsive.Snapshot
	all       model.Records
	shown     model.Records
	skipped   int
	loading   bool
	reloading bool
	err       error
	filtering bool
	override  model.Mode
	sort      SortSpec
	offset    int
	width     int
	height    int
	status    string
}

// AppOption configures an App.
type AppOption func(*App)

// WithTheme sets the theme.
func WithTheme(t Theme) AppOption {
	return func(a *App) { a.theme = t }
}

// WithAppLogger sets the logger.
func WithAppLogger(l *slog.Logger) AppOption {
	return func(a *App) { a.logger = l }
}

// WithMode starts the explorer with a forced layout mode.
func WithMode(m model.Mode) AppOption {
	return func(a *App) { a.override = m }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(fn func(string) error) AppOption {
	return func(a *App) { a.copy = fn }
}

// NewApp creates an explorer for source laid out by manifest. manifest
// may be nil, in which case columns are inferred from the data.
func NewApp(bridge *responsive.Bridge, source loader.Source, manifest *model.Manifest, opts ...AppOption) App {
	a := App{
		theme:    DefaultTheme(nil),
		keys:     DefaultKeyMap(),
		bridge:   bridge,
		source:   source,
		manifest: manifest,
		loading:  true,
		snap:     bridge.Store().Snapshot(),
		copy:     clipboard.WriteAll,
		reloads:  watcher.NewThrottler(reloadInterval, nil),
	}
	for _, opt := range opts {
		opt(&a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a.help = help.New()
	a.overlay = NewHelpOverlayModel(a.theme, a.keys)
	a.menu = NewMenuModel(a.theme)
	a.detail = NewDetailModel(a.theme)
	a.filter = textinput.New()
	a.filter.Prompt = "/ "
	a.filter.Placeholder = "filter records"
	a.width, a.height = viewport.DefaultCellMetrics.ToCells(a.snap.Viewport.Width, a.snap.Viewport.Height)
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.bridge.Listen(), a.load())
}

func (a App) load() tea.Cmd {
	source := a.source
	return func() tea.Msg {
		res, err := source.Load(context.Background())
		return LoadedMsg{Result: res, Err: err}
	}
}

func (a App) store() *responsive.Store {
	return a.bridge.Store()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		a.detail.SetWidth(a.detailWidth())
		return a, a.bridge.Update(msg)

	case responsive.ChangedMsg:
		prev := a.snap.Breakpoint()
		a.snap = msg.Snapshot
		a.detail.SetWidth(a.detailWidth())
		if prev != a.snap.Breakpoint() {
			a.logger.Debug("layout breakpoint changed", "from", prev.String(), "to", a.snap.Breakpoint().String())
		}
		return a, a.bridge.Listen()

	case LoadedMsg:
		a.loading = false
		a.reloading = false
		if msg.Err != nil {
			a.err = msg.Err
			a.logger.Warn("loading data failed", "source", a.source.Name(), "error", msg.Err)
			return a, nil
		}
		a.err = nil
		a.all = msg.Result.Records
		a.skipped = msg.Result.Skipped
		a.refresh()
		return a, nil

	case ReloadMsg:
		if a.all == nil {
			a.loading = true
		} else {
			a.reloading = true
		}
		return a, a.load()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.overlay.IsVisible() {
		var cmd tea.Cmd
		a.overlay, cmd = a.overlay.Update(msg)
		return a, cmd
	}
	a.status = ""

	if a.filtering {
		switch {
		case key.Matches(msg, a.keys.Clear):
			a.filtering = false
			a.filter.Blur()
			a.filter.SetValue("")
			a.refresh()
			return a, nil
		case msg.Type == tea.KeyEnter:
			a.filtering = false
			a.filter.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.filter, cmd = a.filter.Update(msg)
		a.refresh()
		return a, cmd
	}

	if a.detail.IsVisible() {
		switch {
		case key.Matches(msg, a.keys.Up):
			a.detail.ScrollUp()
			return a, nil
		case key.Matches(msg, a.keys.Down):
			a.detail.ScrollDown()
			return a, nil
		case key.Matches(msg, a.keys.Yank):
			a.yank(a.detail.Record())
			return a, nil
		case key.Matches(msg, a.keys.Clear), key.Matches(msg, a.keys.Select):
			a.detail.Hide()
			return a, nil
		}
	}

	if a.snap.UI.MenuOpen {
		switch {
		case key.Matches(msg, a.keys.Up):
			a.menu.MoveUp()
			return a, nil
		case key.Matches(msg, a.keys.Down):
			a.menu.MoveDown()
			return a, nil
		case key.Matches(msg, a.keys.Select):
			a.override = a.menu.Selected()
			a.offset = 0
			a.setMenuOpen(false)
			return a, nil
		case key.Matches(msg, a.keys.Clear), key.Matches(msg, a.keys.Menu):
			a.setMenuOpen(false)
			return a, nil
		}
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.overlay.Toggle()
	case key.Matches(msg, a.keys.Menu):
		// Desktop always shows the sidebar.
		if !a.snap.UI.IsDesktop {
			a.setMenuOpen(true)
		}
	case key.Matches(msg, a.keys.Filter):
		a.filtering = true
		return a, a.filter.Focus()
	case key.Matches(msg, a.keys.Clear):
		if a.filter.Value() != "" {
			a.filter.SetValue("")
			a.refresh()
		}
	case key.Matches(msg, a.keys.NextMode):
		a.override = a.Decision().Requested.Next()
		a.offset = 0
	case key.Matches(msg, a.keys.AutoMode):
		a.override = ""
		a.offset = 0
	case key.Matches(msg, a.keys.Sort):
		a.sort = NextSort(a.sort, a.columns())
		a.refresh()
	case key.Matches(msg, a.keys.Select):
		if rec := a.current(); rec != nil {
			a.detail.Show(rec, a.columns(), a.detailWidth())
		}
	case key.Matches(msg, a.keys.Yank):
		a.yank(a.current())
	case key.Matches(msg, a.keys.Reload):
		if !a.reloads.Do(func() {}) {
			return a, nil
		}
		return a.Update(ReloadMsg{})
	case key.Matches(msg, a.keys.Up):
		if a.offset > 0 {
			a.offset--
		}
	case key.Matches(msg, a.keys.Down):
		if a.offset < len(a.shown)-1 {
			a.offset++
		}
	case key.Matches(msg, a.keys.Top):
		a.offset = 0
	case key.Matches(msg, a.keys.Bottom):
		a.offset = max(len(a.shown)-1, 0)
	}
	return a, nil
}

// current returns the record at the top of the page.
func (a App) current() model.Record {
	if a.offset < len(a.shown) {
		return a.shown[a.offset]
	}
	return nil
}

func (a *App) yank(rec model.Record) {
	if rec == nil {
		return
	}
	text, err := RecordJSON(rec)
	if err == nil {
		err = a.copy(text)
	}
	if err != nil {
		a.logger.Warn("copy to clipboard failed", "error", err)
		a.status = "copy failed"
		return
	}
	a.status = "copied"
}

// setMenuOpen changes the menu through the store and reads the result
// back at once rather than waiting for the bridged change.
func (a *App) setMenuOpen(open bool) {
	a.store().SetMenuOpen(open)
	a.snap = a.store().Snapshot()
}

func (a App) menuVisible() bool {
	return a.snap.UI.IsDesktop || a.snap.UI.MenuOpen
}

func (a App) columns() []model.Column {
	return a.manifest.WithInferredColumns(a.all).Columns
}

// refresh recomputes the shown records from filter and sort.
func (a *App) refresh() {
	shown := loader.Filter(a.all, a.columns(), a.filter.Value())
	if a.sort.Active() {
		shown = SortRecords(shown, a.sort)
	}
	a.shown = shown
	if a.offset >= len(a.shown) {
		a.offset = max(len(a.shown)-1, 0)
	}
}

// Snapshot returns the responsive state the explorer renders with.
func (a App) Snapshot() responsive.Snapshot {
	return a.snap
}

// Override returns the forced layout mode, if any.
func (a App) Override() model.Mode {
	return a.override
}

// Shown returns the records after filtering and sorting.
func (a App) Shown() model.Records {
	return a.shown
}

func (a App) bodySize() (int, int) {
	w := a.width
	if a.menuVisible() && w > DrawerWidth+MinBoxWidth {
		w -= DrawerWidth + 1
	}
	chrome := 3 // header, divider, footer
	if a.filtering || a.filter.Value() != "" {
		chrome++
	}
	return w, max(a.height-chrome, MinContentHeight)
}

func (a App) dataView() DataView {
	w, h := a.bodySize()
	return DataView{
		Theme:      a.theme,
		Manifest:   a.manifest,
		Records:    a.shown,
		Loading:    a.loading,
		Breakpoint: a.snap.Breakpoint(),
		Width:      w,
		Height:     h,
		Override:   a.override,
		Offset:     a.offset,
		Hyperlinks: true,
	}
}

// detailSplit reports whether the record detail opens beside the data.
func (a App) detailSplit() bool {
	bodyWidth, _ := a.bodySize()
	return a.snap.UI.IsDesktop && bodyWidth >= DetailSplitWidth && a.err == nil
}

// detailWidth is the width of the record detail panel.
func (a App) detailWidth() int {
	bodyWidth, _ := a.bodySize()
	if a.detailSplit() {
		return bodyWidth - bodyWidth/2 - 1
	}
	return bodyWidth
}

// Decision returns the layout decision for the current frame.
func (a App) Decision() layout.Decision {
	return a.dataView().Decision()
}

// View implements tea.Model.
func (a App) View() string {
	if a.overlay.IsVisible() {
		compact := a.snap.UI.IsMobile
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.overlay.View(compact))
	}

	sections := []string{a.header(), a.theme.RenderDivider(a.width)}
	if a.filtering || a.filter.Value() != "" {
		sections = append(sections, a.filter.View())
	}

	_, bodyHeight := a.bodySize()
	var body string
	if a.err != nil {
		body = a.theme.Renderer.NewStyle().Foreground(a.theme.Danger).Render("Error: " + a.err.Error())
	} else {
		body = a.dataView().View()
	}
	if a.detail.IsVisible() {
		bodyWidth, _ := a.bodySize()
		if a.detailSplit() {
			half := bodyWidth / 2
			dv := a.dataView()
			dv.Width = half
			body = lipgloss.JoinHorizontal(lipgloss.Top, dv.View(), " ", a.detail.View(a.detailWidth(), bodyHeight))
		} else {
			body = a.detail.View(bodyWidth, bodyHeight)
		}
	}
	if a.menuVisible() {
		drawer := a.menu.View(a.override, bodyHeight, a.snap.UI.MenuOpen)
		if a.snap.UI.IsMobile {
			// The drawer covers the content on small screens.
			body = drawer
		} else {
			body = lipgloss.JoinHorizontal(lipgloss.Top, drawer, " ", body)
		}
	}
	sections = append(sections, body)

	// The on-screen keyboard eats the bottom rows; drop the footer.
	if !a.snap.UI.KeyboardLikelyVisible {
		sections = append(sections, a.footer())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) header() string {
	t := a.theme
	title := a.source.Name()
	if a.manifest != nil && a.manifest.Title != "" {
		title = a.manifest.Title
	}
	titleStyle := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary)
	info := t.Renderer.NewStyle().Foreground(t.Subtext)

	d := a.Decision()
	parts := []string{titleStyle.Render(title), t.RenderBreakpointBadge(a.snap.Breakpoint())}
	if !a.snap.UI.IsMobile {
		mode := string(d.Mode)
		if d.Requested == model.ModeAuto {
			mode = fmt.Sprintf("auto→%s×%d", d.Mode, d.GridColumns)
		}
		parts = append(parts, info.Render(mode), info.Render(a.snap.UI.Orientation.String()))
	}
	count := fmt.Sprintf("%d", len(a.shown))
	if len(a.shown) != len(a.all) {
		count = fmt.Sprintf("%d/%d", len(a.shown), len(a.all))
	}
	parts = append(parts, info.Render(count))
	if a.sort.Active() {
		dir := "↑"
		if a.sort.Desc {
			dir = "↓"
		}
		parts = append(parts, info.Render("sort "+a.sort.Key+dir))
	}
	if a.reloading {
		parts = append(parts, info.Render("reloading…"))
	}
	if a.status != "" {
		parts = append(parts, info.Render(a.status))
	}
	return strings.Join(parts, " ")
}

func (a App) footer() string {
	if a.skipped > 0 && !a.snap.UI.IsMobile {
		warn := a.theme.Renderer.NewStyle().Foreground(a.theme.Warning).
			Render(fmt.Sprintf("%d malformed lines skipped", a.skipped))
		return warn + "  " + a.help.View(a.keys)
	}
	return a.help.View(a.keys)
}
