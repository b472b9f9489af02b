package responsive

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/responsive_viewer/pkg/viewport"
)

// ChangedMsg carries a new snapshot into a bubbletea program.
type ChangedMsg struct {
	Snapshot Snapshot
}

// Bridge connects a Store to a bubbletea program: terminal size messages
// feed the window, and store changes come back as ChangedMsg through
// Listen.
type Bridge struct {
	store  *Store
	window *viewport.Window

	mu          sync.Mutex
	ch          chan Snapshot
	closed      bool
	unsubscribe func()
}

// NewBridge subscribes to store. Only the newest undelivered snapshot is
// kept; a slow program never sees stale layouts.
func NewBridge(store *Store, window *viewport.Window) *Bridge {
	b := &Bridge{
		store:  store,
		window: window,
		ch:     make(chan Snapshot, 1),
	}
	b.unsubscribe = store.Subscribe(b.push)
	return b
}

func (b *Bridge) push(s Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case <-b.ch:
	default:
	}
	b.ch <- s
}

// Store returns the bridged store.
func (b *Bridge) Store() *Store {
	return b.store
}

// Update feeds tea.WindowSizeMsg into the window. Other messages are
// ignored.
func (b *Bridge) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(tea.WindowSizeMsg); ok {
		b.window.ResizeCells(m.Width, m.Height)
	}
	return nil
}

// Listen returns a command that waits for the next store change.
// Programs re-issue it after every ChangedMsg.
func (b *Bridge) Listen() tea.Cmd {
	ch := b.ch
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return ChangedMsg{Snapshot: s}
	}
}

// Close unsubscribes from the store and releases pending listeners.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.unsubscribe()
	close(b.ch)
}
