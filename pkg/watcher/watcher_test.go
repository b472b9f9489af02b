package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))

	var changes atomic.Int32
	w, err := NewFileWatcher(path, func() { changes.Add(1) },
		WithDebounce(50*time.Millisecond),
		WithPollInterval(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("{\"n\":1}\n"), 0644))
	}

	require.Eventually(t, func() bool { return changes.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.LessOrEqual(t, changes.Load(), int32(2), "bursts are coalesced")
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	var changes atomic.Int32
	w, err := NewFileWatcher(path, func() { changes.Add(1) }, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	if w.Polling() {
		t.Skip("fsnotify unavailable")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))
	time.Sleep(120 * time.Millisecond)
	assert.Zero(t, changes.Load())
}

func TestFileWatcher_StartTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	w, err := NewFileWatcher(path, func() {})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.Error(t, w.Start(context.Background()))
	assert.True(t, filepath.IsAbs(w.Path()))
}

func TestFileWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	w, err := NewFileWatcher(path, func() {})
	require.NoError(t, err)
	w.Stop()
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}
