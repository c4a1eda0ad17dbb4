package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/llamabar/internal/logger"
)

func waitChange(t *testing.T, w *Watcher, timeout time.Duration) bool {
	t.Helper()
	select {
	case <-w.Changes():
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	w, err := New(logger.NewBufferLogger(), 50*time.Millisecond, path)
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0644))
	}

	assert.True(t, waitChange(t, w, 2*time.Second))
	assert.False(t, waitChange(t, w, 200*time.Millisecond), "burst should coalesce")
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	w, err := New(nil, 20*time.Millisecond, path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644))
	assert.False(t, waitChange(t, w, 200*time.Millisecond))
}

func TestWatcherMissingDirectory(t *testing.T) {
	log := logger.NewBufferLogger()
	w, err := New(log, 0, filepath.Join(t.TempDir(), "nope", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestHandleEventFiltersOps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	w, err := New(nil, 10*time.Millisecond, path)
	require.NoError(t, err)
	defer w.Close()

	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Chmod})
	assert.False(t, waitChange(t, w, 100*time.Millisecond))

	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Rename})
	assert.True(t, waitChange(t, w, time.Second))
}
