package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDropWatcherReportsNewFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := NewDropWatcher(dir, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o644))

	select {
	case got := <-w.Events():
		assert.Equal(t, path, got)
	case <-time.After(3 * time.Second):
		t.Fatal("no drop event received")
	}
}

func TestDropWatcherCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "drops")

	w, err := NewDropWatcher(dir, zap.NewNop())
	require.NoError(t, err)
	defer w.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDropWatcherCloseEndsEvents(t *testing.T) {
	w, err := NewDropWatcher(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok, "events channel should be closed")
	case <-time.After(3 * time.Second):
		t.Fatal("events channel did not close")
	}
}
