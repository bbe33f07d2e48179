package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.PDF"))
	touch(t, filepath.Join(root, "a.png"))
	touch(t, filepath.Join(root, "notes.docx"))
	touch(t, filepath.Join(root, "sub", "c.txt"))
	touch(t, filepath.Join(root, ".cache", "d.jpg"))
	touch(t, filepath.Join(root, ".hidden.png"))

	paths, stats, err := ScanDirectory(context.Background(), root, true, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.png"),
		filepath.Join(root, "b.PDF"),
		filepath.Join(root, "sub", "c.txt"),
	}, paths)
	assert.Equal(t, uint32(3), stats.Matched)

	paths, _, err = ScanDirectory(context.Background(), root, false, nil)
	require.NoError(t, err)
	assert.Len(t, paths, 5)
}

func TestScanDirectory_Errors(t *testing.T) {
	_, _, err := ScanDirectory(context.Background(), " ", false, nil)
	assert.Error(t, err)

	_, _, err = ScanDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), false, nil)
	assert.Error(t, err)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/a/.git"))
	assert.False(t, IsHidden("."))
	assert.False(t, IsHidden("/a/b.png"))
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return ""
	}
}

func TestStartWatcher(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "existing.png")
	touch(t, existing)

	ctx, cancel := context.WithCancel(context.Background())
	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true})
	require.NoError(t, err)

	assert.Equal(t, existing, receive(t, events))

	touch(t, filepath.Join(root, "ignored.docx"))
	created := filepath.Join(root, "new.pdf")
	touch(t, created)
	assert.Equal(t, created, receive(t, events))

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}
