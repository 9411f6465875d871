package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitEvent(t *testing.T, fw *FileWatcher, timeout time.Duration) (string, bool) {
	t.Helper()
	select {
	case p := <-fw.Events():
		return p, true
	case <-time.After(timeout):
		return "", false
	}
}

func TestFileWatcher_CoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0644))

	fw, err := NewFileWatcher(path, 80*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, fw.Start(context.Background()))
	defer fw.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0644))
		time.Sleep(10 * time.Millisecond)
	}

	got, ok := waitEvent(t, fw, 2*time.Second)
	require.True(t, ok, "expected a change event")
	assert.Equal(t, fw.Path(), got)

	_, again := waitEvent(t, fw, 300*time.Millisecond)
	assert.False(t, again, "burst should produce a single event")
	assert.Equal(t, 1, fw.Stats().Emitted)
}

func TestFileWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0644))

	fw, err := NewFileWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, fw.Start(context.Background()))
	defer fw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.xlsx"), []byte("x"), 0644))

	_, ok := waitEvent(t, fw, 200*time.Millisecond)
	assert.False(t, ok)
}

func TestFileWatcher_RenameIntoPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0644))

	fw, err := NewFileWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, fw.Start(context.Background()))
	defer fw.Stop()

	tmp := filepath.Join(dir, ".contacts.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("v1"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	_, ok := waitEvent(t, fw, 2*time.Second)
	assert.True(t, ok)
}

func TestFileWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.xlsx")
	fw, err := NewFileWatcher(path, 10*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, fw.Start(context.Background()))

	fw.Stop()
	fw.Stop()

	select {
	case <-fw.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}
}

func TestFileWatcher_StopWithoutStart(t *testing.T) {
	fw, err := NewFileWatcher(filepath.Join(t.TempDir(), "c.xlsx"), 10*time.Millisecond)
	require.NoError(t, err)
	fw.Stop()
	<-fw.Done()
}

func TestFileWatcher_ContextCancelEndsLoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.xlsx")
	fw, err := NewFileWatcher(path, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, fw.Start(ctx))
	cancel()

	select {
	case <-fw.Done():
	case <-time.After(time.Second):
		t.Fatal("watcher loop did not exit on cancel")
	}
	fw.Stop()
}
