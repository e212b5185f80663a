package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuheykoyama/tnap/internal/slides"
	"github.com/shuheykoyama/tnap/internal/testutil"
	"github.com/shuheykoyama/tnap/internal/theme"
)

func TestWatcherReportsImages(t *testing.T) {
	tempDir := t.TempDir()

	w, err := New(WithFilter(theme.IsImage))
	require.NoError(t, err, "New watcher creation failed")
	require.NoError(t, w.AddDirectory(tempDir))
	require.NoError(t, w.AddDirectory(tempDir))
	assert.Equal(t, []string{tempDir}, w.Directories())

	require.NoError(t, w.Start())
	defer w.Stop()
	assert.True(t, w.IsRunning())
	assert.Error(t, w.Start(), "second start is rejected")

	// Allow fsnotify to initialise its watches.
	time.Sleep(100 * time.Millisecond)

	// Non-images are filtered out, so the first event must be the PNG.
	testutil.WriteFile(t, tempDir, "notes.txt", "ignored")
	pngPath := testutil.WritePNG(t, tempDir, "cat_03.png", 2, 2)

	select {
	case event, ok := <-w.Events():
		require.True(t, ok, "Event channel closed unexpectedly")
		assert.Equal(t, slides.Item(pngPath), event.Item)
		assert.True(t, event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write))
		require.NotNil(t, event.Info)
		assert.Equal(t, "cat_03.png", event.Info.Name())
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for image event")
	}
}

func TestWatcherStopClosesChannel(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(t.TempDir()))
	require.NoError(t, w.Start())

	w.Stop()
	w.Stop()
	assert.False(t, w.IsRunning())
	assert.Error(t, w.Start(), "a stopped watcher cannot be restarted")

	for range w.Events() {
	}
	_, ok := <-w.Events()
	assert.False(t, ok, "Event channel should be closed after stop")
}

func TestAddDirectoryErrors(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.fsWatcher.Close()

	assert.Error(t, w.AddDirectory(filepath.Join(t.TempDir(), "missing")))

	file := testutil.WriteFile(t, t.TempDir(), "plain.txt", "x")
	assert.Error(t, w.AddDirectory(file))
}

func TestFeedSkipsDuplicates(t *testing.T) {
	dir := t.TempDir()
	existing := slides.Item(filepath.Join(dir, "cat_01.png"))
	set := slides.New(existing)

	w, err := New(WithFilter(theme.IsImage))
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(dir))
	require.NoError(t, w.Start())

	done := make(chan int)
	go func() { done <- Feed(w, set) }()

	time.Sleep(100 * time.Millisecond)
	testutil.WritePNG(t, dir, "cat_02.png", 2, 2)
	require.NoError(t, os.WriteFile(existing.Path(), []byte("rewrite"), 0o644))

	require.Eventually(t, func() bool { return set.Len() == 2 }, 3*time.Second, 20*time.Millisecond)

	w.Stop()
	added := <-done
	assert.Equal(t, 1, added)
	assert.Equal(t, []slides.Item{existing, slides.Item(filepath.Join(dir, "cat_02.png"))}, set.Snapshot())
}

func TestFullBufferDelaysInsteadOfDropping(t *testing.T) {
	dir := t.TempDir()
	w, err := New(WithFilter(theme.IsImage), WithBuffer(1))
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(dir))
	require.NoError(t, w.Start())
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	want := map[slides.Item]bool{}
	for _, name := range []string{"a_01.png", "a_02.png", "a_03.png", "a_04.png"} {
		want[slides.Item(testutil.WritePNG(t, dir, name, 2, 2))] = true
	}
	// Nothing has been read yet, so the loop is parked on a full channel.
	time.Sleep(200 * time.Millisecond)

	seen := map[slides.Item]bool{}
	timeout := time.After(5 * time.Second)
	for len(seen) < len(want) {
		select {
		case ev := <-w.Events():
			seen[ev.Item] = true
		case <-timeout:
			t.Fatalf("saw %d of %d images", len(seen), len(want))
		}
	}
	assert.Equal(t, want, seen)
}

func TestStopWhileBlockedOnSend(t *testing.T) {
	dir := t.TempDir()
	w, err := New(WithBuffer(1))
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(dir))
	require.NoError(t, w.Start())
	time.Sleep(100 * time.Millisecond)

	testutil.WritePNG(t, dir, "a.png", 2, 2)
	testutil.WritePNG(t, dir, "b.png", 2, 2)
	time.Sleep(200 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop hung while the loop was waiting on a reader")
	}
}
