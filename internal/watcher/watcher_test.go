package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/accname/internal/logging"
	"github.com/conneroisu/accname/internal/testutils"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestPatternFilter(t *testing.T) {
	filter := PatternFilter([]string{"*.html", "*.htm"})

	assert.True(t, filter("site/index.html"))
	assert.True(t, filter("legacy.htm"))
	assert.False(t, filter("main.go"))
	assert.False(t, filter("index.html.bak"))
}

func TestAcceptsHonoursIgnore(t *testing.T) {
	fw, err := NewFileWatcher(10*time.Millisecond, logging.NewTestLogger())
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(PatternFilter([]string{"*.html"}))
	fw.SetIgnore([]string{"node_modules", ".git"})

	assert.True(t, fw.accepts("site/index.html"))
	assert.False(t, fw.accepts("site/node_modules/pkg/index.html"))
	assert.False(t, fw.accepts("site/style.css"))
}

func TestFiles(t *testing.T) {
	root := testutils.CreateTempSite(t)

	fw, err := NewFileWatcher(10*time.Millisecond, logging.NewTestLogger())
	require.NoError(t, err)
	defer fw.Stop()
	fw.AddFilter(PatternFilter([]string{"*.html", "*.htm"}))
	fw.SetIgnore([]string{"node_modules", ".git"})

	files, err := fw.Files(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, testutils.SiteIndex),
		filepath.Join(root, filepath.FromSlash(testutils.SiteGuide)),
	}, files)

	single, err := fw.Files(filepath.Join(root, testutils.SiteIndex))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, testutils.SiteIndex)}, single)
}

func TestDebouncerCoalescesEvents(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	d.addEvent(ChangeEvent{Type: EventTypeCreated, Path: "b.html"})
	d.addEvent(ChangeEvent{Type: EventTypeModified, Path: "a.html"})
	d.addEvent(ChangeEvent{Type: EventTypeModified, Path: "b.html"})

	select {
	case events := <-d.output:
		require.Len(t, events, 2)
		assert.Equal(t, "a.html", events[0].Path)
		assert.Equal(t, "b.html", events[1].Path)
		assert.Equal(t, EventTypeModified, events[1].Type)
	case <-time.After(time.Second):
		t.Fatal("debouncer did not flush")
	}
}

func TestFileWatcherDeliversChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "node_modules"), 0o755))

	fw, err := NewFileWatcher(50*time.Millisecond, logging.NewTestLogger())
	require.NoError(t, err)
	defer fw.Stop()

	fw.SetIgnore([]string{"node_modules"})
	fw.AddFilter(PatternFilter([]string{"*.html"}))

	var (
		mu  sync.Mutex
		got []ChangeEvent
	)
	done := make(chan struct{}, 1)
	fw.AddHandler(func(_ context.Context, events []ChangeEvent) error {
		mu.Lock()
		got = append(got, events...)
		mu.Unlock()
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	require.NoError(t, fw.AddRecursive(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>hi</p>"), 0o644))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("no change delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	for _, e := range got {
		assert.Equal(t, "index.html", filepath.Base(e.Path))
	}
}

func TestAddPathRejectsEmpty(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	assert.Error(t, fw.AddPath(""))
}
