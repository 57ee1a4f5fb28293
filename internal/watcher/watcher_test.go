package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/conneroisu/smartedit/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.eventType.String())
		})
	}
}

func TestHTMLFilter(t *testing.T) {
	assert.True(t, HTMLFilter("page.html"))
	assert.True(t, HTMLFilter("dir/INDEX.HTM"))
	assert.False(t, HTMLFilter("style.css"))
	assert.False(t, HTMLFilter("page.html.swp"))
}

func TestNoHiddenFilter(t *testing.T) {
	assert.True(t, NoHiddenFilter("dir/page.html"))
	assert.False(t, NoHiddenFilter("dir/.page.html"))
}

func TestPathFilter(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "page.html")

	filter := PathFilter(target)
	assert.True(t, filter(target))
	assert.True(t, filter(filepath.Join(dir, ".", "page.html")))
	assert.False(t, filter(filepath.Join(dir, "other.html")))
}

func TestDebouncerGroupsEvents(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.run(ctx)

	d.Add(ChangeEvent{Type: EventTypeCreated, Path: "b.html"})
	d.Add(ChangeEvent{Type: EventTypeModified, Path: "a.html"})
	d.Add(ChangeEvent{Type: EventTypeModified, Path: "b.html"})

	select {
	case events := <-d.Output():
		require.Len(t, events, 2)
		assert.Equal(t, "a.html", events[0].Path)
		assert.Equal(t, "b.html", events[1].Path)
		assert.Equal(t, EventTypeModified, events[1].Type)
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer did not flush")
	}
}

func TestFileWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(target, []byte("<p>one</p>"), 0o644))

	fw, err := NewFileWatcher(20*time.Millisecond, logging.NewTestLogger())
	require.NoError(t, err)
	fw.AddFilter(HTMLFilter)
	fw.AddFilter(PathFilter(target))

	var (
		mu   sync.Mutex
		seen []ChangeEvent
	)
	fw.AddHandler(func(ctx context.Context, events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, events...)
		return nil
	})

	require.NoError(t, fw.AddPath(target))
	fw.Start(context.Background())
	defer fw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.css"), []byte("p{}"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("<p>two</p>"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 3*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, e := range seen {
		assert.Equal(t, "page.html", filepath.Base(e.Path))
	}
}

func TestAddPathMissing(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	assert.Error(t, fw.AddPath(filepath.Join(t.TempDir(), "missing.html")))
}
