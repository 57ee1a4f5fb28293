package workspace

import (
	"context"
	"sync"
	"testing"

	"github.com/conneroisu/smartedit/internal/editor"
	"github.com/conneroisu/smartedit/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<header id="main-header">Hi</header><section class="hero" id="hero-section">X</section>`

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func newWorkspace(t *testing.T, capacity int) (*Workspace, *recorder) {
	t.Helper()
	w, err := New(capacity, nil, logging.NewTestLogger())
	require.NoError(t, err)
	rec := &recorder{}
	w.Watch(rec.record)
	return w, rec
}

func TestOpenCreatesSession(t *testing.T) {
	w, rec := newWorkspace(t, 4)

	session, created := w.Open(context.Background(), "landing", page)
	require.True(t, created)
	assert.Contains(t, session.Components(), "hero-section")
	assert.Equal(t, 1, w.Len())
	assert.Equal(t, []EventType{EventTypeOpened}, rec.types())

	got, ok := w.Get("landing")
	require.True(t, ok)
	assert.Same(t, session, got)
}

func TestOpenExistingReloadsAndKeepsHistory(t *testing.T) {
	w, rec := newWorkspace(t, 4)
	ctx := context.Background()

	session, _ := w.Open(ctx, "landing", page)
	_, err := session.Submit(ctx, "make the hero red")
	require.NoError(t, err)

	again, created := w.Open(ctx, "landing", `<footer id="main-footer">bye</footer>`)
	assert.False(t, created)
	assert.Same(t, session, again)
	assert.Len(t, again.History(), 1)
	assert.Contains(t, again.Components(), "main-footer")
	assert.NotContains(t, again.Components(), "hero-section")

	assert.Equal(t, []EventType{EventTypeOpened, EventTypeUpdated, EventTypeUpdated}, rec.types())

	rec.mu.Lock()
	assert.Equal(t, editor.ReasonEdit, rec.events[1].Reason)
	assert.Equal(t, editor.ReasonLoad, rec.events[2].Reason)
	rec.mu.Unlock()
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	w, rec := newWorkspace(t, 2)
	ctx := context.Background()

	w.Open(ctx, "a", page)
	w.Open(ctx, "b", page)
	_, ok := w.Get("a") // a is now most recent
	require.True(t, ok)
	w.Open(ctx, "c", page)

	assert.Equal(t, 2, w.Len())
	_, ok = w.Get("b")
	assert.False(t, ok)

	var evicted []string
	rec.mu.Lock()
	for _, e := range rec.events {
		if e.Type == EventTypeEvicted {
			evicted = append(evicted, e.ID)
		}
	}
	rec.mu.Unlock()
	assert.Equal(t, []string{"b"}, evicted)
}

func TestRemove(t *testing.T) {
	w, rec := newWorkspace(t, 2)
	ctx := context.Background()

	w.Open(ctx, "a", page)
	assert.True(t, w.Remove("a"))
	assert.False(t, w.Remove("a"))
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, []EventType{EventTypeOpened, EventTypeRemoved}, rec.types())
}

func TestList(t *testing.T) {
	w, _ := newWorkspace(t, 4)
	ctx := context.Background()

	w.Open(ctx, "zeta", page)
	s, _ := w.Open(ctx, "alpha", page)
	_, err := s.Submit(ctx, "make the header bigger")
	require.NoError(t, err)

	docs := w.List()
	require.Len(t, docs, 2)
	assert.Equal(t, DocumentInfo{ID: "alpha", Components: 2, Edits: 1}, docs[0])
	assert.Equal(t, DocumentInfo{ID: "zeta", Components: 2, Edits: 0}, docs[1])
}

func TestNewDefaults(t *testing.T) {
	w, err := New(0, nil, nil)
	require.NoError(t, err)

	for i := 0; i < DefaultCapacity+1; i++ {
		w.Open(context.Background(), string(rune('a'+i%26))+string(rune('0'+i/26)), page)
	}
	assert.Equal(t, DefaultCapacity, w.Len())
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "opened", EventTypeOpened.String())
	assert.Equal(t, "updated", EventTypeUpdated.String())
	assert.Equal(t, "removed", EventTypeRemoved.String())
	assert.Equal(t, "evicted", EventTypeEvicted.String())
	assert.Equal(t, "unknown", EventType(42).String())
}

func TestFactoryReceivesDocumentID(t *testing.T) {
	var ids []string
	w, err := New(2, func(id, html string) *editor.Session {
		ids = append(ids, id)
		return editor.NewSession(editor.Dependencies{}, html)
	}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	w.Open(ctx, "a", page)
	w.Open(ctx, "a", page)
	w.Open(ctx, "b", page)
	assert.Equal(t, []string{"a", "b"}, ids)
}
