// Package workspace keeps the editing sessions of the documents being served.
//
// The number of open documents is bounded; the least recently used session is
// evicted when a new document would exceed the bound.
package workspace

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/conneroisu/smartedit/internal/editor"
	"github.com/conneroisu/smartedit/internal/logging"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is the number of documents kept when none is configured.
const DefaultCapacity = 32

// Factory builds a fresh session for newly opened document id.
type Factory func(id, html string) *editor.Session

// EventType represents the type of workspace event
type EventType int

const (
	EventTypeOpened EventType = iota
	EventTypeUpdated
	EventTypeRemoved
	EventTypeEvicted
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeOpened:
		return "opened"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	case EventTypeEvicted:
		return "evicted"
	default:
		return "unknown"
	}
}

// Event reports a change to a document in the workspace.
type Event struct {
	Type      EventType
	ID        string
	Reason    editor.ChangeReason
	Timestamp time.Time
}

// DocumentInfo summarizes an open document.
type DocumentInfo struct {
	ID         string `json:"id" yaml:"id"`
	Components int    `json:"components" yaml:"components"`
	Edits      int    `json:"edits" yaml:"edits"`
}

// Workspace is a bounded set of sessions keyed by document id.
type Workspace struct {
	sessions *lru.Cache[string, *editor.Session]
	factory  Factory
	logger   logging.Logger

	openMu    sync.Mutex
	removing  string
	watcherMu sync.RWMutex
	watchers  []func(Event)
}

// New creates a workspace holding at most capacity documents.
func New(capacity int, factory Factory, logger logging.Logger) (*Workspace, error) {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if factory == nil {
		factory = func(_, html string) *editor.Session {
			return editor.NewSession(editor.Dependencies{}, html)
		}
	}
	if logger == nil {
		logger = logging.NewTestLogger()
	}

	w := &Workspace{
		factory: factory,
		logger:  logger.WithComponent("workspace"),
	}

	cache, err := lru.NewWithEvict[string, *editor.Session](capacity, w.onEvict)
	if err != nil {
		return nil, err
	}
	w.sessions = cache
	return w, nil
}

// onEvict is called by the cache for capacity evictions and for Remove.
// Both happen with openMu held.
func (w *Workspace) onEvict(id string, _ *editor.Session) {
	if id == w.removing {
		return
	}
	w.logger.Info(context.Background(), "document evicted", "document", id)
	w.emit(Event{Type: EventTypeEvicted, ID: id})
}

// Watch registers fn to receive workspace events. fn must not call back
// into the workspace.
func (w *Workspace) Watch(fn func(Event)) {
	w.watcherMu.Lock()
	defer w.watcherMu.Unlock()
	w.watchers = append(w.watchers, fn)
}

func (w *Workspace) emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	w.watcherMu.RLock()
	watchers := w.watchers
	w.watcherMu.RUnlock()
	for _, fn := range watchers {
		fn(event)
	}
}

// Open loads html as document id. An open document keeps its session and
// history and has its HTML replaced; otherwise a new session is created.
// It reports whether a new session was created.
func (w *Workspace) Open(ctx context.Context, id, html string) (*editor.Session, bool) {
	w.openMu.Lock()
	defer w.openMu.Unlock()

	if session, ok := w.sessions.Get(id); ok {
		session.Load(ctx, html)
		return session, false
	}

	session := w.factory(id, html)
	session.OnChange(func(change editor.Change) {
		w.emit(Event{Type: EventTypeUpdated, ID: id, Reason: change.Reason})
	})
	w.sessions.Add(id, session)

	w.logger.Info(ctx, "document opened", "document", id, "components", len(session.Components()))
	w.emit(Event{Type: EventTypeOpened, ID: id})
	return session, true
}

// Get returns the session for id and marks it as recently used.
func (w *Workspace) Get(id string) (*editor.Session, bool) {
	return w.sessions.Get(id)
}

// Remove closes document id. It reports whether the document was open.
func (w *Workspace) Remove(id string) bool {
	w.openMu.Lock()
	defer w.openMu.Unlock()

	if _, ok := w.sessions.Peek(id); !ok {
		return false
	}
	w.removing = id
	w.sessions.Remove(id)
	w.removing = ""
	w.emit(Event{Type: EventTypeRemoved, ID: id})
	return true
}

// Len returns the number of open documents.
func (w *Workspace) Len() int {
	return w.sessions.Len()
}

// List returns the open documents sorted by id.
func (w *Workspace) List() []DocumentInfo {
	ids := w.sessions.Keys()
	sort.Strings(ids)

	docs := make([]DocumentInfo, 0, len(ids))
	for _, id := range ids {
		session, ok := w.sessions.Peek(id)
		if !ok {
			continue
		}
		docs = append(docs, DocumentInfo{
			ID:         id,
			Components: len(session.Components()),
			Edits:      len(session.History()),
		})
	}
	return docs
}
