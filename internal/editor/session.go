// Package editor runs edit requests against a single document.
//
// A Session owns the current HTML, its component map and the edit history.
// Each request moves through Idle → Resolving → Applying → Done, or stops at
// Rejected when the input is blank or cannot be resolved; either way the
// session returns to Idle before Submit returns. Requests on one session are
// processed one at a time in submission order.
package editor

import (
	"context"
	"strings"
	"sync"

	"github.com/conneroisu/smartedit/internal/errors"
	"github.com/conneroisu/smartedit/internal/history"
	"github.com/conneroisu/smartedit/internal/indexer"
	"github.com/conneroisu/smartedit/internal/intent"
	"github.com/conneroisu/smartedit/internal/logging"
	"github.com/conneroisu/smartedit/internal/mutation"
	"github.com/conneroisu/smartedit/internal/types"
)

// State is a step of the per-request state machine.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateApplying
	StateDone
	StateRejected
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateApplying:
		return "applying"
	case StateDone:
		return "done"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result is the outcome of an accepted edit request.
type Result struct {
	Intent     types.EditIntent   `json:"intent" yaml:"intent"`
	HTML       string             `json:"html" yaml:"html"`
	Record     types.EditRecord   `json:"record" yaml:"record"`
	Changed    bool               `json:"changed" yaml:"changed"`
	Components types.ComponentMap `json:"components" yaml:"components"`
}

// ChangeReason says why a session's document changed.
type ChangeReason string

const (
	ReasonEdit ChangeReason = "edit"
	ReasonLoad ChangeReason = "load"
)

// Change is delivered to observers after the document is replaced.
type Change struct {
	Reason ChangeReason
	HTML   string
	Record *types.EditRecord
}

// Dependencies holds the collaborators of a session. Nil fields are filled
// with defaults by NewSession.
type Dependencies struct {
	Indexer  *indexer.Indexer
	Resolver *intent.Resolver
	Applier  *mutation.Applier
	History  *history.History
	Tokens   types.DesignTokens
	Logger   logging.Logger
}

// Session is the editing state of one document.
type Session struct {
	mu         sync.Mutex
	indexer    *indexer.Indexer
	resolver   *intent.Resolver
	applier    *mutation.Applier
	history    *history.History
	tokens     types.DesignTokens
	logger     logging.Logger
	html       string
	components types.ComponentMap
	state      State
	outcome    State

	hooksMu     sync.RWMutex
	observers   []func(Change)
	transitions []func(from, to State)
}

// NewSession creates a session over html.
func NewSession(deps Dependencies, html string) *Session {
	if deps.Logger == nil {
		deps.Logger = logging.NewTestLogger()
	}
	if deps.Indexer == nil {
		deps.Indexer = indexer.New(deps.Logger)
	}
	if deps.Resolver == nil {
		deps.Resolver = intent.NewResolver(intent.ColorLast)
	}
	if deps.Applier == nil {
		deps.Applier = mutation.NewApplier(deps.Logger, false)
	}
	if deps.History == nil {
		deps.History = history.New(history.DefaultCapacity)
	}
	if deps.Tokens == (types.DesignTokens{}) {
		deps.Tokens = types.DefaultDesignTokens()
	}

	s := &Session{
		indexer:  deps.Indexer,
		resolver: deps.Resolver,
		applier:  deps.Applier,
		history:  deps.History,
		tokens:   deps.Tokens,
		logger:   deps.Logger.WithComponent("editor"),
		html:     html,
		state:    StateIdle,
		outcome:  StateIdle,
	}
	s.components = s.indexer.Index(context.Background(), html)
	return s
}

// OnChange registers an observer called after every document replacement.
// Observers run after the session lock is released.
func (s *Session) OnChange(fn func(Change)) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.observers = append(s.observers, fn)
}

// OnTransition registers a hook called on every state change. Hooks run
// with the session locked and must not call back into it.
func (s *Session) OnTransition(fn func(from, to State)) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.transitions = append(s.transitions, fn)
}

// Submit runs one edit request to completion.
func (s *Session) Submit(ctx context.Context, text string) (Result, error) {
	s.mu.Lock()
	result, err := s.submitLocked(ctx, text)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn(ctx, err, "Edit request rejected", "input", logging.SanitizeForLog(text))
		return Result{}, err
	}

	rec := result.Record
	s.notify(Change{Reason: ReasonEdit, HTML: result.HTML, Record: &rec})
	return result, nil
}

func (s *Session) submitLocked(ctx context.Context, text string) (Result, error) {
	defer s.transition(StateIdle)

	if strings.TrimSpace(text) == "" {
		s.reject()
		return Result{}, errors.NewEmptyInputError()
	}

	s.transition(StateResolving)
	editIntent, ok := s.resolver.Resolve(text, s.components)
	if !ok {
		s.reject()
		return Result{}, errors.NewUnresolvedIntentError(text)
	}

	s.transition(StateApplying)
	out, err := s.applier.Apply(ctx, editIntent, s.html)
	if err != nil {
		s.reject()
		return Result{}, err
	}

	changed := out != s.html
	s.html = out
	s.components = s.indexer.Index(ctx, out)
	rec := s.history.Record(text, editIntent.TargetComponentID)

	s.transition(StateDone)
	s.outcome = StateDone

	s.logger.Info(ctx, "Edit applied",
		"component_id", editIntent.TargetComponentID,
		"action", editIntent.Action,
		"changed", changed)

	return Result{
		Intent:     editIntent,
		HTML:       out,
		Record:     rec,
		Changed:    changed,
		Components: copyComponents(s.components),
	}, nil
}

func (s *Session) reject() {
	s.transition(StateRejected)
	s.outcome = StateRejected
}

// Resolve reports the intent text would produce without applying it.
func (s *Session) Resolve(text string) (types.EditIntent, error) {
	if strings.TrimSpace(text) == "" {
		return types.EditIntent{}, errors.NewEmptyInputError()
	}

	s.mu.Lock()
	components := s.components
	s.mu.Unlock()

	editIntent, ok := s.resolver.Resolve(text, components)
	if !ok {
		return types.EditIntent{}, errors.NewUnresolvedIntentError(text)
	}
	return editIntent, nil
}

// Load replaces the document and re-indexes it.
func (s *Session) Load(ctx context.Context, html string) {
	s.mu.Lock()
	s.html = html
	s.components = s.indexer.Index(ctx, html)
	count := len(s.components)
	s.mu.Unlock()

	s.logger.Debug(ctx, "Document loaded", "components", count)
	s.notify(Change{Reason: ReasonLoad, HTML: html})
}

// HTML returns the current document.
func (s *Session) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.html
}

// Components returns a copy of the current component map.
func (s *Session) Components() types.ComponentMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyComponents(s.components)
}

// History returns the recent edits, newest first.
func (s *Session) History() []types.EditRecord {
	return s.history.Recent()
}

// Tokens returns the design tokens shown alongside the document.
func (s *Session) Tokens() types.DesignTokens {
	return s.tokens
}

// State returns the current state; outside Submit this is always Idle.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastOutcome returns Done or Rejected for the most recent request, or Idle
// if none has run.
func (s *Session) LastOutcome() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

func (s *Session) transition(to State) {
	from := s.state
	if from == to {
		return
	}
	s.state = to

	s.hooksMu.RLock()
	hooks := s.transitions
	s.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(from, to)
	}
}

func (s *Session) notify(change Change) {
	s.hooksMu.RLock()
	observers := s.observers
	s.hooksMu.RUnlock()
	for _, fn := range observers {
		fn(change)
	}
}

func copyComponents(m types.ComponentMap) types.ComponentMap {
	out := make(types.ComponentMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
