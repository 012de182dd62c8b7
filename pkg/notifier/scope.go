// scope.go provides the per-task Scope and its propagation through
// context.Context.

package notifier

import (
	"context"
	"maps"
	"sync"
)

// ScopeData is a read-only snapshot of a Scope.
type ScopeData struct {
	Tags  map[string]string `json:"tags"`
	Extra map[string]any    `json:"extra"`
}

// Scope accumulates tags and extra data for one logical task.
// Goroutines started inside an isolated block share that block's Scope, so
// all methods are safe for concurrent use.
type Scope struct {
	mu    sync.RWMutex
	tags  map[string]string
	extra map[string]any
}

// NewScope returns an empty Scope.
func NewScope() *Scope {
	return &Scope{
		tags:  make(map[string]string),
		extra: make(map[string]any),
	}
}

// SetTag sets a tag, replacing any previous value for key.
func (s *Scope) SetTag(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags[key] = value
}

// SetTags sets several tags at once.
func (s *Scope) SetTags(tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.tags, tags)
}

// RemoveTag deletes a tag.
func (s *Scope) RemoveTag(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tags, key)
}

// SetExtra sets an extra value, replacing any previous value for key.
func (s *Scope) SetExtra(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extra[key] = value
}

// Clone returns an independent copy of the scope.
func (s *Scope) Clone() *Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Scope{
		tags:  maps.Clone(s.tags),
		extra: maps.Clone(s.extra),
	}
}

// Serialize returns a snapshot of the scope. The returned maps are never nil
// and are not shared with the scope.
func (s *Scope) Serialize() ScopeData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ScopeData{
		Tags:  maps.Clone(s.tags),
		Extra: maps.Clone(s.extra),
	}
}

type scopeKey struct{}

// NewIsolatedContext returns a context carrying a new Scope. The new scope
// starts as a copy of the scope active in ctx (if any); changes made to it are
// never visible through ctx.
func NewIsolatedContext(ctx context.Context) context.Context {
	scope := NewScope()
	if parent, ok := scopeFromContext(ctx); ok {
		scope = parent.Clone()
	}
	return context.WithValue(ctx, scopeKey{}, scope)
}

// RunIsolated runs fn with an isolated scope. Scope changes made by fn, by
// functions it calls with the provided context, and by goroutines it starts
// with that context are visible only to them.
func RunIsolated(ctx context.Context, fn func(ctx context.Context)) {
	fn(NewIsolatedContext(ctx))
}

// WithScope is RunIsolated that also hands fn the new scope.
//
//	notifier.WithScope(ctx, func(ctx context.Context, scope *notifier.Scope) {
//	    scope.SetTag("user", userID)
//	    client.CaptureException(ctx, err, nil)
//	})
func WithScope(ctx context.Context, fn func(ctx context.Context, scope *Scope)) {
	RunIsolated(ctx, func(ctx context.Context) {
		fn(ctx, CurrentScope(ctx))
	})
}

// CurrentScope returns the scope active in ctx. Outside an isolated block it
// returns a fresh detached scope; writes to a detached scope have no effect on
// later calls.
func CurrentScope(ctx context.Context) *Scope {
	if scope, ok := scopeFromContext(ctx); ok {
		return scope
	}
	return NewScope()
}

func scopeFromContext(ctx context.Context) (*Scope, bool) {
	if ctx == nil {
		return nil, false
	}
	scope, ok := ctx.Value(scopeKey{}).(*Scope)
	return scope, ok && scope != nil
}
