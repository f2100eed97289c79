package registry

import (
	"fmt"
	"sync"
	"time"

	apperrors "github.com/louisbranch/mathic/internal/platform/errors"
	"github.com/louisbranch/mathic/internal/services/game/domain/duel"
)

// Registry is the concurrency-safe store of all sessions.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	// order holds entries by creation sequence.
	order []*entry
	now   func() time.Time
}

type entry struct {
	mu      sync.Mutex
	session duel.Session
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the clock used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// New builds an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create inserts session under its id and returns the stored snapshot.
// CreatedAt and UpdatedAt are stamped by the registry.
func (r *Registry) Create(session duel.Session) (duel.Session, error) {
	now := r.now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	if err := session.Validate(); err != nil {
		return duel.Session{}, apperrors.Wrap(apperrors.CodeInvalidParam, "invalid session", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[session.ID]; ok {
		return duel.Session{}, duel.ConflictError(session.ID)
	}
	e := &entry{session: session}
	r.entries[session.ID] = e
	r.order = append(r.order, e)
	return session, nil
}

// Get returns a snapshot of the session with id.
func (r *Registry) Get(id string) (duel.Session, error) {
	e, ok := r.lookup(id)
	if !ok {
		return duel.Session{}, duel.NotFoundError(id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session, nil
}

// Mutate applies fn to a copy of the session and commits the copy only when
// fn succeeds and the result is still a valid session. The returned snapshot
// is the committed state.
func (r *Registry) Mutate(id string, fn func(*duel.Session) error) (duel.Session, error) {
	e, ok := r.lookup(id)
	if !ok {
		return duel.Session{}, duel.NotFoundError(id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return r.apply(e, fn)
}

// Claim walks sessions in creation order and applies fn to the first one
// for which match reports true. Each candidate is tested and claimed under
// its own lock, so two callers can never claim the same session. The boolean
// result is false when no session matched.
func (r *Registry) Claim(match func(duel.Session) bool, fn func(*duel.Session) error) (duel.Session, bool, error) {
	for _, e := range r.snapshotOrder() {
		session, claimed, err := r.tryClaim(e, match, fn)
		if err != nil || claimed {
			return session, claimed, err
		}
	}
	return duel.Session{}, false, nil
}

func (r *Registry) tryClaim(e *entry, match func(duel.Session) bool, fn func(*duel.Session) error) (duel.Session, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !match(e.session) {
		return duel.Session{}, false, nil
	}
	session, err := r.apply(e, fn)
	if err != nil {
		return duel.Session{}, false, err
	}
	return session, true, nil
}

// List returns snapshots of every session in creation order.
func (r *Registry) List() []duel.Session {
	order := r.snapshotOrder()
	out := make([]duel.Session, 0, len(order))
	for _, e := range order {
		e.mu.Lock()
		out = append(out, e.session)
		e.mu.Unlock()
	}
	return out
}

// Len reports how many sessions are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// apply runs fn against e. The caller must hold e.mu.
func (r *Registry) apply(e *entry, fn func(*duel.Session) error) (duel.Session, error) {
	next := e.session
	if err := fn(&next); err != nil {
		return duel.Session{}, err
	}
	if next == e.session {
		return next, nil
	}
	if err := checkTransition(e.session, next); err != nil {
		return duel.Session{}, err
	}
	next.UpdatedAt = r.now().UTC()
	e.session = next
	return next, nil
}

func checkTransition(prev, next duel.Session) error {
	if next.ID != prev.ID || !next.CreatedAt.Equal(prev.CreatedAt) {
		return apperrors.New(apperrors.CodeInvalidState, fmt.Sprintf("session %s: identity is immutable", prev.ID))
	}
	if prev.Status == duel.StatusFinished {
		return apperrors.New(apperrors.CodeInvalidState, fmt.Sprintf("session %s: finished sessions are immutable", prev.ID))
	}
	if err := next.Validate(); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidState, "invalid session after mutation", err)
	}
	return nil
}

func (r *Registry) lookup(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

func (r *Registry) snapshotOrder() []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entry, len(r.order))
	copy(out, r.order)
	return out
}
