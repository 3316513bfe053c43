// Package registry tracks every connected session and the single live
// selection. All state lives in memory and dies with the process.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/StewbeStew/CrowdCastr/internal/domain"
)

// Registry errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotMobile       = errors.New("session is not a mobile device")
	ErrNoPreview       = errors.New("session has no preview yet")
)

// Registry is the authoritative map of connected sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	nameSeq  int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*domain.Session),
	}
}

// Add records a freshly connected, still unassigned session.
func (r *Registry) Add(id string) domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &domain.Session{
		ID:          id,
		Role:        domain.RoleUnassigned,
		ConnectedAt: time.Now(),
	}
	r.sessions[id] = s
	return *s
}

// Remove drops a session and returns its last state.
func (r *Registry) Remove(id string) (domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	delete(r.sessions, id)
	return *s, true
}

// Get returns a copy of the session with the given ID.
func (r *Registry) Get(id string) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, false
	}
	return *s, true
}

// SetRole assigns a role to a session. Mobile sessions registered without a
// name get a generated one; re-registering keeps the existing name unless a
// new one is supplied.
func (r *Registry) SetRole(id string, role domain.Role, name string) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	s.Role = role
	if name != "" {
		s.Name = name
	} else if role == domain.RoleMobile && s.Name == "" {
		r.nameSeq++
		s.Name = fmt.Sprintf("Phone %d", r.nameSeq)
	}
	return *s, nil
}

// SetPreview records the latest frame for a session, replacing any prior
// one.
func (r *Registry) SetPreview(id string, preview string) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	s.Preview = preview
	return *s, nil
}

// ListByRole returns copies of all sessions holding the given role, ordered
// by connect time so tile layouts stay stable.
func (r *Registry) ListByRole(role domain.Role) []domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.Role == role {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ConnectedAt.Equal(out[j].ConnectedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ConnectedAt.Before(out[j].ConnectedAt)
	})
	return out
}

// Count returns the number of connected sessions across all roles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
