package registry

import (
	"sync"

	"github.com/StewbeStew/CrowdCastr/internal/domain"
)

// Live holds which session, if any, is on the big screen. At most one
// session is live at a time; promoting a new one implicitly demotes the
// previous one.
type Live struct {
	mu      sync.RWMutex
	reg     *Registry
	current string
}

// NewLive creates a live selection consulting reg for eligibility.
func NewLive(reg *Registry) *Live {
	return &Live{reg: reg}
}

// Promote marks the given session live and returns its current state. The
// target must be a mobile session with at least one recorded preview;
// otherwise the selection is left unchanged.
func (l *Live) Promote(id string) (domain.Session, error) {
	s, ok := l.reg.Get(id)
	if !ok {
		return domain.Session{}, ErrSessionNotFound
	}
	if s.Role != domain.RoleMobile {
		return domain.Session{}, ErrNotMobile
	}
	if !s.HasPreview() {
		return domain.Session{}, ErrNoPreview
	}

	l.mu.Lock()
	l.current = id
	l.mu.Unlock()
	return s, nil
}

// Current returns the live session ID, if any.
func (l *Live) Current() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current, l.current != ""
}

// IsLive reports whether the given session is the live one.
func (l *Live) IsLive(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return id != "" && l.current == id
}

// ClearIfCurrent resets the selection when the given session is live, which
// happens when the live device disconnects. It reports whether anything
// changed.
func (l *Live) ClearIfCurrent(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != id || id == "" {
		return false
	}
	l.current = ""
	return true
}
