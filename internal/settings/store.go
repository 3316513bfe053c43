// Package settings holds the event-wide display and mobile configuration
// plus the sponsor rotation list. Everything is in-memory; a restart goes
// back to defaults.
package settings

import (
	"encoding/json"
	"sync"

	"github.com/StewbeStew/CrowdCastr/internal/domain"
)

// emptySponsors is what clients see before any sponsor list is pushed.
var emptySponsors = json.RawMessage("[]")

// Snapshot bundles everything a freshly connected client needs.
type Snapshot struct {
	Display  domain.DisplaySettings `json:"display"`
	Mobile   domain.MobileSettings  `json:"mobile"`
	Sponsors json.RawMessage        `json:"sponsors"`
}

// Store is the single mutable home of settings state.
type Store struct {
	mu       sync.RWMutex
	display  domain.DisplaySettings
	mobile   domain.MobileSettings
	sponsors json.RawMessage
}

// NewStore creates a store seeded with the defaults.
func NewStore() *Store {
	return &Store{
		display:  domain.DefaultDisplaySettings(),
		mobile:   domain.DefaultMobileSettings(),
		sponsors: emptySponsors,
	}
}

// Display returns the current display settings.
func (s *Store) Display() domain.DisplaySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.display
}

// Mobile returns the current mobile settings.
func (s *Store) Mobile() domain.MobileSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mobile
}

// Sponsors returns a copy of the current sponsor list payload.
func (s *Store) Sponsors() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(json.RawMessage, len(s.sponsors))
	copy(out, s.sponsors)
	return out
}

// MergeDisplay applies a partial display change and returns the resulting
// full settings.
func (s *Store) MergeDisplay(p domain.DisplaySettingsPatch) domain.DisplaySettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.display = s.display.Merge(p)
	return s.display
}

// MergeMobile applies a partial mobile change and returns the resulting
// full settings.
func (s *Store) MergeMobile(p domain.MobileSettingsPatch) domain.MobileSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mobile = s.mobile.Merge(p)
	return s.mobile
}

// SetSponsors replaces the sponsor list wholesale. A nil payload resets to
// the empty list.
func (s *Store) SetSponsors(list json.RawMessage) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list == nil {
		s.sponsors = emptySponsors
	} else {
		s.sponsors = make(json.RawMessage, len(list))
		copy(s.sponsors, list)
	}
	return s.sponsors
}

// SnapshotAll returns a consistent view of all three settings groups.
func (s *Store) SnapshotAll() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sponsors := make(json.RawMessage, len(s.sponsors))
	copy(sponsors, s.sponsors)
	return Snapshot{
		Display:  s.display,
		Mobile:   s.mobile,
		Sponsors: sponsors,
	}
}
