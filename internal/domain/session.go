package domain

import "time"

// Role is the functional identity of a connected session.
type Role string

const (
	// RoleUnassigned is the role of every session between connect and its
	// first registration event. Unassigned sessions receive no role-scoped
	// broadcasts.
	RoleUnassigned Role = "unassigned"

	// RoleMobile is a spectator phone streaming camera snapshots.
	RoleMobile Role = "mobile"

	// RoleControlRoom is the operator view that sees every device tile.
	RoleControlRoom Role = "control_room"

	// RoleArenaDisplay is the big-screen sink that renders the live device.
	RoleArenaDisplay Role = "arena_display"
)

// Valid reports whether r is one of the announced roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMobile, RoleControlRoom, RoleArenaDisplay:
		return true
	}
	return false
}

// Session is the server-side record of one live connection. The registry
// owns the canonical copy; callers always work with value copies.
type Session struct {
	ID          string
	Role        Role
	Name        string
	Preview     string // latest opaque frame payload, "" until the first one arrives
	ConnectedAt time.Time
}

// HasPreview reports whether at least one frame has been recorded for the
// session. Go-live promotion requires this.
func (s Session) HasPreview() bool {
	return s.Preview != ""
}
