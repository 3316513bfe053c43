package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/StewbeStew/CrowdCastr/internal/config"
	"github.com/StewbeStew/CrowdCastr/internal/domain"
)

func newTestHub() *Hub {
	return NewHub(config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 1 << 20,
	})
}

// addClient registers a client without starting pumps; deliveries land in
// its Send buffer.
func addClient(h *Hub, id string, role domain.Role) *Client {
	c := &Client{ID: id, Hub: h, Send: make(chan []byte, 8)}
	h.Register(c)
	if role != domain.RoleUnassigned {
		h.SetRole(c, role)
	}
	return c
}

func readPayload(t *testing.T, c *Client) map[string]any {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		if !ok {
			t.Fatalf("send channel closed")
		}
		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("decode %q: %v", data, err)
		}
		return decoded
	case <-time.After(2 * time.Second):
		t.Fatalf("no message enqueued for %s", c.ID)
		return nil
	}
}

func expectEmpty(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected message for %s: %s", c.ID, data)
	default:
	}
}

func TestSendToClient(t *testing.T) {
	h := newTestHub()
	c := addClient(h, "c-1", domain.RoleUnassigned)

	if err := h.SendToClient("c-1", map[string]string{"type": "hello"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg := readPayload(t, c); msg["type"] != "hello" {
		t.Fatalf("unexpected payload: %v", msg)
	}

	// Unknown IDs are a no-op, not an error.
	if err := h.SendToClient("ghost", map[string]string{"type": "hello"}); err != nil {
		t.Fatalf("send to unknown: %v", err)
	}
}

func TestBroadcastToRoleScopesByGroup(t *testing.T) {
	h := newTestHub()
	ops := addClient(h, "ops-1", domain.RoleControlRoom)
	cam := addClient(h, "cam-1", domain.RoleMobile)
	idle := addClient(h, "idle-1", domain.RoleUnassigned)

	if err := h.BroadcastToRole(domain.RoleControlRoom, map[string]string{"type": "tick"}, ""); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	if msg := readPayload(t, ops); msg["type"] != "tick" {
		t.Fatalf("unexpected payload: %v", msg)
	}
	expectEmpty(t, cam)
	expectEmpty(t, idle)
}

func TestBroadcastToRolesExcludesOriginator(t *testing.T) {
	h := newTestHub()
	ops1 := addClient(h, "ops-1", domain.RoleControlRoom)
	ops2 := addClient(h, "ops-2", domain.RoleControlRoom)
	wall := addClient(h, "wall-1", domain.RoleArenaDisplay)

	roles := []domain.Role{domain.RoleArenaDisplay, domain.RoleControlRoom}
	if err := h.BroadcastToRoles(roles, map[string]string{"type": "tick"}, "ops-1"); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	readPayload(t, ops2)
	readPayload(t, wall)
	expectEmpty(t, ops1)
}

func TestBroadcastPreservesEnqueueOrder(t *testing.T) {
	h := newTestHub()
	ops := addClient(h, "ops-1", domain.RoleControlRoom)

	for i, typ := range []string{"first", "second", "third"} {
		if err := h.BroadcastToRole(domain.RoleControlRoom, map[string]string{"type": typ}, ""); err != nil {
			t.Fatalf("broadcast %d: %v", i, err)
		}
	}

	for _, want := range []string{"first", "second", "third"} {
		if msg := readPayload(t, ops); msg["type"] != want {
			t.Fatalf("order broken: expected %s, got %v", want, msg["type"])
		}
	}
}

func TestSetRoleMovesBetweenGroups(t *testing.T) {
	h := newTestHub()
	c := addClient(h, "c-1", domain.RoleMobile)

	h.SetRole(c, domain.RoleArenaDisplay)

	if err := h.BroadcastToRole(domain.RoleMobile, map[string]string{"type": "tick"}, ""); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	expectEmpty(t, c)

	if err := h.BroadcastToRole(domain.RoleArenaDisplay, map[string]string{"type": "tock"}, ""); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if msg := readPayload(t, c); msg["type"] != "tock" {
		t.Fatalf("unexpected payload: %v", msg)
	}
}

func TestUnregisterClosesSendOnce(t *testing.T) {
	h := newTestHub()
	c := addClient(h, "c-1", domain.RoleMobile)

	h.Unregister(c)
	if _, ok := <-c.Send; ok {
		t.Fatalf("send channel should be closed")
	}

	// A second Unregister must not panic on the closed channel.
	h.Unregister(c)

	// And the client is gone from its role group.
	if err := h.BroadcastToRole(domain.RoleMobile, map[string]string{"type": "tick"}, ""); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	h := newTestHub()
	c := &Client{ID: "slow-1", Hub: h, Send: make(chan []byte, 1)}
	h.Register(c)
	h.SetRole(c, domain.RoleControlRoom)

	// Fill the buffer, then force an overflow.
	if err := h.BroadcastToRole(domain.RoleControlRoom, map[string]string{"type": "one"}, ""); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if err := h.BroadcastToRole(domain.RoleControlRoom, map[string]string{"type": "two"}, ""); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	// The overflow drops the client asynchronously; its channel drains the
	// buffered message and then closes.
	if msg := readPayload(t, c); msg["type"] != "one" {
		t.Fatalf("unexpected payload: %v", msg)
	}
	select {
	case _, ok := <-c.Send:
		if ok {
			t.Fatalf("expected closed channel after drop")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("slow client was not dropped")
	}
}
