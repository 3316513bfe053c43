package registry

import (
	"errors"
	"testing"

	"github.com/StewbeStew/CrowdCastr/internal/domain"
)

func TestAddStartsUnassigned(t *testing.T) {
	reg := NewRegistry()
	sess := reg.Add("s1")

	if sess.Role != domain.RoleUnassigned {
		t.Fatalf("expected unassigned role, got %q", sess.Role)
	}
	if sess.ConnectedAt.IsZero() {
		t.Fatalf("expected connect time to be set")
	}
	if got, ok := reg.Get("s1"); !ok || got.ID != "s1" {
		t.Fatalf("session not retrievable: %#v ok=%v", got, ok)
	}
}

func TestSetRoleGeneratesDeviceNames(t *testing.T) {
	reg := NewRegistry()
	reg.Add("a")
	reg.Add("b")
	reg.Add("c")

	first, err := reg.SetRole("a", domain.RoleMobile, "")
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	second, err := reg.SetRole("b", domain.RoleMobile, "")
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	named, err := reg.SetRole("c", domain.RoleMobile, "North Stand")
	if err != nil {
		t.Fatalf("set role: %v", err)
	}

	if first.Name != "Phone 1" || second.Name != "Phone 2" {
		t.Fatalf("expected generated names Phone 1/Phone 2, got %q/%q", first.Name, second.Name)
	}
	if named.Name != "North Stand" {
		t.Fatalf("explicit name lost: %q", named.Name)
	}
}

func TestSetRoleKeepsNameOnReRegister(t *testing.T) {
	reg := NewRegistry()
	reg.Add("a")

	if _, err := reg.SetRole("a", domain.RoleMobile, "Corner Cam"); err != nil {
		t.Fatalf("set role: %v", err)
	}
	sess, err := reg.SetRole("a", domain.RoleMobile, "")
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if sess.Name != "Corner Cam" {
		t.Fatalf("re-register dropped the name: %q", sess.Name)
	}

	renamed, err := reg.SetRole("a", domain.RoleMobile, "Upper Tier")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "Upper Tier" {
		t.Fatalf("new explicit name not applied: %q", renamed.Name)
	}
}

func TestSetRoleUnknownSession(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.SetRole("ghost", domain.RoleMobile, ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSetPreviewReplacesPrior(t *testing.T) {
	reg := NewRegistry()
	reg.Add("a")

	if _, err := reg.SetPreview("a", "frame-1"); err != nil {
		t.Fatalf("set preview: %v", err)
	}
	sess, err := reg.SetPreview("a", "frame-2")
	if err != nil {
		t.Fatalf("set preview: %v", err)
	}
	if sess.Preview != "frame-2" {
		t.Fatalf("latest frame not kept: %q", sess.Preview)
	}

	if _, err := reg.SetPreview("ghost", "frame"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestListByRoleFiltersAndOrders(t *testing.T) {
	reg := NewRegistry()
	reg.Add("phone-1")
	reg.Add("ops")
	reg.Add("phone-2")

	reg.SetRole("phone-1", domain.RoleMobile, "")
	reg.SetRole("ops", domain.RoleControlRoom, "")
	reg.SetRole("phone-2", domain.RoleMobile, "")

	mobiles := reg.ListByRole(domain.RoleMobile)
	if len(mobiles) != 2 {
		t.Fatalf("expected 2 mobiles, got %d", len(mobiles))
	}
	for _, sess := range mobiles {
		if sess.Role != domain.RoleMobile {
			t.Fatalf("non-mobile in mobile list: %#v", sess)
		}
	}
	// Earliest connection first keeps tile layouts stable.
	if mobiles[0].ID != "phone-1" || mobiles[1].ID != "phone-2" {
		t.Fatalf("unexpected order: %s, %s", mobiles[0].ID, mobiles[1].ID)
	}

	if got := reg.ListByRole(domain.RoleArenaDisplay); len(got) != 0 {
		t.Fatalf("expected no arena displays, got %d", len(got))
	}
}

func TestRemove(t *testing.T) {
	reg := NewRegistry()
	reg.Add("a")
	reg.SetRole("a", domain.RoleMobile, "")
	reg.SetPreview("a", "frame")

	sess, ok := reg.Remove("a")
	if !ok {
		t.Fatalf("expected remove to find the session")
	}
	if sess.Role != domain.RoleMobile || sess.Preview != "frame" {
		t.Fatalf("remove should return the last state: %#v", sess)
	}
	if _, ok := reg.Get("a"); ok {
		t.Fatalf("session still present after remove")
	}
	if _, ok := reg.Remove("a"); ok {
		t.Fatalf("second remove should report missing")
	}
	if reg.Count() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Count())
	}
}
