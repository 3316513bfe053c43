package settings

import (
	"encoding/json"
	"testing"

	"github.com/StewbeStew/CrowdCastr/internal/domain"
)

func TestNewStoreServesDefaults(t *testing.T) {
	store := NewStore()

	snap := store.SnapshotAll()
	if snap.Display != domain.DefaultDisplaySettings() {
		t.Fatalf("display defaults wrong: %#v", snap.Display)
	}
	if snap.Mobile != domain.DefaultMobileSettings() {
		t.Fatalf("mobile defaults wrong: %#v", snap.Mobile)
	}
	if string(snap.Sponsors) != "[]" {
		t.Fatalf("sponsors should start empty, got %s", snap.Sponsors)
	}
}

func TestMergeDisplayAccumulates(t *testing.T) {
	store := NewStore()

	left := 10
	store.MergeDisplay(domain.DisplaySettingsPatch{
		Margins: &domain.MarginsPatch{Left: &left},
	})

	bg := "#222222"
	merged := store.MergeDisplay(domain.DisplaySettingsPatch{
		Colors: &domain.ColorsPatch{Background: &bg},
	})

	if merged.Margins.Left != 10 {
		t.Fatalf("earlier patch lost: %#v", merged.Margins)
	}
	if merged.Colors.Background != "#222222" || merged.Colors.Font != "#ffffff" {
		t.Fatalf("color merge wrong: %#v", merged.Colors)
	}
	if got := store.Display(); got != merged {
		t.Fatalf("store state diverges from merge result: %#v vs %#v", got, merged)
	}
}

func TestMergeMobile(t *testing.T) {
	store := NewStore()

	flip := true
	merged := store.MergeMobile(domain.MobileSettingsPatch{CameraFlip: &flip})
	if !merged.CameraFlip || merged.DemoMode || !merged.MainboardPopup {
		t.Fatalf("unexpected mobile settings: %#v", merged)
	}
	if got := store.Mobile(); got != merged {
		t.Fatalf("store state diverges: %#v", got)
	}
}

func TestSetSponsors(t *testing.T) {
	store := NewStore()

	list := json.RawMessage(`[{"name":"Acme","url":"/sponsors/acme.png"}]`)
	stored := store.SetSponsors(list)
	if string(stored) != string(list) {
		t.Fatalf("stored list differs: %s", stored)
	}

	// The store must keep its own copy.
	list[2] = 'X'
	if string(store.Sponsors()) != `[{"name":"Acme","url":"/sponsors/acme.png"}]` {
		t.Fatalf("store aliased the caller's buffer: %s", store.Sponsors())
	}

	if got := store.SetSponsors(nil); string(got) != "[]" {
		t.Fatalf("nil should reset to the empty list, got %s", got)
	}
}

func TestSponsorsReturnsCopy(t *testing.T) {
	store := NewStore()
	store.SetSponsors(json.RawMessage(`["a"]`))

	out := store.Sponsors()
	out[1] = 'X'

	if string(store.Sponsors()) != `["a"]` {
		t.Fatalf("caller mutated store state: %s", store.Sponsors())
	}
}
