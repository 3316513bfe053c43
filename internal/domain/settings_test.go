package domain

import "testing"

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestDefaultSettings(t *testing.T) {
	display := DefaultDisplaySettings()
	if display.Margins != (Margins{}) {
		t.Fatalf("expected zero margins, got %#v", display.Margins)
	}
	if display.Colors.Background != "#000000" || display.Colors.Font != "#ffffff" {
		t.Fatalf("unexpected default colors: %#v", display.Colors)
	}

	mobile := DefaultMobileSettings()
	if mobile.CameraFlip || mobile.DemoMode {
		t.Fatalf("camera flip and demo mode should default off: %#v", mobile)
	}
	if !mobile.MainboardPopup {
		t.Fatalf("mainboard popup should default on: %#v", mobile)
	}
}

func TestDisplayMergePartial(t *testing.T) {
	base := DefaultDisplaySettings()

	merged := base.Merge(DisplaySettingsPatch{
		Margins: &MarginsPatch{Left: intPtr(24), Top: intPtr(12)},
	})

	if merged.Margins.Left != 24 || merged.Margins.Top != 12 {
		t.Fatalf("patched margins not applied: %#v", merged.Margins)
	}
	if merged.Margins.Right != 0 || merged.Margins.Bottom != 0 {
		t.Fatalf("untouched margins changed: %#v", merged.Margins)
	}
	if merged.Colors != base.Colors {
		t.Fatalf("colors changed by a margins-only patch: %#v", merged.Colors)
	}
}

func TestDisplayMergeExplicitZero(t *testing.T) {
	base := DisplaySettings{
		Margins: Margins{Left: 50, Right: 50, Top: 50, Bottom: 50},
		Colors:  Colors{Background: "#111111", Font: "#eeeeee"},
	}

	// An explicit zero is a real change, distinct from an absent field.
	merged := base.Merge(DisplaySettingsPatch{
		Margins: &MarginsPatch{Left: intPtr(0)},
	})

	if merged.Margins.Left != 0 {
		t.Fatalf("explicit zero not applied: %#v", merged.Margins)
	}
	if merged.Margins.Right != 50 || merged.Margins.Top != 50 || merged.Margins.Bottom != 50 {
		t.Fatalf("absent fields changed: %#v", merged.Margins)
	}
}

func TestDisplayMergeColors(t *testing.T) {
	base := DefaultDisplaySettings()

	merged := base.Merge(DisplaySettingsPatch{
		Colors: &ColorsPatch{Background: strPtr("#ff0000")},
	})

	if merged.Colors.Background != "#ff0000" {
		t.Fatalf("background not applied: %#v", merged.Colors)
	}
	if merged.Colors.Font != "#ffffff" {
		t.Fatalf("font changed by a background-only patch: %#v", merged.Colors)
	}
}

func TestDisplayMergeDoesNotMutateReceiver(t *testing.T) {
	base := DefaultDisplaySettings()
	_ = base.Merge(DisplaySettingsPatch{
		Margins: &MarginsPatch{Left: intPtr(99)},
		Colors:  &ColorsPatch{Font: strPtr("#000000")},
	})

	if base.Margins.Left != 0 || base.Colors.Font != "#ffffff" {
		t.Fatalf("merge mutated its receiver: %#v", base)
	}
}

func TestMobileMerge(t *testing.T) {
	base := DefaultMobileSettings()

	merged := base.Merge(MobileSettingsPatch{CameraFlip: boolPtr(true)})
	if !merged.CameraFlip {
		t.Fatalf("camera flip not applied: %#v", merged)
	}
	if merged.DemoMode || !merged.MainboardPopup {
		t.Fatalf("absent fields changed: %#v", merged)
	}

	merged = merged.Merge(MobileSettingsPatch{MainboardPopup: boolPtr(false)})
	if merged.MainboardPopup {
		t.Fatalf("mainboard popup not switched off: %#v", merged)
	}
	if !merged.CameraFlip {
		t.Fatalf("earlier change lost: %#v", merged)
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleMobile, RoleControlRoom, RoleArenaDisplay} {
		if !role.Valid() {
			t.Fatalf("expected %q to be valid", role)
		}
	}
	if RoleUnassigned.Valid() {
		t.Fatalf("unassigned must not count as an announced role")
	}
	if Role("operator").Valid() {
		t.Fatalf("unknown role string must not be valid")
	}
}
