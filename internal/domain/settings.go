package domain

// Margins is the pixel inset applied to the arena display canvas.
type Margins struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// Colors is the arena display color scheme, as CSS hex strings.
type Colors struct {
	Background string `json:"background"`
	Font       string `json:"font"`
}

// DisplaySettings is everything the arena display needs to lay itself out.
type DisplaySettings struct {
	Margins Margins `json:"margins"`
	Colors  Colors  `json:"colors"`
}

// MobileSettings is the behavior switches pushed to spectator phones.
type MobileSettings struct {
	CameraFlip     bool `json:"camera_flip"`
	DemoMode       bool `json:"demo_mode"`
	MainboardPopup bool `json:"mainboard_popup"`
}

// DefaultDisplaySettings returns the display settings active before any
// control room changes them.
func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		Margins: Margins{},
		Colors: Colors{
			Background: "#000000",
			Font:       "#ffffff",
		},
	}
}

// DefaultMobileSettings returns the mobile settings active before any
// control room changes them.
func DefaultMobileSettings() MobileSettings {
	return MobileSettings{
		CameraFlip:     false,
		DemoMode:       false,
		MainboardPopup: true,
	}
}

// MarginsPatch is a partial margins change. Nil fields stay untouched.
type MarginsPatch struct {
	Left   *int `json:"left,omitempty"`
	Right  *int `json:"right,omitempty"`
	Top    *int `json:"top,omitempty"`
	Bottom *int `json:"bottom,omitempty"`
}

// ColorsPatch is a partial color-scheme change. Nil fields stay untouched.
type ColorsPatch struct {
	Background *string `json:"background,omitempty"`
	Font       *string `json:"font,omitempty"`
}

// DisplaySettingsPatch is a partial display-settings change.
type DisplaySettingsPatch struct {
	Margins *MarginsPatch `json:"margins,omitempty"`
	Colors  *ColorsPatch  `json:"colors,omitempty"`
}

// MobileSettingsPatch is a partial mobile-settings change.
type MobileSettingsPatch struct {
	CameraFlip     *bool `json:"camera_flip,omitempty"`
	DemoMode       *bool `json:"demo_mode,omitempty"`
	MainboardPopup *bool `json:"mainboard_popup,omitempty"`
}

// Merge returns a copy of s with every non-nil field of p applied. Fields
// the patch leaves nil keep their current value.
func (s DisplaySettings) Merge(p DisplaySettingsPatch) DisplaySettings {
	if p.Margins != nil {
		if p.Margins.Left != nil {
			s.Margins.Left = *p.Margins.Left
		}
		if p.Margins.Right != nil {
			s.Margins.Right = *p.Margins.Right
		}
		if p.Margins.Top != nil {
			s.Margins.Top = *p.Margins.Top
		}
		if p.Margins.Bottom != nil {
			s.Margins.Bottom = *p.Margins.Bottom
		}
	}
	if p.Colors != nil {
		if p.Colors.Background != nil {
			s.Colors.Background = *p.Colors.Background
		}
		if p.Colors.Font != nil {
			s.Colors.Font = *p.Colors.Font
		}
	}
	return s
}

// Merge returns a copy of s with every non-nil field of p applied.
func (s MobileSettings) Merge(p MobileSettingsPatch) MobileSettings {
	if p.CameraFlip != nil {
		s.CameraFlip = *p.CameraFlip
	}
	if p.DemoMode != nil {
		s.DemoMode = *p.DemoMode
	}
	if p.MainboardPopup != nil {
		s.MainboardPopup = *p.MainboardPopup
	}
	return s
}
