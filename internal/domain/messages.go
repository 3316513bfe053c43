package domain

import "encoding/json"

// WebSocket message types from client.
const (
	MsgTypeRegisterControlRoom   = "register_control_room"
	MsgTypeRegisterArenaDisplay  = "register_arena_display"
	MsgTypeRegisterMobile        = "register_mobile"
	MsgTypePreviewUpdate         = "preview_update"
	MsgTypeGoLive                = "go_live"
	MsgTypeUpdateDisplaySettings = "update_display_settings"
	MsgTypeUpdateMobileSettings  = "update_mobile_settings"
	MsgTypeUpdateSponsors        = "update_sponsors"
	MsgTypeUploadSponsor         = "upload_sponsor"
	MsgTypePing                  = "ping"
)

// WebSocket message types to client. MsgTypePreviewUpdate is reused on the
// way out, with the originating session attached.
const (
	MsgTypeInitialSettings        = "initial_settings"
	MsgTypeDeviceList             = "device_list"
	MsgTypeDeviceConnected        = "device_connected"
	MsgTypeDeviceDisconnected     = "device_disconnected"
	MsgTypeArenaUpdate            = "arena_update"
	MsgTypeLiveChanged            = "live_changed"
	MsgTypeDisplaySettingsUpdated = "display_settings_updated"
	MsgTypeMobileSettingsUpdated  = "mobile_settings_updated"
	MsgTypeSponsorsUpdated        = "sponsors_updated"
	MsgTypeSponsorUploaded        = "sponsor_uploaded"
	MsgTypeError                  = "error"
	MsgTypePong                   = "pong"
)

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

// RegisterMobileMessage announces a session as a spectator phone. The name
// is optional; the server assigns one when it is empty.
type RegisterMobileMessage struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// PreviewUpdateMessage carries a fresh camera frame from a mobile session.
// The payload is opaque to the server.
type PreviewUpdateMessage struct {
	Type    string `json:"type"`
	Preview string `json:"preview"`
}

// GoLiveMessage is sent by the control room to promote a device.
type GoLiveMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

// UpdateDisplaySettingsMessage carries a partial display-settings change
// from the control room. Absent fields stay untouched.
type UpdateDisplaySettingsMessage struct {
	Type    string        `json:"type"`
	Margins *MarginsPatch `json:"margins,omitempty"`
	Colors  *ColorsPatch  `json:"colors,omitempty"`
}

// UpdateMobileSettingsMessage carries a partial mobile-settings change from
// the control room.
type UpdateMobileSettingsMessage struct {
	Type           string `json:"type"`
	CameraFlip     *bool  `json:"camera_flip,omitempty"`
	DemoMode       *bool  `json:"demo_mode,omitempty"`
	MainboardPopup *bool  `json:"mainboard_popup,omitempty"`
}

// UpdateSponsorsMessage replaces the sponsor rotation list. The list is
// opaque to the server and relayed as-is.
type UpdateSponsorsMessage struct {
	Type     string          `json:"type"`
	Sponsors json.RawMessage `json:"sponsors"`
}

// UploadSponsorMessage carries a sponsor asset as base64 file data, with or
// without a data-URI prefix.
type UploadSponsorMessage struct {
	Type     string `json:"type"`
	FileName string `json:"file_name"`
	FileData string `json:"file_data"`
}

// Server -> Client messages

// InitialSettingsMessage is pushed to every session right after connect.
type InitialSettingsMessage struct {
	Type     string          `json:"type"`
	Display  DisplaySettings `json:"display"`
	Mobile   MobileSettings  `json:"mobile"`
	Sponsors json.RawMessage `json:"sponsors"`
}

// DeviceSummary is one control-room tile.
type DeviceSummary struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Preview   string `json:"preview,omitempty"`
	Live      bool   `json:"live"`
}

// DeviceListMessage is the full tile snapshot sent to a control room when
// it registers.
type DeviceListMessage struct {
	Type    string          `json:"type"`
	Devices []DeviceSummary `json:"devices"`
}

// DeviceConnectedMessage tells control rooms a new phone joined.
type DeviceConnectedMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

// DeviceDisconnectedMessage tells control rooms a phone left.
type DeviceDisconnectedMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

// PreviewBroadcastMessage is the outbound form of a preview frame, tagged
// with the session that produced it.
type PreviewBroadcastMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Preview   string `json:"preview"`
}

// ArenaUpdateMessage carries the frame the big screen should render.
type ArenaUpdateMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Preview   string `json:"preview"`
}

// LiveChangedMessage announces the new live selection. SessionID is null
// when no device is live.
type LiveChangedMessage struct {
	Type      string  `json:"type"`
	SessionID *string `json:"session_id"`
}

// DisplaySettingsUpdatedMessage carries the full display settings after a
// change was applied.
type DisplaySettingsUpdatedMessage struct {
	Type    string          `json:"type"`
	Display DisplaySettings `json:"display"`
}

// MobileSettingsUpdatedMessage carries the full mobile settings after a
// change was applied.
type MobileSettingsUpdatedMessage struct {
	Type   string         `json:"type"`
	Mobile MobileSettings `json:"mobile"`
}

// SponsorsUpdatedMessage carries the replaced sponsor rotation list.
type SponsorsUpdatedMessage struct {
	Type     string          `json:"type"`
	Sponsors json.RawMessage `json:"sponsors"`
}

// SponsorUploadedMessage acknowledges a sponsor upload to its sender only.
type SponsorUploadedMessage struct {
	Type     string `json:"type"`
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

// ErrorMessage is sent when an operation the client must know about fails.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeUploadFailed  = "UPLOAD_FAILED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// NewErrorMessage creates a new error message.
func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    MsgTypeError,
		Code:    code,
		Message: message,
	}
}
