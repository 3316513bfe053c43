package service

import (
	"context"
	"encoding/json"

	"github.com/StewbeStew/CrowdCastr/internal/domain"
	"github.com/StewbeStew/CrowdCastr/internal/hub"
)

// RelayService routes every inbound client event to the session registry,
// the live selection and the settings store, and fans the results out.
type RelayService interface {
	// HandleConnect records a fresh session and pushes the settings
	// snapshot to it.
	HandleConnect(ctx context.Context, client *hub.Client) error

	// HandleRegisterControlRoom marks the session as an operator view and
	// sends it the current device list.
	HandleRegisterControlRoom(ctx context.Context, client *hub.Client) error

	// HandleRegisterArenaDisplay marks the session as a big-screen sink.
	HandleRegisterArenaDisplay(ctx context.Context, client *hub.Client) error

	// HandleRegisterMobile marks the session as a spectator phone and
	// announces it to control rooms.
	HandleRegisterMobile(ctx context.Context, client *hub.Client, name string) error

	// HandlePreviewUpdate stores a fresh frame and relays it.
	HandlePreviewUpdate(ctx context.Context, client *hub.Client, preview string) error

	// HandleGoLive promotes a device to the arena screen.
	HandleGoLive(ctx context.Context, client *hub.Client, sessionID string) error

	// HandleUpdateDisplaySettings applies a partial display change and
	// broadcasts the result.
	HandleUpdateDisplaySettings(ctx context.Context, client *hub.Client, patch domain.DisplaySettingsPatch) error

	// HandleUpdateMobileSettings applies a partial mobile change and
	// broadcasts the result.
	HandleUpdateMobileSettings(ctx context.Context, client *hub.Client, patch domain.MobileSettingsPatch) error

	// HandleUpdateSponsors replaces the sponsor rotation list.
	HandleUpdateSponsors(ctx context.Context, client *hub.Client, sponsors json.RawMessage) error

	// HandleUploadSponsor persists a sponsor asset and acknowledges it to
	// the uploader only.
	HandleUploadSponsor(ctx context.Context, client *hub.Client, fileName, fileData string) error

	// HandleDisconnect cleans up after a client goes away.
	HandleDisconnect(ctx context.Context, client *hub.Client) error
}

// Broadcaster is the slice of the hub the relay needs. Kept narrow so
// tests can observe fan-out without real connections.
type Broadcaster interface {
	SetRole(client *hub.Client, role domain.Role)
	BroadcastToRole(role domain.Role, message interface{}, exclude string) error
	BroadcastToRoles(roles []domain.Role, message interface{}, exclude string) error
	SendToClient(clientID string, message interface{}) error
}

// AssetSaver persists uploaded sponsor files.
type AssetSaver interface {
	Save(ctx context.Context, fileName, fileData string) (string, error)
}
