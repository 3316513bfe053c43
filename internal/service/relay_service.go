package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/StewbeStew/CrowdCastr/internal/audit"
	"github.com/StewbeStew/CrowdCastr/internal/domain"
	"github.com/StewbeStew/CrowdCastr/internal/hub"
	"github.com/StewbeStew/CrowdCastr/internal/registry"
	"github.com/StewbeStew/CrowdCastr/internal/settings"
	pkglog "github.com/StewbeStew/CrowdCastr/pkg/log"
)

// allRoles is every audience that cares about live selection changes.
var allRoles = []domain.Role{domain.RoleControlRoom, domain.RoleArenaDisplay, domain.RoleMobile}

type relayService struct {
	hub      Broadcaster
	registry *registry.Registry
	live     *registry.Live
	settings *settings.Store
	assets   AssetSaver

	// mu serializes event handling end to end: state mutation plus every
	// resulting enqueue happen before the next event is admitted, so no
	// client can observe a later event's effects ahead of an earlier
	// one's. Asset uploads deliberately run outside of it.
	mu sync.Mutex
}

// NewRelayService creates a new RelayService instance.
func NewRelayService(
	h Broadcaster,
	reg *registry.Registry,
	live *registry.Live,
	st *settings.Store,
	assets AssetSaver,
) RelayService {
	return &relayService{
		hub:      h,
		registry: reg,
		live:     live,
		settings: st,
		assets:   assets,
	}
}

func (s *relayService) HandleConnect(ctx context.Context, c *hub.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry.Add(c.ID)
	snap := s.settings.SnapshotAll()

	return s.hub.SendToClient(c.ID, &domain.InitialSettingsMessage{
		Type:     domain.MsgTypeInitialSettings,
		Display:  snap.Display,
		Mobile:   snap.Mobile,
		Sponsors: snap.Sponsors,
	})
}

func (s *relayService) HandleRegisterControlRoom(ctx context.Context, c *hub.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.registerRole(ctx, c, domain.RoleControlRoom, ""); err != nil {
		return nil
	}
	audit.Log(ctx, audit.ActionRegister, c.ID, "control room registered")

	return s.hub.SendToClient(c.ID, &domain.DeviceListMessage{
		Type:    domain.MsgTypeDeviceList,
		Devices: s.deviceSummaries(),
	})
}

func (s *relayService) HandleRegisterArenaDisplay(ctx context.Context, c *hub.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.registerRole(ctx, c, domain.RoleArenaDisplay, ""); err != nil {
		return nil
	}
	audit.Log(ctx, audit.ActionRegister, c.ID, "arena display registered")

	// Catch the late joiner up with the current live frame, if there is
	// one; otherwise it stays dark until the next promotion.
	if liveID, ok := s.live.Current(); ok {
		if sess, ok := s.registry.Get(liveID); ok && sess.HasPreview() {
			return s.hub.SendToClient(c.ID, &domain.ArenaUpdateMessage{
				Type:      domain.MsgTypeArenaUpdate,
				SessionID: sess.ID,
				Preview:   sess.Preview,
			})
		}
	}
	return nil
}

func (s *relayService) HandleRegisterMobile(ctx context.Context, c *hub.Client, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.registerRole(ctx, c, domain.RoleMobile, name)
	if err != nil {
		return nil
	}
	audit.LogWithDetail(ctx, audit.ActionRegister, c.ID, sess.Name, "mobile device registered")

	return s.hub.BroadcastToRole(domain.RoleControlRoom, &domain.DeviceConnectedMessage{
		Type:      domain.MsgTypeDeviceConnected,
		SessionID: sess.ID,
		Name:      sess.Name,
	}, "")
}

func (s *relayService) HandlePreviewUpdate(ctx context.Context, c *hub.Client, preview string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.registry.Get(c.ID)
	if !ok || sess.Role != domain.RoleMobile {
		l := pkglog.Ctx(ctx)
		l.Debug().Str("client_id", c.ID).Msg("preview from non-mobile session ignored")
		return nil
	}

	if _, err := s.registry.SetPreview(c.ID, preview); err != nil {
		return nil
	}

	if err := s.hub.BroadcastToRole(domain.RoleControlRoom, &domain.PreviewBroadcastMessage{
		Type:      domain.MsgTypePreviewUpdate,
		SessionID: c.ID,
		Preview:   preview,
	}, ""); err != nil {
		return err
	}

	if s.live.IsLive(c.ID) {
		return s.hub.BroadcastToRole(domain.RoleArenaDisplay, &domain.ArenaUpdateMessage{
			Type:      domain.MsgTypeArenaUpdate,
			SessionID: c.ID,
			Preview:   preview,
		}, "")
	}
	return nil
}

func (s *relayService) HandleGoLive(ctx context.Context, c *hub.Client, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roleOf(c.ID) != domain.RoleControlRoom {
		l := pkglog.Ctx(ctx)
		l.Debug().Str("client_id", c.ID).Msg("go_live from non-operator ignored")
		return nil
	}

	target, err := s.live.Promote(sessionID)
	if err != nil {
		// Stale tiles race real disconnects; a promotion that misses is
		// dropped rather than surfaced to the operator as a failure.
		switch {
		case errors.Is(err, registry.ErrSessionNotFound),
			errors.Is(err, registry.ErrNotMobile),
			errors.Is(err, registry.ErrNoPreview):
			l := pkglog.Ctx(ctx)
			l.Debug().Err(err).Str("session_id", sessionID).Msg("go_live ignored")
			return nil
		default:
			return err
		}
	}

	audit.LogWithDetail(ctx, audit.ActionGoLive, c.ID, target.ID, "device promoted to live")

	liveID := target.ID
	if err := s.hub.BroadcastToRoles(allRoles, &domain.LiveChangedMessage{
		Type:      domain.MsgTypeLiveChanged,
		SessionID: &liveID,
	}, ""); err != nil {
		return err
	}

	return s.hub.BroadcastToRole(domain.RoleArenaDisplay, &domain.ArenaUpdateMessage{
		Type:      domain.MsgTypeArenaUpdate,
		SessionID: target.ID,
		Preview:   target.Preview,
	}, "")
}

func (s *relayService) HandleUpdateDisplaySettings(ctx context.Context, c *hub.Client, patch domain.DisplaySettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roleOf(c.ID) != domain.RoleControlRoom {
		return nil
	}

	merged := s.settings.MergeDisplay(patch)
	audit.Log(ctx, audit.ActionDisplaySettings, c.ID, "display settings updated")

	return s.hub.BroadcastToRoles(
		[]domain.Role{domain.RoleArenaDisplay, domain.RoleControlRoom},
		&domain.DisplaySettingsUpdatedMessage{
			Type:    domain.MsgTypeDisplaySettingsUpdated,
			Display: merged,
		}, c.ID)
}

func (s *relayService) HandleUpdateMobileSettings(ctx context.Context, c *hub.Client, patch domain.MobileSettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roleOf(c.ID) != domain.RoleControlRoom {
		return nil
	}

	merged := s.settings.MergeMobile(patch)
	audit.Log(ctx, audit.ActionMobileSettings, c.ID, "mobile settings updated")

	return s.hub.BroadcastToRoles(
		[]domain.Role{domain.RoleMobile, domain.RoleControlRoom},
		&domain.MobileSettingsUpdatedMessage{
			Type:   domain.MsgTypeMobileSettingsUpdated,
			Mobile: merged,
		}, c.ID)
}

func (s *relayService) HandleUpdateSponsors(ctx context.Context, c *hub.Client, sponsors json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roleOf(c.ID) != domain.RoleControlRoom {
		return nil
	}

	stored := s.settings.SetSponsors(sponsors)
	audit.Log(ctx, audit.ActionSponsorsReplace, c.ID, "sponsor rotation replaced")

	return s.hub.BroadcastToRoles(
		[]domain.Role{domain.RoleArenaDisplay, domain.RoleControlRoom},
		&domain.SponsorsUpdatedMessage{
			Type:     domain.MsgTypeSponsorsUpdated,
			Sponsors: stored,
		}, c.ID)
}

func (s *relayService) HandleUploadSponsor(ctx context.Context, c *hub.Client, fileName, fileData string) error {
	if s.roleOf(c.ID) != domain.RoleControlRoom {
		return nil
	}

	// Storage I/O runs off the event path so a slow disk or bucket never
	// stalls frame relay. The ack goes to the uploader alone; the
	// rotation itself only changes when the operator follows up with
	// update_sponsors.
	go func() {
		url, err := s.assets.Save(ctx, fileName, fileData)
		if err != nil {
			l := pkglog.Ctx(ctx)
			l.Error().Err(err).Str("file_name", fileName).Msg("sponsor upload failed")
			s.hub.SendToClient(c.ID, domain.NewErrorMessage(domain.ErrCodeUploadFailed, "Failed to store sponsor asset"))
			return
		}

		audit.LogWithDetail(ctx, audit.ActionSponsorUpload, c.ID, url, "sponsor asset uploaded")
		s.hub.SendToClient(c.ID, &domain.SponsorUploadedMessage{
			Type:     domain.MsgTypeSponsorUploaded,
			FileName: fileName,
			URL:      url,
		})
	}()
	return nil
}

func (s *relayService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.registry.Remove(c.ID)
	if !ok {
		return nil
	}

	if sess.Role == domain.RoleMobile {
		s.dropDevice(ctx, sess.ID)
	}
	return nil
}

// registerRole moves a session into a role, announcing the consequences
// when it leaves the mobile pool. Callers hold s.mu.
func (s *relayService) registerRole(ctx context.Context, c *hub.Client, role domain.Role, name string) (domain.Session, error) {
	prev, _ := s.registry.Get(c.ID)

	sess, err := s.registry.SetRole(c.ID, role, name)
	if err != nil {
		l := pkglog.Ctx(ctx)
		l.Debug().Err(err).Str("client_id", c.ID).Msg("register for unknown session ignored")
		return domain.Session{}, err
	}
	s.hub.SetRole(c, role)

	if prev.Role == domain.RoleMobile && role != domain.RoleMobile {
		s.dropDevice(ctx, prev.ID)
	}
	return sess, nil
}

// dropDevice announces that a mobile device left the pool and clears the
// live selection when it was the one on screen. Callers hold s.mu.
func (s *relayService) dropDevice(ctx context.Context, sessionID string) {
	if err := s.hub.BroadcastToRole(domain.RoleControlRoom, &domain.DeviceDisconnectedMessage{
		Type:      domain.MsgTypeDeviceDisconnected,
		SessionID: sessionID,
	}, ""); err != nil {
		l := pkglog.Ctx(ctx)
		l.Error().Err(err).Msg("device_disconnected broadcast failed")
	}

	if s.live.ClearIfCurrent(sessionID) {
		audit.Log(ctx, audit.ActionLiveCleared, sessionID, "live device disconnected")

		if err := s.hub.BroadcastToRoles(allRoles, &domain.LiveChangedMessage{
			Type:      domain.MsgTypeLiveChanged,
			SessionID: nil,
		}, ""); err != nil {
			l := pkglog.Ctx(ctx)
			l.Error().Err(err).Msg("live_changed broadcast failed")
		}
	}
}

// deviceSummaries builds the control-room tile snapshot. Callers hold s.mu.
func (s *relayService) deviceSummaries() []domain.DeviceSummary {
	sessions := s.registry.ListByRole(domain.RoleMobile)
	devices := make([]domain.DeviceSummary, 0, len(sessions))
	for _, sess := range sessions {
		devices = append(devices, domain.DeviceSummary{
			SessionID: sess.ID,
			Name:      sess.Name,
			Preview:   sess.Preview,
			Live:      s.live.IsLive(sess.ID),
		})
	}
	return devices
}

func (s *relayService) roleOf(clientID string) domain.Role {
	sess, ok := s.registry.Get(clientID)
	if !ok {
		return domain.RoleUnassigned
	}
	return sess.Role
}
