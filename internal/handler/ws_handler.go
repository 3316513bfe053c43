package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/StewbeStew/CrowdCastr/internal/domain"
	"github.com/StewbeStew/CrowdCastr/internal/hub"
	"github.com/StewbeStew/CrowdCastr/internal/service"
	pkglog "github.com/StewbeStew/CrowdCastr/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Phones join over the venue LAN from a QR-code URL, so the
		// origin is whatever address the server was reached on.
		return true
	},
}

// WSHandler handles WebSocket connections.
type WSHandler struct {
	hub     *hub.Hub
	service service.RelayService
}

// NewWSHandler creates a new WebSocket handler.
func NewWSHandler(h *hub.Hub, svc service.RelayService) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
	}
}

// HandleWebSocket handles WebSocket upgrade and message routing.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	l := pkglog.Ctx(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	clientID := uuid.New().String()
	client := &hub.Client{
		ID:   clientID,
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	client.SetDisconnectHandler(func(c *hub.Client) {
		ctx := context.Background()
		if err := h.service.HandleDisconnect(ctx, c); err != nil {
			l.Error().Err(err).Str("client_id", c.ID).Msg("disconnect handler error")
		}
	})

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.handleMessage)

	if err := h.service.HandleConnect(context.Background(), client); err != nil {
		l.Error().Err(err).Str("client_id", clientID).Msg("connect handler error")
	}
}

// handleMessage dispatches one inbound frame. Malformed or unknown
// messages are dropped without a reply; one broken sender must never take
// the event feed down or learn protocol internals by probing.
func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	l := pkglog.L()

	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		l.Debug().Err(err).Str("client_id", client.ID).Msg("unparseable message dropped")
		return
	}

	ctx := context.Background()

	switch base.Type {
	case domain.MsgTypeRegisterControlRoom:
		if err := h.service.HandleRegisterControlRoom(ctx, client); err != nil {
			l.Error().Err(err).Str("client_id", client.ID).Msg("register control room failed")
		}

	case domain.MsgTypeRegisterArenaDisplay:
		if err := h.service.HandleRegisterArenaDisplay(ctx, client); err != nil {
			l.Error().Err(err).Str("client_id", client.ID).Msg("register arena display failed")
		}

	case domain.MsgTypeRegisterMobile:
		var msg domain.RegisterMobileMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			l.Debug().Err(err).Str("client_id", client.ID).Msg("invalid register_mobile dropped")
			return
		}
		if err := h.service.HandleRegisterMobile(ctx, client, msg.Name); err != nil {
			l.Error().Err(err).Str("client_id", client.ID).Msg("register mobile failed")
		}

	case domain.MsgTypePreviewUpdate:
		var msg domain.PreviewUpdateMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			l.Debug().Err(err).Str("client_id", client.ID).Msg("invalid preview_update dropped")
			return
		}
		if msg.Preview == "" {
			return
		}
		if err := h.service.HandlePreviewUpdate(ctx, client, msg.Preview); err != nil {
			l.Error().Err(err).Str("client_id", client.ID).Msg("preview update failed")
		}

	case domain.MsgTypeGoLive:
		var msg domain.GoLiveMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			l.Debug().Err(err).Str("client_id", client.ID).Msg("invalid go_live dropped")
			return
		}
		if err := h.service.HandleGoLive(ctx, client, msg.SessionID); err != nil {
			l.Error().Err(err).Str("client_id", client.ID).Msg("go live failed")
		}

	case domain.MsgTypeUpdateDisplaySettings:
		var msg domain.UpdateDisplaySettingsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			l.Debug().Err(err).Str("client_id", client.ID).Msg("invalid update_display_settings dropped")
			return
		}
		patch := domain.DisplaySettingsPatch{Margins: msg.Margins, Colors: msg.Colors}
		if err := h.service.HandleUpdateDisplaySettings(ctx, client, patch); err != nil {
			l.Error().Err(err).Str("client_id", client.ID).Msg("display settings update failed")
		}

	case domain.MsgTypeUpdateMobileSettings:
		var msg domain.UpdateMobileSettingsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			l.Debug().Err(err).Str("client_id", client.ID).Msg("invalid update_mobile_settings dropped")
			return
		}
		patch := domain.MobileSettingsPatch{
			CameraFlip:     msg.CameraFlip,
			DemoMode:       msg.DemoMode,
			MainboardPopup: msg.MainboardPopup,
		}
		if err := h.service.HandleUpdateMobileSettings(ctx, client, patch); err != nil {
			l.Error().Err(err).Str("client_id", client.ID).Msg("mobile settings update failed")
		}

	case domain.MsgTypeUpdateSponsors:
		var msg domain.UpdateSponsorsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			l.Debug().Err(err).Str("client_id", client.ID).Msg("invalid update_sponsors dropped")
			return
		}
		if err := h.service.HandleUpdateSponsors(ctx, client, msg.Sponsors); err != nil {
			l.Error().Err(err).Str("client_id", client.ID).Msg("sponsors update failed")
		}

	case domain.MsgTypeUploadSponsor:
		var msg domain.UploadSponsorMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			l.Debug().Err(err).Str("client_id", client.ID).Msg("invalid upload_sponsor dropped")
			return
		}
		if err := h.service.HandleUploadSponsor(ctx, client, msg.FileName, msg.FileData); err != nil {
			l.Error().Err(err).Str("client_id", client.ID).Msg("sponsor upload failed")
		}

	case domain.MsgTypePing:
		client.SendMessage(map[string]string{"type": domain.MsgTypePong})

	default:
		l.Debug().Str("client_id", client.ID).Str("type", base.Type).Msg("unknown message type dropped")
	}
}

// RegisterRoutes registers the WebSocket route.
func (h *WSHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleWebSocket)
}
