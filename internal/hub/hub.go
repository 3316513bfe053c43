package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/StewbeStew/CrowdCastr/internal/config"
	"github.com/StewbeStew/CrowdCastr/internal/domain"
	pkglog "github.com/StewbeStew/CrowdCastr/pkg/log"
)

// DisconnectHandler is called when a client disconnects.
type DisconnectHandler func(*Client)

// Client represents a connected WebSocket client.
type Client struct {
	ID                string
	Hub               *Hub
	Conn              *websocket.Conn
	Send              chan []byte
	role              domain.Role // guarded by Hub.mu
	disconnectHandler DisconnectHandler
}

// SetDisconnectHandler sets the handler to be called on disconnect.
func (c *Client) SetDisconnectHandler(handler DisconnectHandler) {
	c.disconnectHandler = handler
}

// Hub manages all WebSocket connections, grouped by role for scoped
// fan-out. Registration and delivery run under the hub lock so that the
// enqueue order every client observes matches the order events were
// handled in.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	roles   map[domain.Role]map[string]*Client
	config  config.WebSocketConfig
}

// NewHub creates a new Hub.
func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		roles:   make(map[domain.Role]map[string]*Client),
		config:  cfg,
	}
}

// Register adds a client to the hub. The client starts in no role group and
// receives only direct sends until SetRole is called.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()
	l := pkglog.L()
	l.Info().Str("client_id", client.ID).Msg("client registered")
}

// Unregister removes a client from the hub and all role groups, closing its
// send channel. Safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		if group, ok := h.roles[client.role]; ok {
			delete(group, client.ID)
			if len(group) == 0 {
				delete(h.roles, client.role)
			}
		}
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.mu.Unlock()
	l := pkglog.L()
	l.Info().Str("client_id", client.ID).Msg("client unregistered")
}

// SetRole moves a client into the group for the given role, leaving any
// previous group.
func (h *Hub) SetRole(client *Client, role domain.Role) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	if group, ok := h.roles[client.role]; ok {
		delete(group, client.ID)
		if len(group) == 0 {
			delete(h.roles, client.role)
		}
	}
	client.role = role
	if _, ok := h.roles[role]; !ok {
		h.roles[role] = make(map[string]*Client)
	}
	h.roles[role][client.ID] = client
}

// BroadcastToRole sends a message to every client holding the given role.
// Pass a non-empty exclude ID to skip the originator.
func (h *Hub) BroadcastToRole(role domain.Role, message interface{}, exclude string) error {
	return h.BroadcastToRoles([]domain.Role{role}, message, exclude)
}

// BroadcastToRoles sends one message to every client in any of the given
// role groups, marshaling it once. Clients whose send buffer is full are
// dropped rather than allowed to stall everyone else.
func (h *Hub) BroadcastToRoles(roles []domain.Role, message interface{}, exclude string) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, role := range roles {
		group, ok := h.roles[role]
		if !ok {
			continue
		}
		for clientID, client := range group {
			if clientID == exclude {
				continue
			}
			select {
			case client.Send <- data:
			default:
				// Client's send buffer is full
				go h.Unregister(client)
			}
		}
	}
	return nil
}

// SendToClient sends a message to a specific client. Unknown IDs are a
// no-op.
func (h *Hub) SendToClient(clientID string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[clientID]
	if !ok {
		return nil
	}
	select {
	case client.Send <- data:
	default:
		go h.Unregister(client)
	}
	return nil
}

// ReadPump pumps messages from the WebSocket connection to the handler.
func (c *Client) ReadPump(handler func(*Client, []byte)) {
	defer func() {
		// Call disconnect handler before unregistering
		if c.disconnectHandler != nil {
			c.disconnectHandler(c)
		}
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Hub.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				l := pkglog.L()
				l.Error().Err(err).Str("client_id", c.ID).Msg("websocket error")
			}
			break
		}

		handler(c, message)
	}
}

// WritePump pumps messages from the hub to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.Hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Hub.config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Hub.config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage sends a message to this client through the hub.
func (c *Client) SendMessage(message interface{}) error {
	return c.Hub.SendToClient(c.ID, message)
}
