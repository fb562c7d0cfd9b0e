package realtime

import (
	"encoding/json"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Subscription narrows which change notifications a client receives.
// Empty fields match everything.
type Subscription struct {
	Table    string `json:"table"`
	TicketID string `json:"ticket_id,omitempty"`
	AgentID  string `json:"agent_id,omitempty"`
}

// Notification is the envelope pushed to subscribed clients.
type Notification struct {
	Table    string      `json:"table"`
	Change   string      `json:"change"`
	TicketID string      `json:"ticket_id,omitempty"`
	AgentID  string      `json:"agent_id,omitempty"`
	Payload  interface{} `json:"payload,omitempty"`
}

// client wraps a WebSocket connection with a mutex for thread-safe writes.
type client struct {
	conn *ws.Conn
	mu   sync.Mutex
	sub  Subscription
}

// Hub maintains connected WebSocket clients and fans out change
// notifications filtered by each client's subscription.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  *zap.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{clients: make(map[*client]struct{}), logger: logger}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// ClientCount reports active connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a notification to every client whose subscription matches.
func (h *Hub) Broadcast(n Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("marshal notification", zap.Error(err))
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		if c.sub.Matches(n) {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		writeErr := c.conn.WriteMessage(ws.TextMessage, data)
		c.mu.Unlock()

		if writeErr != nil {
			h.logger.Debug("dropping websocket client", zap.Error(writeErr))
			h.unregister(c)
		}
	}
}

// Matches reports whether a notification passes the subscription filter.
func (s Subscription) Matches(n Notification) bool {
	if s.Table != "" && s.Table != n.Table {
		return false
	}
	if s.TicketID != "" && s.TicketID != n.TicketID {
		return false
	}
	if s.AgentID != "" && s.AgentID != n.AgentID {
		return false
	}
	return true
}

// Serve pumps a connection: reads subscription updates until the peer
// disconnects. The connection is registered with a match-all subscription
// until the client sends one.
func (h *Hub) Serve(conn *ws.Conn) {
	c := &client{conn: conn}
	h.register(c)
	defer h.unregister(c)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub Subscription
		if err := json.Unmarshal(data, &sub); err != nil {
			h.logger.Debug("ignoring malformed subscription", zap.Error(err))
			continue
		}
		h.mu.Lock()
		c.sub = sub
		h.mu.Unlock()
	}
}
