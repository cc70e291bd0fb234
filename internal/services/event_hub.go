package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event types pushed to subscribed corp dashboards
const (
	EventReportFiled         = "report_filed"
	EventReportRescued       = "report_rescued"
	EventAdoptionRequested   = "adoption_requested"
	EventRequestStatusChange = "request_status_changed"
)

// Event is a message fanned out over WebSocket
type Event struct {
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Publisher is the event surface services see; the hub implements it
type Publisher interface {
	Publish(event Event)
}

// EventHub manages dashboard WebSocket connections
type EventHub struct {
	mu          sync.RWMutex
	connections map[string]*dashboardConn
}

// dashboardConn serializes writes to one subscriber; gorilla connections
// do not allow concurrent writers
type dashboardConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *dashboardConn) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// NewEventHub creates a new event hub
func NewEventHub() *EventHub {
	return &EventHub{
		connections: make(map[string]*dashboardConn),
	}
}

// Register registers a connection for a user, replacing any previous one
func (h *EventHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.conn.Close()
	}
	h.connections[userID] = &dashboardConn{conn: conn}

	log.Info().Str("user_id", userID).Msg("Dashboard connection registered")
}

// Unregister drops the user's registration if it still refers to conn.
// The read goroutine of a connection replaced by Register arrives here
// late and must not tear down the replacement.
func (h *EventHub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	if current, ok := h.connections[userID]; ok && current.conn == conn {
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("Dashboard connection unregistered")
	}
	h.mu.Unlock()

	conn.Close()
}

// Publish broadcasts an event to every subscriber. Delivery is best
// effort: a connection that fails to accept the write is dropped. Writes
// happen outside the hub lock so one slow subscriber cannot stall
// publishers.
func (h *EventHub) Publish(event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("Failed to marshal event")
		return
	}

	h.mu.RLock()
	subscribers := make(map[string]*dashboardConn, len(h.connections))
	for userID, c := range h.connections {
		subscribers[userID] = c
	}
	h.mu.RUnlock()

	for userID, c := range subscribers {
		if err := c.write(data); err != nil {
			h.drop(userID, c)
			log.Warn().Err(err).Str("user_id", userID).Msg("Dropped dashboard connection")
		}
	}
}

// drop removes a failed subscriber unless it was already replaced
func (h *EventHub) drop(userID string, c *dashboardConn) {
	h.mu.Lock()
	if current, ok := h.connections[userID]; ok && current == c {
		delete(h.connections, userID)
	}
	h.mu.Unlock()

	c.conn.Close()
}
