package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"eunoia/internal/model"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgConnected        MessageType = "connected"
	MsgAssessmentStored MessageType = "assessment_stored"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Connection is one live socket of a user
type Connection struct {
	UserID string
	Send   chan []byte
}

// NewConnection creates a connection with a buffered send queue
func NewConnection(userID string) *Connection {
	return &Connection{UserID: userID, Send: make(chan []byte, 32)}
}

type userMessage struct {
	userID string
	data   []byte
}

// Hub fans out assessment events to every open connection of a user.
// A user may have several connections (tabs, devices).
type Hub struct {
	conns map[string]map[*Connection]struct{} // userID -> connections
	mu    sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan userMessage
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a hub and starts its event loop
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan userMessage, 256),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.UserID] == nil {
				h.conns[conn.UserID] = make(map[*Connection]struct{})
			}
			h.conns[conn.UserID][conn] = struct{}{}
			h.mu.Unlock()
			slog.Info("[Hub] Client connected", slog.String("user_id", conn.UserID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.conns[conn.UserID]; ok {
				if _, ok := set[conn]; ok {
					delete(set, conn)
					close(conn.Send)
					if len(set) == 0 {
						delete(h.conns, conn.UserID)
					}
					slog.Info("[Hub] Client disconnected", slog.String("user_id", conn.UserID))
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns[msg.userID] {
				select {
				case conn.Send <- msg.data:
				default:
					// Slow client, drop the event
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for _, set := range h.conns {
				for conn := range set {
					close(conn.Send)
				}
			}
			h.conns = map[string]map[*Connection]struct{}{}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Connections returns the number of open connections for a user
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

// PublishAssessment sends a stored assessment to the user's connections
// (implements service.Broadcaster). It never blocks the caller.
func (h *Hub) PublishAssessment(userID string, a *model.RiskAssessment) {
	data, err := encode(MsgAssessmentStored, a.Response())
	if err != nil {
		slog.Error("[Hub] Failed to encode assessment", slog.String("error", err.Error()))
		return
	}
	select {
	case h.broadcast <- userMessage{userID: userID, data: data}:
	default:
		slog.Warn("[Hub] Broadcast queue full, dropping event", slog.String("user_id", userID))
	}
}

// Close disconnects every client and stops the event loop
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func encode(t MessageType, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{Type: t, Payload: raw})
}
