package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for respondent sessions and the hosts
// watching a catalog
type Hub struct {
	sessionConns map[string]*Connection              // sessionID -> conn
	hostConns    map[string]map[*Connection]struct{} // catalogID -> conns

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	closeOnce  sync.Once
}

// Connection represents a WebSocket connection. Host connections carry the
// catalog id; respondent connections carry the session id.
type Connection struct {
	SessionID string
	CatalogID string
	IsHost    bool
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SessionID string
	CatalogID string
	ToHost    bool
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		sessionConns: make(map[string]*Connection),
		hostConns:    make(map[string]map[*Connection]struct{}),
		register:     make(chan *Connection),
		unregister:   make(chan *Connection),
		broadcast:    make(chan *BroadcastMessage, 256),
		done:         make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			return

		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsHost {
				if h.hostConns[conn.CatalogID] == nil {
					h.hostConns[conn.CatalogID] = make(map[*Connection]struct{})
				}
				h.hostConns[conn.CatalogID][conn] = struct{}{}
				log.Printf("[WS] Host connected to catalog %s", conn.CatalogID)
			} else {
				// A newer tab replaces the old one.
				if old, ok := h.sessionConns[conn.SessionID]; ok {
					close(old.Send)
				}
				h.sessionConns[conn.SessionID] = conn
				log.Printf("[WS] Respondent connected to session %s", conn.SessionID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsHost {
				if conns, ok := h.hostConns[conn.CatalogID]; ok {
					if _, ok := conns[conn]; ok {
						delete(conns, conn)
						close(conn.Send)
						if len(conns) == 0 {
							delete(h.hostConns, conn.CatalogID)
						}
						log.Printf("[WS] Host disconnected from catalog %s", conn.CatalogID)
					}
				}
			} else {
				if existing, ok := h.sessionConns[conn.SessionID]; ok && existing == conn {
					delete(h.sessionConns, conn.SessionID)
					close(conn.Send)
					log.Printf("[WS] Respondent disconnected from session %s", conn.SessionID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.mu.RUnlock()
				log.Printf("[WS] Failed to encode %s: %v", msg.Message.Type, err)
				continue
			}

			if msg.ToHost {
				for conn := range h.hostConns[msg.CatalogID] {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			} else if conn, ok := h.sessionConns[msg.SessionID]; ok {
				select {
				case conn.Send <- data:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Close stops the hub loop; later broadcasts are dropped
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// BroadcastToSession sends a message to a respondent (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	h.send(&BroadcastMessage{SessionID: sessionID}, msgType, payload)
}

// BroadcastToHost sends a message to every host watching a catalog (implements service.Broadcaster)
func (h *Hub) BroadcastToHost(catalogID string, msgType string, payload interface{}) {
	h.send(&BroadcastMessage{CatalogID: catalogID, ToHost: true}, msgType, payload)
}

func (h *Hub) send(msg *BroadcastMessage, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WS] Failed to encode %s payload: %v", msgType, err)
		return
	}
	msg.Message = &Message{
		Type:    MessageType(msgType),
		Payload: data,
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}
