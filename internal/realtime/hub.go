package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the wire format of the realtime channel
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Sender pushes events to every connection enrolled in a room. Pushes are
// best-effort: a slow or disconnected client is dropped, never waited on.
type Sender interface {
	SendToRoom(room, event string, data interface{})
}

// JoinHandler is invoked when a connection joins a room. The push callback
// targets only that connection.
type JoinHandler func(userID string, push func(event string, data interface{}))

// Hub maintains the registry of connected clients and their room
// memberships. Rooms are keyed by user id.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client

	// OnJoin, if set, runs after a client joins its room
	OnJoin JoinHandler
}

// NewHub creates a Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes client registration. It blocks and is meant to run in its
// own goroutine for the life of the process.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Realtime client connected. Total clients: %d", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.leaveRoomLocked(client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("Realtime client disconnected. Total clients: %d", h.ClientCount())
		}
	}
}

// join enrolls a client in the room named by userID and fires OnJoin
func (h *Hub) join(client *Client, userID string) {
	h.mu.Lock()
	h.leaveRoomLocked(client)
	client.room = userID
	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[*Client]bool)
	}
	h.rooms[userID][client] = true
	h.mu.Unlock()

	log.Printf("User %s joined room: %s", userID, userID)

	if h.OnJoin != nil {
		h.OnJoin(userID, func(event string, data interface{}) {
			client.sendEvent(event, data)
		})
	}
}

// leaveRoomLocked removes a client from its current room. Callers hold h.mu.
func (h *Hub) leaveRoomLocked(client *Client) {
	if client.room == "" {
		return
	}
	if members, ok := h.rooms[client.room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, client.room)
		}
	}
	client.room = ""
}

// SendToRoom pushes an event to every connection in a room. Clients whose
// send buffers are full are skipped; delivery is never guaranteed.
func (h *Hub) SendToRoom(room, event string, data interface{}) {
	msg, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		log.Printf("Error marshaling realtime event %q: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		select {
		case client.send <- msg:
		default:
			log.Printf("Dropping %q event for a slow client in room %s", event, room)
		}
	}
}

// RoomSize reports the number of connections in a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// ClientCount reports the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP requests to websocket connections on the hub
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Realtime upgrade failed: %v", err)
			return
		}

		client := newClient(h, conn)
		h.register <- client

		go client.writePump()
		go client.readPump()
	}
}
