package live

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
)

// Event is the envelope for every message pushed to league rooms.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// Event types pushed by the server.
const (
	EventScoreReported     = "SCORE_REPORTED"
	EventResultFinalized   = "RESULT_FINALIZED"
	EventScheduleGenerated = "SCHEDULE_GENERATED"
	EventChatMessage       = "CHAT_MESSAGE"
)

// LeagueRoom builds the room identifier all league events are published to.
func LeagueRoom(leagueID int) string {
	return "league:" + strconv.Itoa(leagueID)
}

// Hub fans server events out to websocket clients grouped into rooms, one
// room per league.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	rooms  map[string]map[*Client]bool
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run owns the room membership maps. It must run in its own goroutine for
// the lifetime of the process.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.logger.Debug("websocket client joined", "room", client.Room, "clients", len(h.rooms[client.Room]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, member := clients[client]; member {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
					}
					h.logger.Debug("websocket client left", "room", client.Room)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom delivers an event to every client of one room. Clients
// whose send buffer is full are skipped rather than blocking the caller.
func (h *Hub) BroadcastToRoom(roomID string, event Event) {
	event.RoomID = roomID

	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal websocket event", "room", roomID, "type", event.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[roomID] {
		client.mu.Lock()
		if client.closed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("websocket client send buffer full, dropping event", "room", roomID, "type", event.Type)
		}
		client.mu.Unlock()
	}
}
