package handlers

import (
	"log/slog"
	"net/http"

	"github.com/courtline/league-system/live"
	"github.com/courtline/league-system/middleware"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the frontend domain is fixed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeLeague subscribes the caller to the live event stream of one league:
// score reports, finalized results, schedule generation and chat.
func (h *WebSocketHandler) ServeLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.Warn("websocket upgrade failed", "league_id", leagueID, "error", err)
		return
	}

	client := live.NewClient(h.hub, conn, live.LeagueRoom(leagueID), currentUserID, h.logger)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
