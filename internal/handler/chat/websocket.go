package chat

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatservice "github.com/kevintang/slate-gateway/internal/service/chat"
	"github.com/kevintang/slate-gateway/pkg/utils"
)

// WebSocketHandler streams log appends to connected clients so they can
// render the conversation without polling the transcript.
type WebSocketHandler struct {
	registry *chatservice.Registry
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the websocket feed handler.
func NewWebSocketHandler(registry *chatservice.Registry) *WebSocketHandler {
	return &WebSocketHandler{
		registry: registry,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes registers the feed route.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/sessions/{userID}/ws", h.handleWebSocket)
}

type outgoingEvent struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userID is required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for user=%s: %v", userID, err)
		return
	}
	defer conn.Close()

	session := h.registry.GetOrCreate(userID)
	feed, cancel := session.Subscribe()
	defer cancel()

	// Snapshot first so the client starts from a complete log.
	if err := h.writeEvent(conn, "transcript", session.Transcript()); err != nil {
		return
	}

	// Drain reads so close frames are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case msg := <-feed:
			if err := h.writeEvent(conn, "message", msg); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) writeEvent(conn *websocket.Conn, eventType string, data interface{}) error {
	return conn.WriteJSON(outgoingEvent{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}
