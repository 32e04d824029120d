package chat

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kevintang/slate-gateway/internal/model/chat"
	chatservice "github.com/kevintang/slate-gateway/internal/service/chat"
	"github.com/kevintang/slate-gateway/pkg/utils"
)

// Handler exposes the session gateway over HTTP.
type Handler struct {
	registry *chatservice.Registry
}

// New creates the chat handler.
func New(registry *chatservice.Registry) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/messages", h.handleSendMessage)
	r.Get("/sessions/{userID}/transcript", h.handleTranscript)
}

// handleSendMessage accepts an outbound turn and queues it. The reply is 202:
// delivery is observed through the transcript or the websocket feed.
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID    string `json:"userId"`
		Text      string `json:"text"`
		ImagePath string `json:"imagePath"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if payload.Text != "" && payload.ImagePath != "" {
		utils.RespondError(w, http.StatusBadRequest, "text and imagePath are mutually exclusive")
		return
	}

	session := h.registry.GetOrCreate(payload.UserID)
	session.Send(chat.Message{
		Text:      payload.Text,
		ImagePath: payload.ImagePath,
	})

	utils.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// handleTranscript returns the full conversation log for a user.
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userID is required")
		return
	}

	session := h.registry.GetOrCreate(userID)
	utils.RespondJSON(w, http.StatusOK, session.Transcript())
}
