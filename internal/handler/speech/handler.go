package speech

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kevintang/slate-gateway/pkg/utils"
)

// Synthesizer abstracts the speech service for testing and for the disabled
// case.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Handler exposes on-demand synthesis over HTTP.
type Handler struct {
	synth Synthesizer
}

// New creates the speech handler. synth may be nil when synthesis is not
// configured; routes then answer 503.
func New(synth Synthesizer) *Handler {
	return &Handler{synth: synth}
}

// RegisterRoutes registers the speech routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/speech", func(speechRouter chi.Router) {
		speechRouter.Post("/synthesize", h.handleSynthesize)
		speechRouter.Get("/health", h.handleHealth)
	})
}

func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	if h.synth == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "speech synthesis not configured")
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	audioPath, err := h.synth.Synthesize(r.Context(), payload.Text)
	if err != nil {
		log.Printf("[speech] TTS error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "speech synthesis failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"audioPath": audioPath})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if h.synth == nil {
		status = "disabled"
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"service": "speech",
	})
}
