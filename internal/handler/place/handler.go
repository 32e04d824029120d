package place

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	placeservice "github.com/kevintang/slate-gateway/internal/service/place"
	"github.com/kevintang/slate-gateway/pkg/utils"
)

// Handler proxies the location backend.
type Handler struct {
	placeSvc *placeservice.Service
}

// New creates the place handler.
func New(placeSvc *placeservice.Service) *Handler {
	return &Handler{placeSvc: placeSvc}
}

// RegisterRoutes registers the location routes. Verbs mirror the upstream
// backend contract.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/places", h.handlePlaces)
	r.Post("/place_tapped", h.handlePlaceTapped)
}

func (h *Handler) handlePlaces(w http.ResponseWriter, r *http.Request) {
	feed, err := h.placeSvc.Fetch(r.Context())
	if err != nil {
		log.Printf("[place] feed error: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "location backend unavailable")
		return
	}

	utils.RespondJSON(w, http.StatusOK, feed)
}

func (h *Handler) handlePlaceTapped(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID    string `json:"userId"`
		PlaceName string `json:"placeName"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.UserID == "" || payload.PlaceName == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId and placeName are required")
		return
	}

	result, err := h.placeSvc.Tapped(r.Context(), payload.UserID, payload.PlaceName)
	if err != nil {
		log.Printf("[place] tap error: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "location backend unavailable")
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}
