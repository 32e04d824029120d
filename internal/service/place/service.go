// Package place proxies the location backend's pin feed and forwards
// place-tapped events. An accepted tap rewrites the tapping user's bot sender
// label, so subsequent replies appear to come from the tapped place.
package place

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kevintang/slate-gateway/internal/config"
	"github.com/kevintang/slate-gateway/internal/model/place"
	chatservice "github.com/kevintang/slate-gateway/internal/service/chat"
)

// Sessions is the slice of the session registry this service needs.
type Sessions interface {
	GetOrCreate(userID string) *chatservice.Session
}

// Service talks to the location backend. Safe for concurrent use.
type Service struct {
	baseURL    string
	httpClient *http.Client
	sessions   Sessions
}

// NewService builds a location feed client against the active backend.
func NewService(cfg config.BackendConfig, sessions Sessions) *Service {
	return &Service{
		baseURL: cfg.Active(),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		sessions: sessions,
	}
}

type feedResponse struct {
	Message struct {
		Latitude  float64                     `json:"latitude"`
		Longitude float64                     `json:"longitude"`
		Places    map[string]place.Coordinate `json:"places"`
	} `json:"message"`
}

// Fetch retrieves the current pin feed.
func (s *Service) Fetch(ctx context.Context) (place.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/places", nil)
	if err != nil {
		return place.Feed{}, fmt.Errorf("build places request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return place.Feed{}, fmt.Errorf("fetch places: %w", err)
	}
	defer resp.Body.Close()

	var decoded feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return place.Feed{}, fmt.Errorf("decode places response: %w", err)
	}

	return place.Feed{
		Origin: place.Coordinate{
			Latitude:  decoded.Message.Latitude,
			Longitude: decoded.Message.Longitude,
		},
		Places: decoded.Message.Places,
	}, nil
}

type tapRequest struct {
	PlaceName string `json:"place_name"`
	UserID    string `json:"user_id"`
}

// Tapped forwards a pin tap to the backend. When the backend accepts the
// tap, the user's session label is updated to the reply message.
func (s *Service) Tapped(ctx context.Context, userID, placeName string) (place.TapResult, error) {
	body, err := json.Marshal(tapRequest{PlaceName: placeName, UserID: userID})
	if err != nil {
		return place.TapResult{}, fmt.Errorf("encode place_tapped request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/place_tapped", bytes.NewReader(body))
	if err != nil {
		return place.TapResult{}, fmt.Errorf("build place_tapped request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return place.TapResult{}, fmt.Errorf("send place_tapped: %w", err)
	}
	defer resp.Body.Close()

	var result place.TapResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return place.TapResult{}, fmt.Errorf("decode place_tapped response: %w", err)
	}

	if result.Accepted() && s.sessions != nil {
		s.sessions.GetOrCreate(userID).SetSenderLabel(result.Message)
	}

	return result, nil
}
