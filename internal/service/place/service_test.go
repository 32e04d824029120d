package place_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kevintang/slate-gateway/internal/config"
	chatservice "github.com/kevintang/slate-gateway/internal/service/chat"
	placeservice "github.com/kevintang/slate-gateway/internal/service/place"
)

type stubBackend struct{}

func (stubBackend) SendText(context.Context, string, string) (string, error) { return "", nil }
func (stubBackend) SendImage(context.Context, string) (string, error)        { return "", nil }

func newFixture(upstream string) (*placeservice.Service, *chatservice.Registry) {
	cfg := config.BackendConfig{Addresses: []string{upstream}, Timeout: 5}
	registry := chatservice.NewRegistry(stubBackend{}, nil, "Bot")
	return placeservice.NewService(cfg, registry), registry
}

func TestFetchDecodesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/places" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{
				"latitude":  37.329219,
				"longitude": -121.88888,
				"places": map[string]any{
					"Tower": map[string]float64{"latitude": 37.33, "longitude": -121.89},
				},
			},
		})
	}))
	defer srv.Close()

	svc, _ := newFixture(srv.URL)

	feed, err := svc.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch err: %v", err)
	}

	if feed.Origin.Latitude != 37.329219 {
		t.Fatalf("unexpected origin latitude: %v", feed.Origin.Latitude)
	}
	pin, ok := feed.Places["Tower"]
	if !ok {
		t.Fatal("expected Tower pin in feed")
	}
	if pin.Longitude != -121.89 {
		t.Fatalf("unexpected pin longitude: %v", pin.Longitude)
	}
}

func TestTappedSuccessUpdatesSenderLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/place_tapped" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload["place_name"] != "Tower" || payload["user_id"] != "u-1" {
			t.Errorf("unexpected payload: %v", payload)
		}

		json.NewEncoder(w).Encode(map[string]string{"message": "Tower Keeper", "status": "success"})
	}))
	defer srv.Close()

	svc, registry := newFixture(srv.URL)

	result, err := svc.Tapped(context.Background(), "u-1", "Tower")
	if err != nil {
		t.Fatalf("Tapped err: %v", err)
	}
	if !result.Accepted() {
		t.Fatal("expected accepted tap")
	}

	if got := registry.GetOrCreate("u-1").SenderLabel(); got != "Tower Keeper" {
		t.Fatalf("sender label not updated, got %q", got)
	}
}

func TestTappedFailureLeavesLabelAlone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "no such place", "status": "error"})
	}))
	defer srv.Close()

	svc, registry := newFixture(srv.URL)

	result, err := svc.Tapped(context.Background(), "u-1", "Nowhere")
	if err != nil {
		t.Fatalf("Tapped err: %v", err)
	}
	if result.Accepted() {
		t.Fatal("expected rejected tap")
	}

	if got := registry.GetOrCreate("u-1").SenderLabel(); got != "Bot" {
		t.Fatalf("sender label should be unchanged, got %q", got)
	}
}

func TestFetchUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	svc, _ := newFixture(srv.URL)

	if _, err := svc.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for unreachable backend")
	}
}
