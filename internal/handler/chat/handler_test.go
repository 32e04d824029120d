package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	chatmodel "github.com/kevintang/slate-gateway/internal/model/chat"
	chatservice "github.com/kevintang/slate-gateway/internal/service/chat"
)

type stubBackend struct{}

func (stubBackend) SendText(context.Context, string, string) (string, error) {
	return "stub reply", nil
}

func (stubBackend) SendImage(context.Context, string) (string, error) {
	return "stub image reply", nil
}

func setupRouter() (*chi.Mux, *chatservice.Registry) {
	registry := chatservice.NewRegistry(stubBackend{}, nil, "Bot")
	handler := New(registry)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, registry
}

func TestSendMessageQueued(t *testing.T) {
	r, registry := setupRouter()

	payload, _ := json.Marshal(map[string]string{"userId": "u-1", "text": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}

	// The user message is visible before the backend round-trip resolves.
	transcript := registry.GetOrCreate("u-1").Transcript()
	if len(transcript) < 1 {
		t.Fatal("expected user message in transcript")
	}
	if transcript[0].Sender != chatmodel.SenderUser || transcript[0].Text != "hello" {
		t.Fatalf("unexpected first message: %+v", transcript[0])
	}
}

func TestSendMessageMissingUserID(t *testing.T) {
	r, _ := setupRouter()

	payload := []byte(`{"text":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSendMessageMutuallyExclusiveBodies(t *testing.T) {
	r, _ := setupRouter()

	payload := []byte(`{"userId":"u-1","text":"hello","imagePath":"/tmp/a.jpg"}`)
	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSendMessageInvalidBody(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestTranscript(t *testing.T) {
	r, registry := setupRouter()

	registry.GetOrCreate("u-2").Send(chatmodel.Message{Text: "hi"})

	req := httptest.NewRequest(http.MethodGet, "/sessions/u-2/transcript", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var messages []chatmodel.Message
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		t.Fatalf("decode transcript: %v", err)
	}
	if len(messages) < 1 {
		t.Fatal("expected at least the user message")
	}
}

func TestTranscriptEmptySession(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/sessions/fresh/transcript", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
