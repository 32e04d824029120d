package speech

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kevintang/slate-gateway/internal/config"
)

func testConfig(endpoint, outputDir string) config.SpeechConfig {
	return config.SpeechConfig{
		Region:       "westus",
		Endpoint:     endpoint,
		APIKey:       "test-key",
		OutputFormat: "audio-16khz-128kbitrate-mono-mp3",
		Voice:        "en-US-JennyNeural",
		OutputDir:    outputDir,
		Timeout:      5,
		Enabled:      true,
	}
}

func TestSynthesizeWritesArtifact(t *testing.T) {
	audio := []byte("fake-mp3-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Ocp-Apim-Subscription-Key"); got != "test-key" {
			t.Errorf("unexpected subscription key: %q", got)
		}
		if got := r.Header.Get("X-Microsoft-OutputFormat"); got != "audio-16khz-128kbitrate-mono-mp3" {
			t.Errorf("unexpected output format: %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/ssml+xml" {
			t.Errorf("unexpected content type: %q", got)
		}

		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "en-US-JennyNeural") {
			t.Errorf("ssml missing voice name: %s", body)
		}
		if !strings.Contains(string(body), "hello world") {
			t.Errorf("ssml missing text: %s", body)
		}

		w.Write(audio)
	}))
	defer srv.Close()

	dir := t.TempDir()
	svc := NewService(testConfig(srv.URL, dir))

	path, err := svc.Synthesize(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Synthesize err: %v", err)
	}

	if filepath.Dir(path) != dir {
		t.Fatalf("artifact outside output dir: %s", path)
	}
	if filepath.Ext(path) != ".mp3" {
		t.Fatalf("unexpected artifact extension: %s", path)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(written) != string(audio) {
		t.Fatalf("artifact content mismatch: %q", written)
	}
}

func TestSynthesizeNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := NewService(testConfig(srv.URL, t.TempDir()))

	_, err := svc.Synthesize(context.Background(), "hello")

	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) || synthErr.Kind != KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestSynthesizeUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	svc := NewService(testConfig(srv.URL, t.TempDir()))

	_, err := svc.Synthesize(context.Background(), "hello")

	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) || synthErr.Kind != KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestSynthesizeStorageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio"))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL, filepath.Join(t.TempDir(), "does", "not", "exist"))
	svc := NewService(cfg)

	_, err := svc.Synthesize(context.Background(), "hello")

	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) || synthErr.Kind != KindStorage {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	svc := NewService(testConfig("http://localhost:1", t.TempDir()))

	_, err := svc.Synthesize(context.Background(), "   ")

	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) || synthErr.Kind != KindEncoding {
		t.Fatalf("expected encoding error, got %v", err)
	}
}
