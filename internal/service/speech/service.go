// Package speech turns bot reply text into playable audio artifacts via the
// configured text-to-speech endpoint. Playback is the caller's concern; this
// service only produces files and hands back their paths.
package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kevintang/slate-gateway/internal/config"
)

const userAgent = "slate-gateway"

// ssmlTemplate carries the static voice parameters. Only the spoken text
// varies per call.
const ssmlTemplate = `<speak version='1.0' xml:lang='en-US'>
    <voice xml:lang='en-US' xml:gender='Female' name='%s'>
        %s
    </voice>
</speak>`

// Service is the speech synthesis dispatcher. Safe for concurrent use.
type Service struct {
	cfg        config.SpeechConfig
	httpClient *http.Client
}

// NewService creates a speech dispatcher from static configuration.
func NewService(cfg config.SpeechConfig) *Service {
	return &Service{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// Synthesize requests audio for the given text and writes it to the output
// directory. Returns the artifact path. Failures come back as
// *SynthesisError and must be treated as "no audio available".
func (s *Service) Synthesize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", newError(KindEncoding, fmt.Errorf("text is empty"))
	}

	ssml := fmt.Sprintf(ssmlTemplate, s.cfg.Voice, text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, strings.NewReader(ssml))
	if err != nil {
		return "", newError(KindEncoding, err)
	}
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", s.cfg.OutputFormat)
	req.Header.Set("Ocp-Apim-Subscription-Key", s.cfg.APIKey)
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", newError(KindNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newError(KindNetwork, fmt.Errorf("endpoint returned status %d", resp.StatusCode))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(KindNetwork, err)
	}

	path := filepath.Join(s.cfg.OutputDir, uuid.NewString()+".mp3")
	if err := writeAtomic(path, audio); err != nil {
		return "", newError(KindStorage, err)
	}

	return path, nil
}

// writeAtomic stages the artifact under a temp name so readers never observe
// a partially written file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".speech-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
