// Package backend is the HTTP client for the downstream chat backend. It owns
// the wire contract for textual turns (/api/chat) and image turns (/api/image)
// and classifies every failure so the session layer can record it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // image turns may reference PNG captures
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"time"

	"github.com/kevintang/slate-gateway/internal/config"
)

// jpegQuality is the fixed recompression factor applied to every uploaded
// image before it leaves the gateway.
const jpegQuality = 50

// Client talks to one chat backend. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the active backend address.
func NewClient(cfg config.BackendConfig) *Client {
	return &Client{
		baseURL: cfg.Active(),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// BaseURL returns the backend base address in use.
func (c *Client) BaseURL() string { return c.baseURL }

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// SendText submits a textual turn and returns the raw reply text. The reply
// must carry a top-level string "message" field; any other shape is a
// response-shape failure.
func (c *Client) SendText(ctx context.Context, userID, text string) (string, error) {
	body, err := json.Marshal(chatRequest{UserID: userID, Message: text})
	if err != nil {
		return "", newError(KindEncoding, "chat", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", newError(KindEncoding, "chat", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", newError(KindTransport, "chat", fmt.Errorf("server %s cannot be reached: %w", c.baseURL, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(KindTransport, "chat", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", newError(KindResponseShape, "chat", err)
	}

	reply, ok := payload["message"].(string)
	if !ok {
		return "", newError(KindResponseShape, "chat", fmt.Errorf("invalid server response format"))
	}

	return reply, nil
}

type imageResponse struct {
	Success bool `json:"success"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

// SendImage loads the referenced image, recompresses it to JPEG and uploads
// it as a single multipart file field. Returns the backend's reply text.
func (c *Client) SendImage(ctx context.Context, imagePath string) (string, error) {
	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return "", newError(KindEncoding, "image", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", newError(KindEncoding, "image", fmt.Errorf("unable to decode image: %w", err))
	}

	var compressed bytes.Buffer
	if err := jpeg.Encode(&compressed, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", newError(KindEncoding, "image", fmt.Errorf("unable to compress image: %w", err))
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="image.jpg"`)
	header.Set("Content-Type", "image/jpeg")

	part, err := writer.CreatePart(header)
	if err != nil {
		return "", newError(KindEncoding, "image", err)
	}
	if _, err := part.Write(compressed.Bytes()); err != nil {
		return "", newError(KindEncoding, "image", err)
	}
	if err := writer.Close(); err != nil {
		return "", newError(KindEncoding, "image", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/image", &body)
	if err != nil {
		return "", newError(KindEncoding, "image", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", newError(KindTransport, "image", fmt.Errorf("failed to upload image: %w", err))
	}
	defer resp.Body.Close()

	var decoded imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", newError(KindResponseShape, "image", err)
	}

	if !decoded.Success {
		return "", newError(KindResponseShape, "image", fmt.Errorf("server responded with success=false"))
	}

	return decoded.Message.Text, nil
}
