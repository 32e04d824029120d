package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config aggregates every setting the gateway reads at startup. There are no
// ambient globals; each service receives its slice of this struct.
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Speech  SpeechConfig
	Chat    ChatConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	backend, err := loadBackendConfig()
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Backend: backend,
		Speech:  speech,
		Chat:    loadChatConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// BackendConfig describes the downstream chat/location backend. Addresses is
// the ordered candidate list; the first entry is the active backend.
type BackendConfig struct {
	Addresses []string
	Timeout   int // seconds
}

// Active returns the backend base address currently in use.
func (c BackendConfig) Active() string {
	if len(c.Addresses) == 0 {
		return ""
	}
	return c.Addresses[0]
}

func loadBackendConfig() (BackendConfig, error) {
	raw := getEnvOrDefault("BACKEND_ADDRESS_LIST", "http://localhost:9090")
	var addresses []string
	for _, addr := range strings.Split(raw, ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			addresses = append(addresses, strings.TrimRight(addr, "/"))
		}
	}
	if len(addresses) == 0 {
		return BackendConfig{}, fmt.Errorf("BACKEND_ADDRESS_LIST contains no usable address: %q", raw)
	}

	timeout, err := parseOptionalIntEnv("BACKEND_TIMEOUT")
	if err != nil {
		return BackendConfig{}, err
	}
	timeoutSeconds := 30
	if timeout != nil {
		timeoutSeconds = *timeout
	}

	return BackendConfig{Addresses: addresses, Timeout: timeoutSeconds}, nil
}

// SpeechConfig describes the text-to-speech provider. Voice and language are
// static configuration, never per-call parameters.
type SpeechConfig struct {
	Region       string
	Endpoint     string
	APIKey       string
	OutputFormat string
	Voice        string
	OutputDir    string
	Timeout      int // seconds
	Enabled      bool
}

func loadSpeechConfig() (SpeechConfig, error) {
	timeout, err := parseOptionalIntEnv("SPEECH_TIMEOUT")
	if err != nil {
		return SpeechConfig{}, err
	}
	timeoutSeconds := 30
	if timeout != nil {
		timeoutSeconds = *timeout
	}

	region := getEnvOrDefault("SPEECH_REGION", "westus")
	endpoint := strings.TrimSpace(os.Getenv("SPEECH_ENDPOINT"))
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region)
	}

	apiKey := strings.TrimSpace(os.Getenv("SPEECH_API_KEY"))

	return SpeechConfig{
		Region:       region,
		Endpoint:     endpoint,
		APIKey:       apiKey,
		OutputFormat: getEnvOrDefault("SPEECH_OUTPUT_FORMAT", "audio-16khz-128kbitrate-mono-mp3"),
		Voice:        getEnvOrDefault("SPEECH_VOICE", "en-US-JennyNeural"),
		OutputDir:    getEnvOrDefault("SPEECH_OUTPUT_DIR", os.TempDir()),
		Timeout:      timeoutSeconds,
		Enabled:      apiKey != "",
	}, nil
}

// ChatConfig carries session defaults.
type ChatConfig struct {
	BotSenderLabel string
}

func loadChatConfig() ChatConfig {
	return ChatConfig{
		BotSenderLabel: getEnvOrDefault("BOT_SENDER_LABEL", "Bot"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
