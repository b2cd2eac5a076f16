// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration for the bridge service.
type Config struct {
	// ListenAddr is the HTTP listen address (default ":8080").
	ListenAddr string `json:"listen_addr"`

	// OpenAIKey gates the high-fidelity transcription path. Its absence is
	// a supported degraded mode, not an error.
	OpenAIKey string `json:"-"`
	// WhisperModel is the transcription model name (default "whisper-1").
	WhisperModel string `json:"whisper_model"`

	// YouTubeAPIKey enables Data API caption-track discovery when set.
	YouTubeAPIKey string `json:"-"`

	// ExtractorEnabled toggles the primary media-extraction capability.
	// Disabling it forces the lightweight-lookup and caption tiers.
	ExtractorEnabled bool `json:"extractor_enabled"`

	// RequestTimeout bounds one request's provider pipeline.
	RequestTimeout time.Duration `json:"request_timeout"`

	// MaxTranscribeDuration is the ceiling above which transcription is
	// rejected before any download is attempted.
	MaxTranscribeDuration time.Duration `json:"max_transcribe_duration"`

	// FallbackToolURL is the third-party downloader the streaming path
	// redirects to when extraction fails. The original link is appended as
	// the "u" query parameter.
	FallbackToolURL string `json:"fallback_tool_url"`

	// TempDir holds per-request audio files. Defaults to os.TempDir().
	TempDir string `json:"temp_dir"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:            ":8080",
		WhisperModel:          "whisper-1",
		ExtractorEnabled:      true,
		RequestTimeout:        2 * time.Minute,
		MaxTranscribeDuration: 1800 * time.Second,
		FallbackToolURL:       "https://cobalt.tools/",
		TempDir:               os.TempDir(),
	}
}

// Load loads configuration from a .env file (if present), the optional
// ytbridge.json config file, and environment variables, then validates.
// Priority: env vars > config file > defaults.
func Load() (*Config, error) {
	// .env only seeds the process environment; explicit env wins.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile attempts ytbridge.json in the current directory or the user
// config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytbridge.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytbridge", "ytbridge.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}
	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTBRIDGE_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIKey = v
	}
	if v := os.Getenv("YTBRIDGE_WHISPER_MODEL"); v != "" {
		c.WhisperModel = v
	}
	if v := os.Getenv("YTBRIDGE_YOUTUBE_API_KEY"); v != "" {
		c.YouTubeAPIKey = v
	}
	if v := os.Getenv("YTBRIDGE_EXTRACTOR_ENABLED"); v != "" {
		c.ExtractorEnabled = v == "true" || v == "1"
	}
	if v := os.Getenv("YTBRIDGE_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
	if v := os.Getenv("YTBRIDGE_MAX_TRANSCRIBE_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTranscribeDuration = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("YTBRIDGE_FALLBACK_TOOL_URL"); v != "" {
		c.FallbackToolURL = v
	}
	if v := os.Getenv("YTBRIDGE_TEMP_DIR"); v != "" {
		c.TempDir = v
	}
}

// Validate checks that configuration values are valid and consistent.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.MaxTranscribeDuration <= 0 {
		return fmt.Errorf("max_transcribe_duration must be positive")
	}
	if c.FallbackToolURL == "" {
		return fmt.Errorf("fallback_tool_url must not be empty")
	}
	if c.TempDir == "" {
		return fmt.Errorf("temp_dir must not be empty")
	}
	return nil
}
