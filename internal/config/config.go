package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	GenAI    GenAIConfig
	Session  SessionConfig
	Renderer RendererConfig
	Webhook  WebhookConfig
	Storage  StorageConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port          int
	BasicAuthUser string
	BasicAuthPass string
}

type GenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// SessionConfig holds the interview budget and eviction limits.
type SessionConfig struct {
	MaxMessages    int
	WarningAt      int
	FinalWarningAt int
	TimeoutMinutes int
	SweepInterval  string // duration string, e.g. "10m"
}

type RendererConfig struct {
	BaseURL string
}

type WebhookConfig struct {
	URL string
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:          3000,
			BasicAuthUser: "ccd",
			BasicAuthPass: "internaluseonly",
		},
		GenAI: GenAIConfig{
			Model:   "gemini-2.5-flash",
			BaseURL: "https://generativelanguage.googleapis.com",
		},
		Session: SessionConfig{
			MaxMessages:    100,
			WarningAt:      80,
			FinalWarningAt: 90,
			TimeoutMinutes: 90,
			SweepInterval:  "10m",
		},
		Renderer: RendererConfig{
			BaseURL: "http://127.0.0.1:8090",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional .env file in the working
// directory, then applies PROCAP_* environment variable overrides on top
// of the defaults. The Gemini API key is required; everything else has a
// usable default.
func Load() (Config, error) {
	// Missing .env is fine; env vars and defaults still apply.
	_ = godotenv.Load()

	cfg := defaults()
	applyEnvOverrides(&cfg)

	if cfg.GenAI.APIKey == "" {
		return Config{}, fmt.Errorf("missing required config: Gemini API key. Set it via environment variable PROCAP_GEMINI_API_KEY")
	}
	if cfg.Session.MaxMessages <= 0 {
		return Config{}, fmt.Errorf("invalid config: session.max_messages must be positive, got %d", cfg.Session.MaxMessages)
	}
	if cfg.Session.WarningAt > cfg.Session.FinalWarningAt || cfg.Session.FinalWarningAt > cfg.Session.MaxMessages {
		return Config{}, fmt.Errorf("invalid config: warning thresholds must satisfy warning_at <= final_warning_at <= max_messages")
	}

	return cfg, nil
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "procap")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "procap-data"
	}
	return filepath.Join(home, ".local", "share", "procap")
}
