package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key   string
	typ   keyType
	env   string
	apply func(cfg *Config, v any)
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "PROCAP_SERVER_PORT",
		apply: func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
	},
	{
		key: "server.basic_auth_user", typ: kString, env: "PROCAP_BASIC_AUTH_USER",
		apply: func(cfg *Config, v any) { cfg.Server.BasicAuthUser = v.(string) },
	},
	{
		key: "server.basic_auth_pass", typ: kString, env: "PROCAP_BASIC_AUTH_PASS",
		apply: func(cfg *Config, v any) { cfg.Server.BasicAuthPass = v.(string) },
	},
	{
		key: "genai.api_key", typ: kString, env: "PROCAP_GEMINI_API_KEY",
		apply: func(cfg *Config, v any) { cfg.GenAI.APIKey = v.(string) },
	},
	{
		key: "genai.model", typ: kString, env: "PROCAP_GEMINI_MODEL",
		apply: func(cfg *Config, v any) { cfg.GenAI.Model = v.(string) },
	},
	{
		key: "genai.base_url", typ: kString, env: "PROCAP_GEMINI_BASE_URL",
		apply: func(cfg *Config, v any) { cfg.GenAI.BaseURL = v.(string) },
	},
	{
		key: "session.max_messages", typ: kInt, env: "PROCAP_SESSION_MAX_MESSAGES",
		apply: func(cfg *Config, v any) { cfg.Session.MaxMessages = v.(int) },
	},
	{
		key: "session.warning_at", typ: kInt, env: "PROCAP_SESSION_WARNING_AT",
		apply: func(cfg *Config, v any) { cfg.Session.WarningAt = v.(int) },
	},
	{
		key: "session.final_warning_at", typ: kInt, env: "PROCAP_SESSION_FINAL_WARNING_AT",
		apply: func(cfg *Config, v any) { cfg.Session.FinalWarningAt = v.(int) },
	},
	{
		key: "session.timeout_minutes", typ: kInt, env: "PROCAP_SESSION_TIMEOUT_MINUTES",
		apply: func(cfg *Config, v any) { cfg.Session.TimeoutMinutes = v.(int) },
	},
	{
		key: "session.sweep_interval", typ: kString, env: "PROCAP_SESSION_SWEEP_INTERVAL",
		apply: func(cfg *Config, v any) { cfg.Session.SweepInterval = v.(string) },
	},
	{
		key: "renderer.base_url", typ: kString, env: "PROCAP_RENDERER_BASE_URL",
		apply: func(cfg *Config, v any) { cfg.Renderer.BaseURL = v.(string) },
	},
	{
		key: "webhook.url", typ: kString, env: "PROCAP_WEBHOOK_URL",
		apply: func(cfg *Config, v any) { cfg.Webhook.URL = v.(string) },
	},
	{
		key: "storage.data_dir", typ: kString, env: "PROCAP_STORAGE_DATA_DIR",
		apply: func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
	},
	{
		key: "log.level", typ: kString, env: "PROCAP_LOG_LEVEL",
		apply: func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
	},
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
