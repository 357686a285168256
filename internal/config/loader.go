package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tailscale/hujson"
)

var envTemplateRe = regexp.MustCompile(`\$\{\{\s*\.Env\.(\w+)\s*\}\}`)

// Load reads a JSONC config file, expands ${{ .Env.VAR }} templates,
// unmarshals it into Config, and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Templates live inside string literals, so expand before standardizing.
	expanded := expandEnvTemplates(string(data))

	std, err := hujson.Standardize([]byte(expanded))
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a Config populated only with defaults.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// expandEnvTemplates replaces ${{ .Env.VAR }} with the env var value.
func expandEnvTemplates(s string) string {
	return envTemplateRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := envTemplateRe.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		return os.Getenv(parts[1])
	})
}

// applyDefaults fills in zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Endpoints.Tasks == "" {
		cfg.Endpoints.Tasks = "http://127.0.0.1:18421/api/Tasks"
	}
	if cfg.Endpoints.Assistant == "" {
		cfg.Endpoints.Assistant = "http://127.0.0.1:18422/chat"
	}

	if cfg.Startup.MaxAttempts <= 0 {
		cfg.Startup.MaxAttempts = 10
	}
	if cfg.Startup.Delay <= 0 {
		cfg.Startup.Delay = Duration(time.Second)
	}

	if cfg.Monitor.Interval <= 0 {
		cfg.Monitor.Interval = Duration(15 * time.Second)
	}
	if cfg.Monitor.HideAfter <= 0 {
		cfg.Monitor.HideAfter = Duration(5 * time.Second)
	}

	// A negative timeout in the file means "no timeout".
	if cfg.Assistant.Timeout == 0 {
		cfg.Assistant.Timeout = Duration(60 * time.Second)
	} else if cfg.Assistant.Timeout < 0 {
		cfg.Assistant.Timeout = 0
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = LogPath()
	}

	if cfg.Server.TasksAddr == "" {
		cfg.Server.TasksAddr = "127.0.0.1:18421"
	}
	if cfg.Server.AssistantAddr == "" {
		cfg.Server.AssistantAddr = "127.0.0.1:18422"
	}
	if cfg.Server.DBPath == "" {
		cfg.Server.DBPath = filepath.Join(DataPath(), "tasks.db")
	}
	if cfg.Server.ThreadsDir == "" {
		cfg.Server.ThreadsDir = filepath.Join(DataPath(), "threads")
	}
	cfg.Server.Brain = strings.ToLower(cfg.Server.Brain)
	if cfg.Server.Brain == "" {
		cfg.Server.Brain = "command"
	}
	// Auth resolution is deferred to models.ResolveAuth() at model init time.
}
