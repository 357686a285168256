package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
	// This is a JSONC comment
	"endpoints": {
		"tasks": "http://tasks.local/api/Tasks",
		"assistant": "http://assistant.local/chat",
	},
	"startup": {"max_attempts": 4, "delay": "250ms", "jitter": true},
	"monitor": {"interval": "30s", "hide_after": "2s"},
	"models": {
		"default": "gpt",
		"providers": {
			"gpt": {
				"driver": "azure",
				"model": "gpt-35-turbo",
				"auth": {
					"api_key": "${{ .Env.AZURE_OPENAI_API_KEY }}"
				},
				"max_tokens": 512
			}
		}
	}
}`)

	t.Setenv("AZURE_OPENAI_API_KEY", "test-key-123")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Endpoints.Tasks != "http://tasks.local/api/Tasks" {
		t.Errorf("expected tasks endpoint, got %s", cfg.Endpoints.Tasks)
	}
	if cfg.Endpoints.Assistant != "http://assistant.local/chat" {
		t.Errorf("expected assistant endpoint, got %s", cfg.Endpoints.Assistant)
	}
	if cfg.Startup.MaxAttempts != 4 {
		t.Errorf("expected max_attempts 4, got %d", cfg.Startup.MaxAttempts)
	}
	if cfg.Startup.Delay.Duration() != 250*time.Millisecond {
		t.Errorf("expected delay 250ms, got %s", cfg.Startup.Delay.Duration())
	}
	if !cfg.Startup.Jitter {
		t.Error("expected jitter enabled")
	}
	if cfg.Monitor.Interval.Duration() != 30*time.Second {
		t.Errorf("expected interval 30s, got %s", cfg.Monitor.Interval.Duration())
	}

	p, ok := cfg.Models.Providers["gpt"]
	if !ok {
		t.Fatal("expected gpt provider")
	}
	if p.Auth.APIKey != "test-key-123" {
		t.Errorf("expected api_key test-key-123, got %s", p.Auth.APIKey)
	}
	if p.MaxTokens != 512 {
		t.Errorf("expected max_tokens 512, got %d", p.MaxTokens)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TASKCHAT_PATH", "/tmp/taskchat-test")
	path := writeConfig(t, `{}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"endpoints.tasks", cfg.Endpoints.Tasks, "http://127.0.0.1:18421/api/Tasks"},
		{"endpoints.assistant", cfg.Endpoints.Assistant, "http://127.0.0.1:18422/chat"},
		{"startup.max_attempts", cfg.Startup.MaxAttempts, 10},
		{"startup.delay", cfg.Startup.Delay.Duration(), time.Second},
		{"monitor.interval", cfg.Monitor.Interval.Duration(), 15 * time.Second},
		{"monitor.hide_after", cfg.Monitor.HideAfter.Duration(), 5 * time.Second},
		{"assistant.timeout", cfg.Assistant.Timeout.Duration(), 60 * time.Second},
		{"log.level", cfg.Log.Level, "info"},
		{"log.file", cfg.Log.File, "/tmp/taskchat-test/logs/taskchat.log"},
		{"server.db_path", cfg.Server.DBPath, "/tmp/taskchat-test/tasks.db"},
		{"server.threads_dir", cfg.Server.ThreadsDir, "/tmp/taskchat-test/threads"},
		{"server.brain", cfg.Server.Brain, "command"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadNegativeTimeoutDisables(t *testing.T) {
	path := writeConfig(t, `{"assistant": {"timeout": "-1s"}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Assistant.Timeout != 0 {
		t.Errorf("expected disabled timeout, got %s", cfg.Assistant.Timeout.Duration())
	}
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, `{"endpoints": `)

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.jsonc")); err == nil {
		t.Fatal("expected read error")
	}
}

func TestExpandEnvTemplates(t *testing.T) {
	t.Setenv("TEST_KEY", "my-secret")
	result := expandEnvTemplates(`{"key": "${{ .Env.TEST_KEY }}"}`)
	expected := `{"key": "my-secret"}`
	if result != expected {
		t.Errorf("expected %s, got %s", expected, result)
	}
}
