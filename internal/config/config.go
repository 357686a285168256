// Package config loads taskchat settings from a JSONC file, the environment and defaults.
package config

import "time"

// Config is the root configuration for taskchat.
type Config struct {
	Endpoints EndpointsConfig `json:"endpoints"`
	Startup   StartupConfig   `json:"startup"`
	Monitor   MonitorConfig   `json:"monitor"`
	Assistant AssistantConfig `json:"assistant"`
	Log       LogConfig       `json:"log"`
	Server    ServerConfig    `json:"server"`
	Models    ModelsConfig    `json:"models"`
}

// EndpointsConfig locates the two backend surfaces the client talks to.
type EndpointsConfig struct {
	Tasks     string `json:"tasks"`     // task-store listing endpoint
	Assistant string `json:"assistant"` // conversational assistant endpoint
}

// StartupConfig tunes the bootstrap task fetch.
type StartupConfig struct {
	MaxAttempts int      `json:"max_attempts"`
	Delay       Duration `json:"delay"`
	Jitter      bool     `json:"jitter"` // exponential backoff with jitter instead of a constant delay
}

// MonitorConfig tunes the pending-count poller.
type MonitorConfig struct {
	Interval  Duration `json:"interval"`
	HideAfter Duration `json:"hide_after"`
}

// AssistantConfig holds client-side settings for assistant calls.
type AssistantConfig struct {
	Timeout Duration `json:"timeout"` // zero disables the timeout
}

// LogConfig configures slog output.
type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file,omitempty"` // TUI log file (default: $TASKCHAT_PATH/logs/taskchat.log)
}

// ServerConfig configures the development backends started by `taskchat serve`.
type ServerConfig struct {
	TasksAddr     string `json:"tasks_addr"`
	AssistantAddr string `json:"assistant_addr"`
	DBPath        string `json:"db_path"`
	ThreadsDir    string `json:"threads_dir"`
	Brain         string `json:"brain"` // "command" or "model"
}

// ModelsConfig holds model provider configuration for the model brain.
type ModelsConfig struct {
	Default   string                    `json:"default"`
	Providers map[string]ProviderConfig `json:"providers"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	Driver     string         `json:"driver"` // "openai", "azure", "mistral", "ollama"
	Model      string         `json:"model"`
	BaseURL    string         `json:"base_url,omitempty"`
	APIVersion string         `json:"api_version,omitempty"` // azure only
	Auth       AuthConfig     `json:"auth"`
	MaxTokens  int            `json:"max_tokens,omitempty"`
	Timeout    Duration       `json:"timeout,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
}

// AuthConfig configures API key resolution.
type AuthConfig struct {
	APIKey string `json:"api_key,omitempty"` // Direct API key or ${{ .Env.VAR }} template
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
