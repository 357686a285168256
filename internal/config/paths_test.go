package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDataPath_Default(t *testing.T) {
	t.Setenv("TASKCHAT_PATH", "")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	got := DataPath()
	want := filepath.Join(home, ".taskchat")
	if got != want {
		t.Errorf("DataPath() = %q, want %q", got, want)
	}
}

func TestDerivedPaths(t *testing.T) {
	t.Setenv("TASKCHAT_PATH", "/tmp/test-taskchat")

	tests := []struct {
		name string
		fn   func() string
		want string
	}{
		{"DataPath", DataPath, "/tmp/test-taskchat"},
		{"ConfigPath", ConfigPath, "/tmp/test-taskchat/config.jsonc"},
		{"DotenvPath", DotenvPath, "/tmp/test-taskchat/.env"},
		{"SessionPath", SessionPath, "/tmp/test-taskchat/session.json"},
		{"LogPath", LogPath, "/tmp/test-taskchat/logs/taskchat.log"},
		{"HeartbeatPath", HeartbeatPath, "/tmp/test-taskchat/heartbeat.json"},
	}
	for _, tt := range tests {
		if got := tt.fn(); got != tt.want {
			t.Errorf("%s() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
