package models

import (
	"fmt"
	"os"
	"strings"

	"github.com/dohr-michael/taskchat/internal/config"
)

// driverKeyEnv is the fallback environment variable per driver.
var driverKeyEnv = map[string]string{
	"openai":  "OPENAI_API_KEY",
	"azure":   "AZURE_OPENAI_API_KEY",
	"mistral": "MISTRAL_API_KEY",
}

// ResolveAPIKey returns the key for a provider: the configured api_key
// (a bare "${VAR}" is read from the environment), then the driver's env var.
func ResolveAPIKey(cfg config.ProviderConfig) (string, error) {
	key := strings.TrimSpace(cfg.Auth.APIKey)
	if strings.HasPrefix(key, "${") && strings.HasSuffix(key, "}") {
		key = os.Getenv(key[2 : len(key)-1])
	}
	if key != "" {
		return key, nil
	}

	env, ok := driverKeyEnv[strings.ToLower(cfg.Driver)]
	if !ok {
		return "", fmt.Errorf("driver %q has no api key source", cfg.Driver)
	}
	if v := os.Getenv(env); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%s not set", env)
}
