// Package models builds eino chat models from provider configuration.
package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/dohr-michael/taskchat/internal/config"
)

// CreateModel builds the chat model for a provider entry.
func CreateModel(ctx context.Context, cfg config.ProviderConfig) (model.ToolCallingChatModel, error) {
	driver := strings.ToLower(cfg.Driver)
	if driver == "ollama" {
		return NewOllama(ctx, cfg)
	}

	key, err := ResolveAPIKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve auth: %w", err)
	}

	switch driver {
	case "openai":
		return NewOpenAI(ctx, cfg, key)
	case "azure":
		return NewAzure(ctx, cfg, key)
	case "mistral":
		return NewMistral(ctx, cfg, key)
	default:
		return nil, fmt.Errorf("unknown driver: %s", cfg.Driver)
	}
}

func timeoutOr(cfg config.ProviderConfig, fallback time.Duration) time.Duration {
	if d := cfg.Timeout.Duration(); d > 0 {
		return d
	}
	return fallback
}

func floatOption(cfg config.ProviderConfig, name string) (float32, bool) {
	v, ok := cfg.Options[name].(float64)
	return float32(v), ok
}
