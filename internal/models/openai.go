package models

import (
	"context"
	"errors"
	"time"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/dohr-michael/taskchat/internal/config"
)

const (
	defaultMistralBaseURL = "https://api.mistral.ai/v1"
	defaultMistralModel   = "mistral-small-latest"
	defaultAzureVersion   = "2024-06-01"
)

// openAIConfig holds the settings shared by every OpenAI-compatible driver.
func openAIConfig(cfg config.ProviderConfig, key string, timeout time.Duration) *einoopenai.ChatModelConfig {
	mc := &einoopenai.ChatModelConfig{
		APIKey:  key,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: timeoutOr(cfg, timeout),
	}
	if cfg.MaxTokens > 0 {
		n := cfg.MaxTokens
		mc.MaxCompletionTokens = &n
	}
	if t, ok := floatOption(cfg, "temperature"); ok {
		mc.Temperature = &t
	}
	if p, ok := floatOption(cfg, "top_p"); ok {
		mc.TopP = &p
	}
	return mc
}

// NewOpenAI creates an OpenAI chat model.
func NewOpenAI(ctx context.Context, cfg config.ProviderConfig, key string) (model.ToolCallingChatModel, error) {
	return einoopenai.NewChatModel(ctx, openAIConfig(cfg, key, 60*time.Second))
}

// NewAzure creates an Azure OpenAI chat model. base_url is the resource
// endpoint and model the deployment name; the original backend ran on this.
func NewAzure(ctx context.Context, cfg config.ProviderConfig, key string) (model.ToolCallingChatModel, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("azure driver requires base_url")
	}
	mc := openAIConfig(cfg, key, 60*time.Second)
	mc.ByAzure = true
	mc.APIVersion = cfg.APIVersion
	if mc.APIVersion == "" {
		mc.APIVersion = defaultAzureVersion
	}
	return einoopenai.NewChatModel(ctx, mc)
}

// NewMistral creates a Mistral chat model through its OpenAI-compatible API.
func NewMistral(ctx context.Context, cfg config.ProviderConfig, key string) (model.ToolCallingChatModel, error) {
	if cfg.Model == "" {
		cfg.Model = defaultMistralModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultMistralBaseURL
	}
	return einoopenai.NewChatModel(ctx, openAIConfig(cfg, key, 5*time.Minute))
}
