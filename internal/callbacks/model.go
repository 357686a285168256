// Package callbacks provides eino callback handlers for model calls.
package callbacks

import (
	"context"
	"log/slog"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	ub "github.com/cloudwego/eino/utils/callbacks"
)

// Phase labels a model call event.
type Phase string

const (
	PhaseRequest  Phase = "request"
	PhaseResponse Phase = "response"
	PhaseError    Phase = "error"
)

// Observer receives one call per phase; it may be nil.
type Observer func(model string, phase Phase)

// NewModelLogHandler logs chat model calls and reports them to observe.
func NewModelLogHandler(logger *slog.Logger, observe Observer) callbacks.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if observe == nil {
		observe = func(string, Phase) {}
	}

	h := &ub.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *callbacks.RunInfo, input *model.CallbackInput) context.Context {
			logger.Debug("model request", "model", info.Name, "messages", len(input.Messages))
			observe(info.Name, PhaseRequest)
			return ctx
		},
		OnEnd: func(ctx context.Context, info *callbacks.RunInfo, output *model.CallbackOutput) context.Context {
			attrs := []any{"model", info.Name}
			if output.Message != nil {
				attrs = append(attrs, "reply", truncatePayload(output.Message.Content, 200))
				if meta := output.Message.ResponseMeta; meta != nil && meta.Usage != nil {
					attrs = append(attrs, "tokens_in", meta.Usage.PromptTokens, "tokens_out", meta.Usage.CompletionTokens)
				}
			}
			logger.Debug("model response", attrs...)
			observe(info.Name, PhaseResponse)
			return ctx
		},
		OnError: func(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
			logger.Warn("model call failed", "model", info.Name, "error", err)
			observe(info.Name, PhaseError)
			return ctx
		},
	}

	return ub.NewHandlerHelper().ChatModel(h).Handler()
}

func truncatePayload(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "... (truncated)"
}
