package agentd

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/callbacks"

	"github.com/dohr-michael/taskchat/internal/config"
	"github.com/dohr-michael/taskchat/internal/models"
)

// NewBrain builds the brain named by server.brain: "command", "model" (the
// default provider) or "model:<provider>".
func NewBrain(ctx context.Context, cfg *config.Config, handlers ...callbacks.Handler) (Brain, error) {
	name := cfg.Server.Brain
	switch {
	case name == "" || name == "command":
		return CommandBrain{}, nil
	case name == "model" || strings.HasPrefix(name, "model:"):
		reg := models.NewRegistry(cfg.Models)
		provider := reg.DefaultName()
		if p, ok := strings.CutPrefix(name, "model:"); ok {
			provider = p
		}
		m, err := reg.Get(ctx, provider)
		if err != nil {
			return nil, fmt.Errorf("model brain: %w", err)
		}
		return NewModelBrain(provider, m, LoadInstructions(config.DataPath()), handlers...), nil
	default:
		return nil, fmt.Errorf("unknown brain %q", name)
	}
}
