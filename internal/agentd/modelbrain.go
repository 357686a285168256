package agentd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/dohr-michael/taskchat/internal/models"
)

// historyWindow bounds how many previous turns are replayed to the model.
const historyWindow = 20

// ModelBrain asks a chat model for a JSON decision.
type ModelBrain struct {
	name         string
	model        model.BaseChatModel
	instructions string
	handlers     []callbacks.Handler
}

// NewModelBrain wraps a chat model. Handlers receive the model call events.
func NewModelBrain(name string, m model.BaseChatModel, instructions string, handlers ...callbacks.Handler) *ModelBrain {
	if instructions == "" {
		instructions = DefaultInstructions
	}
	return &ModelBrain{name: name, model: m, instructions: instructions, handlers: handlers}
}

func (b *ModelBrain) Name() string { return "model:" + b.name }

func (b *ModelBrain) Decide(ctx context.Context, in Input) (Decision, error) {
	msgs := []*schema.Message{schema.SystemMessage(composePrompt(b.instructions, in))}

	history := in.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, m := range history {
		msgs = append(msgs, m.ToSchemaMessage())
	}
	msgs = append(msgs, schema.UserMessage(in.Message))

	if len(b.handlers) > 0 {
		ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
			Name:      b.name,
			Type:      "ChatModel",
			Component: components.ComponentOfChatModel,
		}, b.handlers...)
	}

	out, err := b.model.Generate(ctx, msgs)
	if err != nil {
		return Decision{}, models.HandleError(err)
	}
	return ParseDecision(out.Content)
}

// ParseDecision reads a model reply as a Decision. Code fences and text around
// the JSON object are tolerated; anything else is ErrInvalidReply.
func ParseDecision(content string) (Decision, error) {
	s := strings.TrimSpace(content)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return Decision{}, fmt.Errorf("%w: no JSON object", ErrInvalidReply)
	}

	var raw struct {
		Decision
		Index json.RawMessage `json:"index,omitempty"`
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), &raw); err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}

	d := raw.Decision
	if len(raw.Index) > 0 && string(raw.Index) != "null" {
		n, ok := index(strings.Trim(string(raw.Index), `"`))
		if !ok {
			return Decision{}, fmt.Errorf("%w: bad index %s", ErrInvalidReply, raw.Index)
		}
		d.Index = n
	}
	d.Action = strings.ToLower(strings.TrimSpace(d.Action))
	return d, nil
}
