// Package agentd is the development assistant backend: it turns a chat
// message into a task decision, executes it against the task store and
// answers with the assistant response schema.
package agentd

import (
	"context"
	"errors"

	"github.com/dohr-michael/taskchat/internal/threads"
)

// Actions a decision can carry.
const (
	ActionAdd      = "add"
	ActionRemove   = "remove"
	ActionComplete = "complete"
	ActionShow     = "show"
)

// ErrInvalidReply is returned by a brain whose reply cannot be read as a Decision.
var ErrInvalidReply = errors.New("invalid response from assistant")

// Decision is what a brain wants done. Index is 1-based over the current listing.
type Decision struct {
	Action     string `json:"action,omitempty"`
	Task       string `json:"task,omitempty"`
	Index      int    `json:"index,omitempty"`
	Message    string `json:"message,omitempty"`
	Chat       string `json:"chat,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Help       string `json:"help,omitempty"`
}

// Input is everything a brain sees for one turn.
type Input struct {
	Message string
	Thread  *threads.Thread
	History []threads.Message
	Tasks   []string // canonical lines of the current listing; nil if unavailable
}

// Brain decides what to do with a message.
type Brain interface {
	Name() string
	Decide(ctx context.Context, in Input) (Decision, error)
}
