// Package conversation owns the message history of one chat session and
// drives the request/reply cycle against the assistant endpoint.
package conversation

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/dohr-michael/taskchat/internal/assistant"
	"github.com/dohr-michael/taskchat/internal/reply"
	"github.com/dohr-michael/taskchat/internal/session"
)

const (
	// Greeting seeds every new history.
	Greeting = `Hi! I can help you manage your tasks. Try "list", "add <task>", "remove <n>" or "done <n>", or just ask.`
	// TransportFailure replaces the reply when the assistant cannot be reached.
	TransportFailure = "Error contacting assistant backend."
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// Message is one entry of the history. Tasks is nil unless the reply carried
// a task list.
type Message struct {
	Sender Sender
	Text   string
	Intent reply.Intent
	Tasks  []string
}

// clone keeps a nil Tasks nil and an empty one empty.
func (m Message) clone() Message {
	m.Tasks = slices.Clone(m.Tasks)
	return m
}

// State is the controller's position in the request cycle.
type State int

const (
	Idle State = iota
	AwaitingReply
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingReply:
		return "awaiting_reply"
	default:
		return "unknown"
	}
}

// Assistant sends one message to the assistant endpoint.
type Assistant interface {
	Send(ctx context.Context, req assistant.Request) (reply.Response, error)
}

// Controller serialises submissions: at most one assistant call is in flight.
type Controller struct {
	assistant Assistant
	session   session.Store
	logger    *slog.Logger

	mu      sync.Mutex
	state   State
	history []Message
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates an idle controller whose history holds the greeting. The session
// store is used as is; resetting it is the caller's startup step.
func New(a Assistant, store session.Store, opts ...Option) *Controller {
	c := &Controller{
		assistant: a,
		session:   store,
		logger:    slog.Default(),
		history: []Message{{
			Sender: SenderAgent,
			Text:   Greeting,
			Intent: reply.IntentInfo,
		}},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// History returns a copy of the messages so far.
func (c *Controller) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.history))
	for i, m := range c.history {
		out[i] = m.clone()
	}
	return out
}

// Len returns the number of messages so far.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history)
}

// Turn is an accepted submission waiting for its reply.
type Turn struct {
	c       *Controller
	text    string
	thread  string
	once    sync.Once
	message Message
}

// Begin accepts text when the controller is idle and text is not blank: the
// user message is appended at once and the controller awaits the reply.
// It returns false, changing nothing, otherwise.
func (c *Controller) Begin(text string) (*Turn, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Idle {
		return nil, false
	}

	c.history = append(c.history, Message{
		Sender: SenderUser,
		Text:   text,
		Intent: reply.IntentUser,
	})
	c.state = AwaitingReply

	return &Turn{c: c, text: text, thread: c.session.Get()}, true
}

// Await performs the round trip, appends the agent message and returns the
// controller to Idle. Calling it again returns the same message.
func (t *Turn) Await(ctx context.Context) Message {
	t.once.Do(func() {
		t.message = t.c.roundTrip(ctx, t.text, t.thread)
	})
	return t.message
}

// Submit is Begin followed by Await.
func (c *Controller) Submit(ctx context.Context, text string) (Message, bool) {
	turn, ok := c.Begin(text)
	if !ok {
		return Message{}, false
	}
	return turn.Await(ctx), true
}

func (c *Controller) roundTrip(ctx context.Context, text, thread string) Message {
	resp, err := c.assistant.Send(ctx, assistant.NewRequest(text, thread))

	var msg Message
	if err != nil {
		c.logger.Warn("assistant call failed", "error", err, "thread_id", thread)
		msg = Message{Sender: SenderAgent, Text: TransportFailure, Intent: reply.IntentError}
	} else {
		cl := reply.Classify(resp)
		msg = Message{Sender: SenderAgent, Text: cl.Text, Intent: cl.Intent, Tasks: cl.Tasks}

		changed, serr := c.session.Set(resp.ThreadID)
		if serr != nil {
			c.logger.Warn("persist thread id failed", "error", serr)
		}
		if changed {
			c.logger.Debug("thread id updated", "thread_id", resp.ThreadID)
		}
	}

	c.mu.Lock()
	c.history = append(c.history, msg)
	c.state = Idle
	c.mu.Unlock()

	return msg.clone()
}
