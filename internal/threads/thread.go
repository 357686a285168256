// Package threads persists the assistant backend's conversation threads.
package threads

import (
	"errors"
	"time"

	"github.com/cloudwego/eino/schema"
)

// ErrNotFound is returned for unknown or malformed thread ids.
var ErrNotFound = errors.New("thread not found")

// Thread is the metadata of one conversation thread.
type Thread struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Title        string    `json:"title,omitempty"` // first user message, truncated
}

// Message is one turn, stored as a JSONL line.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	Ts      time.Time `json:"ts"`
}

// ToSchemaMessage converts to an eino message.
func (m Message) ToSchemaMessage() *schema.Message {
	return &schema.Message{Role: schema.RoleType(m.Role), Content: m.Content}
}

// UserMessage builds a user turn stamped now.
func UserMessage(content string) Message {
	return Message{Role: string(schema.User), Content: content, Ts: time.Now()}
}

// AssistantMessage builds an assistant turn stamped now.
func AssistantMessage(content string) Message {
	return Message{Role: string(schema.Assistant), Content: content, Ts: time.Now()}
}

// Store persists threads.
type Store interface {
	Create() (*Thread, error)
	Get(id string) (*Thread, error)
	List() ([]*Thread, error)
	Append(id string, msgs ...Message) error
	Messages(id string) ([]Message, error)
}
