// Package reply defines the assistant response schema and classifies a
// response into the text, intent and task rows a message is rendered with.
package reply

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// SchemaVersion is the response schema version emitted by the bundled backend.
// Responses without a version are treated as version 1.
const SchemaVersion = 1

// Response is the assistant endpoint reply. Every field is optional.
type Response struct {
	Version       int      `json:"version,omitempty"`
	Message       string   `json:"message,omitempty"`
	Tasks         []string `json:"tasks"` // null when absent; [] is a present, empty list
	TaskAdded     Signal   `json:"task_added,omitempty"`
	TaskRemoved   Signal   `json:"task_removed,omitempty"`
	TaskCompleted Signal   `json:"task_completed,omitempty"`
	Chat          string   `json:"chat,omitempty"`
	Action        string   `json:"action,omitempty"`
	Suggestion    string   `json:"suggestion,omitempty"`
	Help          string   `json:"help,omitempty"`
	Error         string   `json:"error,omitempty"`
	ThreadID      string   `json:"thread_id,omitempty"`
}

// HasTasks reports whether the response carried a task list, even an empty one.
func (r Response) HasTasks() bool {
	return r.Tasks != nil
}

// Signal is a backend action marker whose payload varies (task text, index, bool).
// Only its truthiness matters to the client.
type Signal []byte

// SignalOf encodes v as a signal.
func SignalOf(v any) Signal {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return Signal(data)
}

// Set reports whether the signal is truthy: absent, null, false, "" and any
// spelling of zero (0, -0, 0.0, 0e5) are not.
func (s Signal) Set() bool {
	v := bytes.TrimSpace(s)
	switch string(v) {
	case "", "null", "false", `""`:
		return false
	}
	if c := v[0]; c == '-' || (c >= '0' && c <= '9') {
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return true
		}
		return f != 0
	}
	return true
}

func (s Signal) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

func (s *Signal) UnmarshalJSON(b []byte) error {
	*s = append((*s)[:0], b...)
	return nil
}
