// Package tasks models the externally owned task list: the wire shape of the
// task-store endpoint, the canonical display line and an HTTP client.
package tasks

import "fmt"

// Task is a task as served by the task-store endpoint.
type Task struct {
	ID        int    `json:"Id"`
	Text      string `json:"TaskText"`
	Completed bool   `json:"Completed"`
	UserID    string `json:"UserId,omitempty"`
}

// Status returns the display status of the task.
func (t Task) Status() Status {
	if t.Completed {
		return StatusDone
	}
	return StatusPending
}

// Line renders the canonical line "#<id>: <text> [Done|Pending]".
func (t Task) Line() string {
	return fmt.Sprintf("#%d: %s [%s]", t.ID, t.Text, t.Status())
}

// Lines renders every task as a canonical line, preserving order.
func Lines(list []Task) []string {
	lines := make([]string, len(list))
	for i, t := range list {
		lines[i] = t.Line()
	}
	return lines
}

// PendingCount counts tasks whose completed flag is false.
func PendingCount(list []Task) int {
	n := 0
	for _, t := range list {
		if !t.Completed {
			n++
		}
	}
	return n
}
