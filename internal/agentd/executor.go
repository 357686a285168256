package agentd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dohr-michael/taskchat/internal/reply"
	"github.com/dohr-michael/taskchat/internal/tasks"
)

// Failure texts reported in the response's error field.
const (
	errAddFailed      = "Failed to add task."
	errRemoveFailed   = "Failed to remove task."
	errCompleteFailed = "Failed to complete task."
	errOutOfRange     = "Task index out of range."
	errFetchFailed    = "Failed to fetch tasks."
	errNoMatch        = "No task matches that description."
)

// TaskAPI is the slice of the task-store client the executor needs.
type TaskAPI interface {
	List(ctx context.Context) ([]tasks.Task, error)
	Add(ctx context.Context, text string) (tasks.Task, error)
	Remove(ctx context.Context, id int) error
	Complete(ctx context.Context, id int, completed bool) (tasks.Task, error)
}

// Executor applies decisions to the task store.
type Executor struct {
	tasks  TaskAPI
	logger *slog.Logger
}

// NewExecutor creates an executor over api.
func NewExecutor(api TaskAPI, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{tasks: api, logger: logger}
}

// Lines returns the canonical lines of the current listing, or nil when the
// store cannot be read.
func (e *Executor) Lines(ctx context.Context) []string {
	list, err := e.tasks.List(ctx)
	if err != nil {
		e.logger.Debug("task listing unavailable", "error", err)
		return nil
	}
	return tasks.Lines(list)
}

// Execute performs d and builds the response. Store failures become the
// response's error field; Execute itself never fails.
func (e *Executor) Execute(ctx context.Context, d Decision) reply.Response {
	r := reply.Response{
		Version:    reply.SchemaVersion,
		Message:    d.Message,
		Action:     d.Action,
		Chat:       d.Chat,
		Suggestion: d.Suggestion,
		Help:       d.Help,
	}

	switch d.Action {
	case ActionAdd:
		e.add(ctx, d, &r)
	case ActionRemove:
		e.remove(ctx, d, &r)
	case ActionComplete:
		e.complete(ctx, d, &r)
	case ActionShow:
		list, err := e.tasks.List(ctx)
		if err != nil {
			e.logger.Warn("list tasks failed", "error", err)
			r.Error = errFetchFailed
			break
		}
		r.Tasks = tasks.Lines(list)
	}

	// The brain words its message as if the action succeeded.
	if r.Error != "" {
		r.Message = ""
		r.Chat = ""
	}
	return r
}

func (e *Executor) add(ctx context.Context, d Decision, r *reply.Response) {
	text := strings.TrimSpace(d.Task)
	if text == "" {
		return
	}
	if _, err := e.tasks.Add(ctx, text); err != nil {
		e.logger.Warn("add task failed", "error", err)
		r.Error = errAddFailed
		return
	}
	r.TaskAdded = reply.SignalOf(text)
}

func (e *Executor) remove(ctx context.Context, d Decision, r *reply.Response) {
	t, pos, msg := e.target(ctx, d, errRemoveFailed)
	if msg != "" {
		r.Error = msg
		return
	}
	if t == nil {
		return
	}
	if err := e.tasks.Remove(ctx, t.ID); err != nil {
		e.logger.Warn("remove task failed", "id", t.ID, "error", err)
		r.Error = errRemoveFailed
		return
	}
	r.TaskRemoved = reply.SignalOf(pos)
}

func (e *Executor) complete(ctx context.Context, d Decision, r *reply.Response) {
	t, pos, msg := e.target(ctx, d, errCompleteFailed)
	if msg != "" {
		r.Error = msg
		return
	}
	if t == nil {
		return
	}
	if _, err := e.tasks.Complete(ctx, t.ID, true); err != nil {
		e.logger.Warn("complete task failed", "id", t.ID, "error", err)
		r.Error = errCompleteFailed
		return
	}
	r.TaskCompleted = reply.SignalOf(pos)
}

// target resolves the decision's task by 1-based index, or by text when no
// index is given. A nil task with no message means there was nothing to do.
func (e *Executor) target(ctx context.Context, d Decision, failure string) (*tasks.Task, int, string) {
	if d.Index < 1 && strings.TrimSpace(d.Task) == "" {
		return nil, 0, ""
	}

	list, err := e.tasks.List(ctx)
	if err != nil {
		e.logger.Warn("list tasks failed", "error", err)
		return nil, 0, failure
	}

	if d.Index >= 1 {
		if d.Index > len(list) {
			return nil, 0, errOutOfRange
		}
		return &list[d.Index-1], d.Index, ""
	}

	want := strings.TrimSpace(d.Task)
	for i := range list {
		if strings.EqualFold(list[i].Text, want) {
			return &list[i], i + 1, ""
		}
	}
	return nil, 0, errNoMatch
}
