package agentd

import (
	"context"
	"errors"
	"testing"

	"github.com/dohr-michael/taskchat/internal/reply"
	"github.com/dohr-michael/taskchat/internal/tasks"
)

func TestExecutorAgainstStore(t *testing.T) {
	tc := taskBackend(t)
	ex := NewExecutor(tc, nil)
	ctx := context.Background()

	r := ex.Execute(ctx, Decision{Action: ActionAdd, Task: " walk the dog ", Message: "Added 🐶", Chat: "woof"})
	if string(r.TaskAdded) != `"walk the dog"` || r.Action != ActionAdd || r.Chat != "woof" {
		t.Fatalf("add = %+v", r)
	}
	if got := reply.Classify(r); got.Text != "Added 🐶" {
		t.Errorf("chat echo not suppressed: %q", got.Text)
	}

	ex.Execute(ctx, Decision{Action: ActionAdd, Task: "Buy milk"})

	r = ex.Execute(ctx, Decision{Action: ActionComplete, Task: "buy MILK"})
	if string(r.TaskCompleted) != "2" {
		t.Errorf("complete by text = %+v", r)
	}

	r = ex.Execute(ctx, Decision{Action: ActionRemove, Index: 1})
	if string(r.TaskRemoved) != "1" {
		t.Errorf("remove = %+v", r)
	}

	r = ex.Execute(ctx, Decision{Action: ActionShow})
	if len(r.Tasks) != 1 || r.Tasks[0] != "#2: Buy milk [Done]" {
		t.Errorf("show = %v", r.Tasks)
	}

	r = ex.Execute(ctx, Decision{Action: ActionRemove, Task: "nope"})
	if r.Error != errNoMatch {
		t.Errorf("remove unknown = %+v", r)
	}

	r = ex.Execute(ctx, Decision{Action: ActionComplete, Index: 9})
	if r.Error != errOutOfRange {
		t.Errorf("complete out of range = %+v", r)
	}

	r = ex.Execute(ctx, Decision{Action: ActionRemove})
	if r.Error != "" || r.TaskRemoved.Set() {
		t.Errorf("remove without target = %+v", r)
	}

	if lines := ex.Lines(ctx); len(lines) != 1 {
		t.Errorf("Lines = %v", lines)
	}
}

type brokenTasks struct{ listErr, opErr error }

func (b brokenTasks) List(context.Context) ([]tasks.Task, error) {
	return []tasks.Task{{ID: 7, Text: "x"}}, b.listErr
}
func (b brokenTasks) Add(context.Context, string) (tasks.Task, error) { return tasks.Task{}, b.opErr }
func (b brokenTasks) Remove(context.Context, int) error { return b.opErr }
func (b brokenTasks) Complete(context.Context, int, bool) (tasks.Task, error) {
	return tasks.Task{}, b.opErr
}

func TestExecutorFailures(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name string
		api  brokenTasks
		d    Decision
		want string
	}{
		{"add", brokenTasks{opErr: down}, Decision{Action: ActionAdd, Task: "a"}, errAddFailed},
		{"remove", brokenTasks{opErr: down}, Decision{Action: ActionRemove, Index: 1}, errRemoveFailed},
		{"remove list down", brokenTasks{listErr: down}, Decision{Action: ActionRemove, Index: 1}, errRemoveFailed},
		{"complete", brokenTasks{opErr: down}, Decision{Action: ActionComplete, Index: 1}, errCompleteFailed},
		{"complete list down", brokenTasks{listErr: down}, Decision{Action: ActionComplete, Index: 1}, errCompleteFailed},
		{"show", brokenTasks{listErr: down}, Decision{Action: ActionShow}, errFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewExecutor(tt.api, nil).Execute(context.Background(), tt.d)
			if r.Error != tt.want {
				t.Errorf("error = %q, want %q", r.Error, tt.want)
			}
			if r.TaskAdded.Set() || r.TaskRemoved.Set() || r.TaskCompleted.Set() || r.HasTasks() {
				t.Errorf("failure carried a signal: %+v", r)
			}
		})
	}

	if lines := NewExecutor(brokenTasks{listErr: down}, nil).Lines(context.Background()); lines != nil {
		t.Errorf("Lines on failure = %v", lines)
	}
}

func TestExecutorFailureDropsSuccessText(t *testing.T) {
	brokenStore := brokenTasks{opErr: errors.New("down")}
	tests := []struct {
		name    string
		api     TaskAPI
		message string
		want    string
	}{
		{"remove out of range", brokenTasks{}, "remove 5", "⚠️ " + errOutOfRange},
		{"complete out of range", brokenTasks{}, "done 3", "⚠️ " + errOutOfRange},
		{"add fails", brokenStore, "add milk", "⚠️ " + errAddFailed},
		{"remove fails", brokenStore, "remove 1", "⚠️ " + errRemoveFailed},
		{"list fails", brokenTasks{listErr: errors.New("down")}, "list", "⚠️ " + errFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := CommandBrain{}.Decide(context.Background(), Input{Message: tt.message, Tasks: []string{"#7: x [Pending]"}})
			if err != nil {
				t.Fatal(err)
			}
			d.Chat = "Done!"
			got := reply.Classify(NewExecutor(tt.api, nil).Execute(context.Background(), d))
			if got.Text != tt.want {
				t.Errorf("text = %q, want %q", got.Text, tt.want)
			}
		})
	}
}
