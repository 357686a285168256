package agentd

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCommandBrain(t *testing.T) {
	tests := []struct {
		in    string
		tasks []string
		want  Decision
	}{
		{"list", []string{"#1: a [Pending]"}, Decision{Action: ActionShow, Message: "Here are your tasks:"}},
		{"LIST", nil, Decision{Action: ActionShow, Message: "Here are your tasks:"}},
		{"show", []string{}, Decision{Action: ActionShow, Message: "No tasks found."}},
		{"add Buy  milk ", nil, Decision{Action: ActionAdd, Task: "Buy  milk", Message: `Task added: "Buy  milk"`}},
		{"add", nil, Decision{Help: "Please provide a task description."}},
		{"remove 2", nil, Decision{Action: ActionRemove, Index: 2, Message: "Task 2 removed."}},
		{"remove #3", nil, Decision{Action: ActionRemove, Index: 3, Message: "Task 3 removed."}},
		{"remove two", nil, Decision{Help: "Please provide a valid task number to remove."}},
		{"done 1", nil, Decision{Action: ActionComplete, Index: 1, Message: "Task 1 marked as done."}},
		{"complete 0", nil, Decision{Help: "Please provide a valid task number to complete."}},
		{"help", nil, Decision{Help: commandUsage}},
		{"   ", nil, Decision{Help: commandUsage}},
		{"what's up", nil, Decision{Message: "Sorry, I did not understand.", Help: commandUsage}},
	}

	for _, tt := range tests {
		got, err := CommandBrain{}.Decide(context.Background(), Input{Message: tt.in, Tasks: tt.tasks})
		if err != nil {
			t.Fatalf("Decide(%q): %v", tt.in, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Decide(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}

	if d, _ := (CommandBrain{}).Decide(context.Background(), Input{Message: "hello"}); d.Chat == "" || d.Action != "" {
		t.Errorf("greeting = %+v", d)
	}
}
