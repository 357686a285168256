package agentd

import (
	"context"
	"strconv"
	"strings"
)

const commandUsage = `Use "list", "add <task>", "remove <n>" or "done <n>".`

// CommandBrain understands a fixed command grammar. It needs no model.
type CommandBrain struct{}

func (CommandBrain) Name() string { return "command" }

func (CommandBrain) Decide(_ context.Context, in Input) (Decision, error) {
	fields := strings.Fields(in.Message)
	if len(fields) == 0 {
		return Decision{Help: commandUsage}, nil
	}
	verb := strings.ToLower(fields[0])
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(in.Message), fields[0]))

	switch verb {
	case "list", "show", "tasks", "ls":
		if len(in.Tasks) == 0 && in.Tasks != nil {
			return Decision{Action: ActionShow, Message: "No tasks found."}, nil
		}
		return Decision{Action: ActionShow, Message: "Here are your tasks:"}, nil

	case "add", "new", "todo":
		if rest == "" {
			return Decision{Help: "Please provide a task description."}, nil
		}
		return Decision{Action: ActionAdd, Task: rest, Message: "Task added: \"" + rest + "\""}, nil

	case "remove", "delete", "rm":
		n, ok := index(rest)
		if !ok {
			return Decision{Help: "Please provide a valid task number to remove."}, nil
		}
		return Decision{Action: ActionRemove, Index: n, Message: "Task " + strconv.Itoa(n) + " removed."}, nil

	case "done", "complete", "finish":
		n, ok := index(rest)
		if !ok {
			return Decision{Help: "Please provide a valid task number to complete."}, nil
		}
		return Decision{Action: ActionComplete, Index: n, Message: "Task " + strconv.Itoa(n) + " marked as done."}, nil

	case "help", "?":
		return Decision{Help: commandUsage}, nil

	case "hi", "hello", "hey", "yo":
		return Decision{
			Chat:       "Hey! What's on your plate today?",
			Suggestion: `Type "list" to see your tasks.`,
		}, nil
	}

	return Decision{Message: "Sorry, I did not understand.", Help: commandUsage}, nil
}

func index(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
