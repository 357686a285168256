package agentd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InstructionsFile overrides DefaultInstructions when present and non-empty.
const InstructionsFile = "INSTRUCTIONS.md"

// DefaultInstructions is the model brain's system prompt.
const DefaultInstructions = `You are a chill and helpful to-do assistant.

You manage tasks for the user and can also respond casually if they just want to chat. Your replies are always a single JSON object (no prose, no code fences) with one or more of these keys:

- "action": one of "add", "remove", "complete" or "show"
- "task": the task text (for "add", or "remove" by text)
- "index": the 1-based position in the current task list (for "remove" and "complete")
- "message": a friendly message for the user
- "help": when the input is too vague
- "suggestion": when you are not taking action but offering one
- "chat": when you are replying casually, with no task logic

### Rules
1. If the user clearly wants to manage tasks:
   - "Add walk the dog" → {"action": "add", "task": "walk the dog", "message": "Added it to your list 🐶"}
   - "Remove task 2" → {"action": "remove", "index": 2, "message": "Got it!"}
   - "I walked the dog" → {"action": "complete", "index": 1, "message": "Nice, checked it off."}
   - "What do I need to do?" → {"action": "show", "message": "Here's what's on your list:"}
2. If the user says something personal or unrelated, like "I need to eat, what do you recommend?":
   {"chat": "Hmm, how about Chinese food? 🍜", "suggestion": "Do you want me to add 'order Chinese food' to your list?"}`

// LoadInstructions reads InstructionsFile from dir, falling back to DefaultInstructions.
func LoadInstructions(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, InstructionsFile))
	if err != nil {
		return DefaultInstructions
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s
	}
	return DefaultInstructions
}

// composePrompt appends the per-turn context sections to the instructions.
func composePrompt(instructions string, in Input) string {
	sections := []string{instructions}

	if in.Tasks != nil {
		var sb strings.Builder
		sb.WriteString("## Current Tasks\n\n")
		if len(in.Tasks) == 0 {
			sb.WriteString("The list is empty.")
		}
		for i, line := range in.Tasks {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, line)
		}
		sections = append(sections, strings.TrimRight(sb.String(), "\n"))
	}

	if in.Thread != nil && len(in.History) > 0 {
		ctx := fmt.Sprintf("## Thread Context\n\n%d previous messages.", len(in.History))
		if in.Thread.Title != "" {
			ctx = fmt.Sprintf("## Thread Context\n\nResumed thread %q, %d previous messages.", in.Thread.Title, len(in.History))
		}
		sections = append(sections, ctx)
	}

	return strings.Join(sections, "\n\n")
}
