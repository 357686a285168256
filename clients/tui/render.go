package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dohr-michael/taskchat/internal/conversation"
	"github.com/dohr-michael/taskchat/internal/monitor"
	"github.com/dohr-michael/taskchat/internal/reply"
	"github.com/dohr-michael/taskchat/internal/tasks"
)

// RenderMessage renders one history entry with the template its intent selects.
func RenderMessage(m conversation.Message, width int) string {
	if m.Sender == conversation.SenderUser {
		return UserStyle.Render("You") + "\n" + wrap(m.Text, width)
	}

	label := AssistantStyle.Render("Assistant")
	switch m.Intent {
	case reply.IntentTasks:
		return label + "\n" + renderListing(m, width)
	case reply.IntentChat:
		return label + "\n" + RenderMarkdown(m.Text, width)
	case reply.IntentAdd, reply.IntentRemove, reply.IntentComplete:
		return label + "\n" + ActionStyle.Render("✓ ") + wrap(m.Text, width-2)
	case reply.IntentError:
		return label + "\n" + ErrorStyle.Render(wrap(m.Text, width))
	default:
		return label + "\n" + wrap(m.Text, width)
	}
}

// renderListing prints the non-task lines of the text followed by the task table.
func renderListing(m conversation.Message, width int) string {
	if len(m.Tasks) == 0 {
		return wrap(m.Text, width)
	}

	rows := make(map[string]bool, len(m.Tasks))
	for _, t := range m.Tasks {
		rows[t] = true
	}
	var prose []string
	for _, line := range strings.Split(m.Text, "\n") {
		if !rows[line] {
			prose = append(prose, line)
		}
	}

	out := TaskTable(m.Tasks)
	if len(prose) > 0 {
		out = wrap(strings.Join(prose, "\n"), width) + "\n" + out
	}
	return out
}

// TaskTable renders canonical task lines as a table. A line that does not
// parse becomes a row holding the raw line.
func TaskTable(lines []string) string {
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		l, ok := tasks.ParseLine(line)
		if !ok {
			rows = append(rows, []string{"", MutedStyle.Render(line), ""})
			continue
		}
		status := PendingStyle.Render(string(l.Status))
		if l.Status == tasks.StatusDone {
			status = DoneStyle.Render(string(l.Status))
		}
		rows = append(rows, []string{l.ID, l.Text, status})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		Headers(
			TableHeaderStyle.Render("#"),
			TableHeaderStyle.Render("Task"),
			TableHeaderStyle.Render("Status"),
		).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style { return TableCellStyle }).
		Render()
}

// RenderNotice renders the pending-count banner, or nothing when hidden.
func RenderNotice(n monitor.Notice) string {
	if !n.Visible {
		return ""
	}
	noun := "tasks"
	if n.PendingCount == 1 {
		noun = "task"
	}
	return NoticeStyle.Render(fmt.Sprintf("🔔 %d pending %s", n.PendingCount, noun))
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
