package reply

import "strings"

// Fallback is the text used when a response composes to nothing.
const Fallback = "Sorry, I did not understand."

// Marker glyphs prefixed to auxiliary lines.
const (
	SuggestionMarker = "💡 "
	HelpMarker       = "❓ "
	ErrorMarker      = "⚠️ "
)

// Classification is the rendering input derived from a response.
type Classification struct {
	Text   string
	Intent Intent
	Tasks  []string // nil when the response carried no task list
}

// Classify composes the message text and derives the intent. It is pure and
// total: any Response value yields an intent from the closed enumeration.
func Classify(r Response) Classification {
	var lines []string
	add := func(s string) {
		if s != "" {
			lines = append(lines, s)
		}
	}

	add(r.Message)
	add(strings.Join(r.Tasks, "\n"))
	if r.chatReply() {
		add(r.Chat)
	}
	if r.Suggestion != "" {
		add(SuggestionMarker + r.Suggestion)
	}
	if r.Help != "" {
		add(HelpMarker + r.Help)
	}
	if r.Error != "" {
		add(ErrorMarker + r.Error)
	}

	c := Classification{
		Text:   strings.Join(lines, "\n"),
		Intent: r.Outcome().Intent(),
	}
	if r.HasTasks() {
		c.Tasks = append([]string{}, r.Tasks...)
	}
	if c.Text == "" {
		c.Text = Fallback
		c.Intent = IntentInfo
	}
	return c
}
