package tasks

import "regexp"

// Status is the status word of a canonical task line.
type Status string

const (
	StatusDone    Status = "Done"
	StatusPending Status = "Pending"
)

// Line is a parsed canonical task line. ID stays textual: the line is a
// display contract and the caller decides whether it needs a number.
type Line struct {
	ID     string
	Text   string
	Status Status
}

var lineRe = regexp.MustCompile(`^#(\d+): (.*) \[(Done|Pending)\]$`)

// ParseLine extracts (id, text, status) from "#<digits>: <text> [Done|Pending]".
// It reports false on any deviation; callers render the raw line instead.
func ParseLine(s string) (Line, bool) {
	m := lineRe.FindStringSubmatch(s)
	if m == nil {
		return Line{}, false
	}
	return Line{ID: m[1], Text: m[2], Status: Status(m[3])}, true
}
