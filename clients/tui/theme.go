// Package tui provides the interactive terminal chat for taskchat.
package tui

import "github.com/charmbracelet/lipgloss"

// Adaptive colors (light/dark terminal detection).
var (
	ColorUser      = lipgloss.AdaptiveColor{Light: "#0070F3", Dark: "#79C0FF"}
	ColorAssistant = lipgloss.AdaptiveColor{Light: "#6B21A8", Dark: "#D8A6FF"}
	ColorAction    = lipgloss.AdaptiveColor{Light: "#065F46", Dark: "#7EE2B8"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF6B6B"}
	ColorNotice    = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorStatusBg  = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"}
	ColorStatusFg  = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#D1D5DB"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}
)

// Component styles.
var (
	UserStyle = lipgloss.NewStyle().
			Foreground(ColorUser).
			Bold(true)

	AssistantStyle = lipgloss.NewStyle().
			Foreground(ColorAssistant).
			Bold(true)

	ActionStyle = lipgloss.NewStyle().
			Foreground(ColorAction)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorNotice).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorStatusBg).
			Foreground(ColorStatusFg).
			Padding(0, 1)

	TableBorderStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)

	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorAssistant).
				Bold(true)

	TableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	DoneStyle = lipgloss.NewStyle().
			Foreground(ColorAction)

	PendingStyle = lipgloss.NewStyle().
			Foreground(ColorNotice)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorAssistant)
)
