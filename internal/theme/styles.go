package theme

import "github.com/charmbracelet/lipgloss"

// Header styles
var (
	AppNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	TaglineStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(1, 0)

	VersionStyle = lipgloss.NewStyle().
			Foreground(ColorVersion)
)

// Verdict styles
var (
	AllowStyle = lipgloss.NewStyle().
			Foreground(ColorAllow).
			Bold(true)

	BlockStyle = lipgloss.NewStyle().
			Foreground(ColorBlock).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(ColorWarn)
)

// Text styles
var (
	HookNameStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)
)

// Error style
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorError).
	Bold(true)
