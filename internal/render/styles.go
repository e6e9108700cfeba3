// Package render styles ckpectl's terminal output.
//
// All renderers are plain text producers; there is no interactive UI.
// Styling can be switched off entirely for --color never or when the
// output is not a terminal.
package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for CLI output.
var (
	Primary    = lipgloss.Color("#7C3AED") // Purple
	Secondary  = lipgloss.Color("#06B6D4") // Cyan
	Success    = lipgloss.Color("#10B981") // Green
	Warning    = lipgloss.Color("#F59E0B") // Amber
	Error      = lipgloss.Color("#EF4444") // Red
	Muted      = lipgloss.Color("#6B7280") // Gray
	MutedLight = lipgloss.Color("#9CA3AF") // Light Gray
	Foreground = lipgloss.Color("#F9FAFB") // White
)

// Styles used by the text renderers. Rebuilt by SetEnabled.
var (
	// TitleStyle is for file paths and command headlines.
	TitleStyle lipgloss.Style

	// SectionStyle is for INI section names.
	SectionStyle lipgloss.Style

	// KeyStyle is for setting names.
	KeyStyle lipgloss.Style

	// ValueStyle is for setting values.
	ValueStyle lipgloss.Style

	// MutedStyle is for de-emphasized text such as docs and defaults.
	MutedStyle lipgloss.Style

	// HeaderStyle is for table header rows.
	HeaderStyle lipgloss.Style

	// ErrorStyle is for error severities and messages.
	ErrorStyle lipgloss.Style

	// WarningStyle is for warning severities and messages.
	WarningStyle lipgloss.Style

	// NoteStyle is for informational severities.
	NoteStyle lipgloss.Style

	// SuccessStyle is for confirmation messages.
	SuccessStyle lipgloss.Style

	// AddedStyle is for lines present only in the right document.
	AddedStyle lipgloss.Style

	// RemovedStyle is for lines present only in the left document.
	RemovedStyle lipgloss.Style

	// ChangedStyle is for lines whose value differs.
	ChangedStyle lipgloss.Style
)

var enabled = true

func init() { rebuild() }

// SetEnabled turns ANSI styling on or off. When off every style
// renders its input unchanged, so output stays clean in pipes and
// with --color never.
func SetEnabled(on bool) {
	enabled = on
	rebuild()
}

// Enabled reports whether styling is active.
func Enabled() bool { return enabled }

func rebuild() {
	if !enabled {
		plain := lipgloss.NewStyle()
		TitleStyle = plain
		SectionStyle = plain
		KeyStyle = plain
		ValueStyle = plain
		MutedStyle = plain
		HeaderStyle = plain
		ErrorStyle = plain
		WarningStyle = plain
		NoteStyle = plain
		SuccessStyle = plain
		AddedStyle = plain
		RemovedStyle = plain
		ChangedStyle = plain
		return
	}

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Foreground)
	SectionStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	KeyStyle = lipgloss.NewStyle().Foreground(Secondary)
	ValueStyle = lipgloss.NewStyle().Foreground(Foreground)
	MutedStyle = lipgloss.NewStyle().Foreground(Muted)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(MutedLight)
	ErrorStyle = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	NoteStyle = lipgloss.NewStyle().Foreground(MutedLight)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	AddedStyle = lipgloss.NewStyle().Foreground(Success)
	RemovedStyle = lipgloss.NewStyle().Foreground(Error)
	ChangedStyle = lipgloss.NewStyle().Foreground(Warning)
}
