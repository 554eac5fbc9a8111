// Package styles defines the visual styling for terminal output.
package styles

import "github.com/charmbracelet/lipgloss"

// Color definitions for the pihole-sense theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("205") // Pink
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(0, 1)

// HelpStyle is used for hints and empty states.
var HelpStyle = lipgloss.NewStyle().
	Foreground(Subtle)

// LabelStyle styles the left column of key/value lines.
var LabelStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// ValueStyle styles the right column of key/value lines.
var ValueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(TextPrimary)

// Status styles.
var (
	OnlineStyle  = lipgloss.NewStyle().Foreground(Success).Bold(true)
	OfflineStyle = lipgloss.NewStyle().Foreground(Error).Bold(true)
	CachedStyle  = lipgloss.NewStyle().Foreground(Warning)
)

// Blocked percentage styles.
var (
	BlockedLowStyle    = lipgloss.NewStyle().Foreground(Success)
	BlockedMediumStyle = lipgloss.NewStyle().Foreground(Warning)
	BlockedHighStyle   = lipgloss.NewStyle().Foreground(Error)
)

// GetBlockedStyle returns the style for a blocked percentage. A high share
// of blocked queries is shown as a warning.
func GetBlockedStyle(percent float64) lipgloss.Style {
	switch {
	case percent > 50:
		return BlockedHighStyle
	case percent > 20:
		return BlockedMediumStyle
	default:
		return BlockedLowStyle
	}
}
