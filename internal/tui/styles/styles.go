// Package styles holds the lipgloss colors and styles shared by the TUI views.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/tailpin/internal/scrolllock"
)

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BlueColor      = lipgloss.Color("#60A5FA") // Blue

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)

	// Footer / status bar
	StatusBar = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Padding(0, 1)

	// Badge is the base for the lock and mode labels in the status bar.
	Badge = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor).
		Padding(0, 1)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	// FileName prefixes lines when more than one file is followed.
	FileName = lipgloss.NewStyle().
			Foreground(BlueColor)

	// Sent marks lines typed into the composer.
	Sent = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)
)

// LockColor returns the badge color for a lock kind.
func LockColor(kind scrolllock.LockKind) lipgloss.Color {
	switch kind {
	case scrolllock.LockBottom:
		return SecondaryColor
	case scrolllock.LockTop:
		return BlueColor
	case scrolllock.LockFreeze:
		return WarningColor
	default:
		return MutedColor
	}
}

// LockBadge returns the style of the badge naming kind.
func LockBadge(kind scrolllock.LockKind) lipgloss.Style {
	return Badge.Background(LockColor(kind))
}
