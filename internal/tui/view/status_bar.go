package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/tailpin/internal/scrolllock"
	"github.com/Iron-Ham/tailpin/internal/tui/styles"
)

// StatusState holds the state needed to render the status bar.
type StatusState struct {
	// Lock is the active lock kind.
	Lock scrolllock.LockKind

	// Offset, ClientHeight and ScrollHeight describe the viewport in rows.
	Offset       float64
	ClientHeight float64
	ScrollHeight float64

	// Insert indicates the composer has focus.
	Insert bool

	// Polling indicates the engine is polling instead of observing changes.
	Polling bool

	// Files is the number of followed files.
	Files int

	// Notice is a transient message shown on the right, replacing the help.
	Notice string

	// NoticeIsError renders Notice in the error color.
	NoticeIsError bool

	// Width is the available width for the bar.
	Width int
}

// RangeText describes the visible rows as "first-last/total", 1-based.
func RangeText(offset, clientHeight, scrollHeight float64) string {
	total := int(scrollHeight)
	if total <= 0 {
		return "0/0"
	}
	first := int(math.Floor(offset)) + 1
	last := min(int(math.Floor(offset+clientHeight)), total)
	first = min(first, last)
	return fmt.Sprintf("%d-%d/%d", first, last, total)
}

// LockLabel returns the badge text for a lock kind.
func LockLabel(kind scrolllock.LockKind) string {
	if kind == scrolllock.LockNone {
		return "FREE"
	}
	return strings.ToUpper(kind.String())
}

// navigateHelp lists the keys shown while navigating.
var navigateHelp = [][2]string{
	{"b", "bottom"},
	{"t", "top"},
	{"f", "freeze"},
	{"u", "unlock"},
	{"y", "copy"},
	{"i", "write"},
	{"q", "quit"},
}

func renderHelp(insert bool) string {
	if insert {
		return styles.HelpKey.Render("enter") + styles.Muted.Render(" send  ") +
			styles.HelpKey.Render("esc") + styles.Muted.Render(" back")
	}
	parts := make([]string, 0, len(navigateHelp))
	for _, kv := range navigateHelp {
		parts = append(parts, styles.HelpKey.Render(kv[0])+styles.Muted.Render(" "+kv[1]))
	}
	return strings.Join(parts, "  ")
}

// RenderStatusBar renders the single-row status bar.
func RenderStatusBar(state StatusState) string {
	badge := styles.LockBadge(state.Lock).Render(LockLabel(state.Lock))

	mode := "NAVIGATE"
	if state.Insert {
		mode = "INSERT"
	}

	left := []string{
		badge,
		RangeText(state.Offset, state.ClientHeight, state.ScrollHeight),
		styles.Primary.Render(mode),
	}
	if state.Polling {
		left = append(left, styles.Warning.Render("poll"))
	}
	switch {
	case state.Files == 1:
		left = append(left, styles.Muted.Render("1 file"))
	case state.Files > 1:
		left = append(left, styles.Muted.Render(fmt.Sprintf("%d files", state.Files)))
	}
	leftText := strings.Join(left, " ")

	var right string
	switch {
	case state.Notice != "" && state.NoticeIsError:
		right = styles.Error.Render(state.Notice)
	case state.Notice != "":
		right = styles.Secondary.Render(state.Notice)
	default:
		right = renderHelp(state.Insert)
	}

	// StatusBar pads one column on each side.
	inner := state.Width - 2
	if inner <= 0 {
		return styles.StatusBar.Render(leftText)
	}

	gap := inner - lipgloss.Width(leftText) - lipgloss.Width(right)
	if gap < 1 {
		room := inner - lipgloss.Width(leftText) - 1
		if room > 3 {
			right = truncate(right, room, ellipsis)
		} else {
			right = ""
		}
		gap = max(inner-lipgloss.Width(leftText)-lipgloss.Width(right), 0)
	}
	line := leftText + strings.Repeat(" ", gap) + right
	return styles.StatusBar.Render(truncate(line, inner, ""))
}
