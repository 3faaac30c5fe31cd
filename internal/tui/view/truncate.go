package view

import "github.com/charmbracelet/x/ansi"

// ellipsis marks text cut short in the status bar.
const ellipsis = "…"

// truncate cuts s to width columns, keeping escape sequences intact. When s
// is cut, tail is appended within width; a tail that would not leave room
// for any text is dropped.
func truncate(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	if ansi.StringWidth(tail) >= width {
		tail = ""
	}
	return ansi.Truncate(s, width, tail)
}
