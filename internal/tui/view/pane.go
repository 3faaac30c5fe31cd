package view

import "strings"

// RenderPane renders rows into exactly height lines, each at most width
// columns. Missing rows are left blank so the status bar stays at the bottom.
func RenderPane(rows []string, width, height int) string {
	if height <= 0 {
		return ""
	}
	lines := make([]string, height)
	for i := range min(len(rows), height) {
		line := rows[i]
		if width > 0 {
			line = truncate(line, width, "")
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
