package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/tailpin/internal/scrolllock"
)

func TestRangeText(t *testing.T) {
	tests := []struct {
		name         string
		offset       float64
		clientHeight float64
		scrollHeight float64
		want         string
	}{
		{"empty", 0, 10, 0, "0/0"},
		{"fits", 0, 10, 3, "1-3/3"},
		{"at bottom", 18, 5, 23, "19-23/23"},
		{"at top", 0, 5, 23, "1-5/23"},
		{"fractional offset", 2.5, 5, 23, "3-7/23"},
		{"zero height viewport", 4, 0, 10, "4-4/10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RangeText(tt.offset, tt.clientHeight, tt.scrollHeight); got != tt.want {
				t.Errorf("RangeText(%v, %v, %v) = %q, want %q",
					tt.offset, tt.clientHeight, tt.scrollHeight, got, tt.want)
			}
		})
	}
}

func TestLockLabel(t *testing.T) {
	tests := []struct {
		kind scrolllock.LockKind
		want string
	}{
		{scrolllock.LockNone, "FREE"},
		{scrolllock.LockBottom, "BOTTOM"},
		{scrolllock.LockTop, "TOP"},
		{scrolllock.LockFreeze, "FREEZE"},
	}
	for _, tt := range tests {
		if got := LockLabel(tt.kind); got != tt.want {
			t.Errorf("LockLabel(%v) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestRenderStatusBar(t *testing.T) {
	tests := []struct {
		name     string
		state    StatusState
		contains []string
		excludes []string
	}{
		{
			name: "navigate at bottom",
			state: StatusState{
				Lock: scrolllock.LockBottom, Offset: 18, ClientHeight: 5, ScrollHeight: 23,
				Files: 2, Width: 120,
			},
			contains: []string{"BOTTOM", "19-23/23", "NAVIGATE", "2 files", "freeze"},
			excludes: []string{"poll", "INSERT"},
		},
		{
			name: "insert while polling",
			state: StatusState{
				Lock: scrolllock.LockNone, ClientHeight: 5, Insert: true, Polling: true, Width: 120,
			},
			contains: []string{"FREE", "INSERT", "poll", "esc"},
			excludes: []string{"NAVIGATE"},
		},
		{
			name: "notice replaces help",
			state: StatusState{
				Lock: scrolllock.LockFreeze, Notice: "copied 5 lines", Width: 120,
			},
			contains: []string{"FREEZE", "copied 5 lines"},
			excludes: []string{"unlock"},
		},
		{
			name: "error notice",
			state: StatusState{
				Notice: "watch failed", NoticeIsError: true, Width: 120,
			},
			contains: []string{"watch failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(RenderStatusBar(tt.state))
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("RenderStatusBar() = %q, should contain %q", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("RenderStatusBar() = %q, should not contain %q", got, unwanted)
				}
			}
		})
	}
}

func TestRenderStatusBar_FitsWidth(t *testing.T) {
	for _, width := range []int{20, 40, 80} {
		state := StatusState{
			Lock: scrolllock.LockBottom, Offset: 100, ClientHeight: 30, ScrollHeight: 5000,
			Files: 3, Notice: "a fairly long notice that will not fit", Width: width,
		}
		if got := lipgloss.Width(RenderStatusBar(state)); got > width {
			t.Errorf("RenderStatusBar() width = %d, want <= %d", got, width)
		}
	}
}

func TestRenderPane(t *testing.T) {
	t.Run("pads to height", func(t *testing.T) {
		got := RenderPane([]string{"a", "b"}, 10, 4)
		if lines := strings.Split(got, "\n"); len(lines) != 4 {
			t.Errorf("RenderPane() produced %d lines, want 4", len(lines))
		}
	})

	t.Run("drops rows past height", func(t *testing.T) {
		got := RenderPane([]string{"a", "b", "c"}, 10, 2)
		if got != "a\nb" {
			t.Errorf("RenderPane() = %q, want %q", got, "a\nb")
		}
	})

	t.Run("truncates wide rows", func(t *testing.T) {
		got := RenderPane([]string{"0123456789abcdef"}, 8, 1)
		if lipgloss.Width(got) > 8 {
			t.Errorf("RenderPane() = %q, wider than 8", got)
		}
	})

	t.Run("zero height", func(t *testing.T) {
		if got := RenderPane([]string{"a"}, 10, 0); got != "" {
			t.Errorf("RenderPane() = %q, want empty", got)
		}
	})
}
