package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/tailpin/internal/attach"
	"github.com/Iron-Ham/tailpin/internal/config"
	"github.com/Iron-Ham/tailpin/internal/scrolllock"
	"github.com/Iron-Ham/tailpin/internal/tail"
	"github.com/Iron-Ham/tailpin/internal/testutil"
	"github.com/Iron-Ham/tailpin/internal/tui/msg"
)

type fakeSource struct {
	lines  chan tail.Line
	errs   chan error
	closed int
}

func newFakeSource() *fakeSource {
	return &fakeSource{lines: make(chan tail.Line, 1), errs: make(chan error, 1)}
}

func (s *fakeSource) Lines() <-chan tail.Line { return s.lines }
func (s *fakeSource) Errors() <-chan error    { return s.errs }

func (s *fakeSource) Close() error {
	s.closed++
	return nil
}

// newTestModel returns a model with a 40x6 terminal, which leaves five
// rows for the pane.
func newTestModel(t *testing.T, opts Options, mutate func(*config.Config)) Model {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	opts.Config = cfg
	m, err := NewModel(opts)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return update(t, m, tea.WindowSizeMsg{Width: 40, Height: 6})
}

func update(t *testing.T, m Model, message tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(message)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", next)
	}
	return model
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func appendLines(t *testing.T, m Model, file string, from, to int) Model {
	t.Helper()
	for i := from; i <= to; i++ {
		m = update(t, m, msg.LineMsg{Line: tail.Line{File: file, Text: fmt.Sprintf("line %d", i)}})
	}
	return m
}

func rowText(m Model, i int) string {
	rows := m.body.Rows()
	if i < 0 {
		i += len(rows)
	}
	if i < 0 || i >= len(rows) {
		return ""
	}
	return ansi.Strip(rows[i].Text)
}

func assertView(t *testing.T, m Model, top float64, kind scrolllock.LockKind) {
	t.Helper()
	if got := m.body.ScrollTop(); got != top {
		t.Errorf("ScrollTop() = %v, want %v", got, top)
	}
	if got := m.engine.Lock().Kind; got != kind {
		t.Errorf("lock = %v, want %v", got, kind)
	}
}

func TestNewModel_InvalidPosition(t *testing.T) {
	cfg := config.Default()
	cfg.Scroll.Position = "middle"
	if _, err := NewModel(Options{Config: cfg}); err == nil {
		t.Error("NewModel() should reject an invalid position")
	}
}

func TestModel_FollowsLines(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m = appendLines(t, m, "app.log", 1, 20)

	assertView(t, m, 15, scrolllock.LockBottom)
	if got := m.body.ClientHeight(); got != 5 {
		t.Errorf("ClientHeight() = %v, want 5", got)
	}
	if got := rowText(m, -1); got != "line 20" {
		t.Errorf("last row = %q, want %q", got, "line 20")
	}
}

func TestModel_ScrollingReleasesAndRejoins(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m = appendLines(t, m, "app.log", 1, 20)

	m = press(t, m, "k")
	assertView(t, m, 14, scrolllock.LockNone)

	m = appendLines(t, m, "app.log", 21, 22)
	assertView(t, m, 14, scrolllock.LockNone)

	m = press(t, m, "G")
	assertView(t, m, 17, scrolllock.LockBottom)

	m = appendLines(t, m, "app.log", 23, 23)
	assertView(t, m, 18, scrolllock.LockBottom)

	m = press(t, m, "g")
	assertView(t, m, 0, scrolllock.LockNone)

	m = press(t, m, "j", "down")
	assertView(t, m, 2, scrolllock.LockNone)
}

func TestModel_LockCommands(t *testing.T) {
	t.Run("freeze keeps distance from the end", func(t *testing.T) {
		m := newTestModel(t, Options{}, nil)
		m = appendLines(t, m, "app.log", 1, 20)
		m = press(t, m, "k", "k", "k", "f")
		assertView(t, m, 12, scrolllock.LockFreeze)

		m = appendLines(t, m, "app.log", 21, 25)
		assertView(t, m, 17, scrolllock.LockFreeze)
	})

	t.Run("top lock", func(t *testing.T) {
		m := newTestModel(t, Options{}, nil)
		m = appendLines(t, m, "app.log", 1, 20)
		m = press(t, m, "t")
		assertView(t, m, 0, scrolllock.LockTop)

		m = appendLines(t, m, "app.log", 21, 30)
		assertView(t, m, 0, scrolllock.LockTop)
	})

	t.Run("unlock", func(t *testing.T) {
		m := newTestModel(t, Options{}, nil)
		m = appendLines(t, m, "app.log", 1, 20)
		m = press(t, m, "u")
		assertView(t, m, 15, scrolllock.LockNone)

		m = appendLines(t, m, "app.log", 21, 30)
		assertView(t, m, 15, scrolllock.LockNone)
	})

	t.Run("bottom lock jumps back", func(t *testing.T) {
		m := newTestModel(t, Options{}, nil)
		m = appendLines(t, m, "app.log", 1, 20)
		m = press(t, m, "g", "b")
		assertView(t, m, 15, scrolllock.LockBottom)
	})

	t.Run("page keys", func(t *testing.T) {
		m := newTestModel(t, Options{}, nil)
		m = appendLines(t, m, "app.log", 1, 20)
		m = press(t, m, "pgup")
		assertView(t, m, 10, scrolllock.LockNone)
	})
}

func TestModel_Resize(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m = appendLines(t, m, "app.log", 1, 20)

	m = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 11})
	assertView(t, m, 10, scrolllock.LockBottom)

	m = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 3})
	assertView(t, m, 18, scrolllock.LockBottom)
}

func TestModel_MaxLines(t *testing.T) {
	m := newTestModel(t, Options{}, func(c *config.Config) { c.TUI.MaxLines = 10 })
	m = appendLines(t, m, "app.log", 1, 30)

	if got := len(m.body.Children()); got != 10 {
		t.Errorf("children = %d, want 10", got)
	}
	if got := rowText(m, 0); got != "line 21" {
		t.Errorf("first row = %q, want %q", got, "line 21")
	}
	assertView(t, m, 5, scrolllock.LockBottom)
}

func TestModel_FileNamePrefix(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m = update(t, m, msg.LineMsg{Line: tail.Line{File: "a.log", Text: "one"}})
	m = update(t, m, msg.LineMsg{Line: tail.Line{File: "b.log", Text: "two"}})
	m = update(t, m, msg.LineMsg{Line: tail.Line{File: "a.log", Text: "three"}})

	want := []string{"one", "b.log two", "a.log three"}
	for i, w := range want {
		if got := rowText(m, i); got != w {
			t.Errorf("row %d = %q, want %q", i, got, w)
		}
	}

	m = newTestModel(t, Options{}, func(c *config.Config) { c.TUI.ShowFileNames = false })
	m = update(t, m, msg.LineMsg{Line: tail.Line{File: "a.log", Text: "one"}})
	m = update(t, m, msg.LineMsg{Line: tail.Line{File: "b.log", Text: "two"}})
	if got := rowText(m, 1); got != "two" {
		t.Errorf("row without prefixes = %q, want %q", got, "two")
	}
}

func TestModel_Attachment(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "notes.txt", "first\nsecond\nthird\n")
	loader := attach.NewLoader(dir, 50, nil)

	m := newTestModel(t, Options{Loader: loader}, nil)
	m = appendLines(t, m, "app.log", 1, 10)

	next, cmd := m.Update(msg.LineMsg{Line: tail.Line{File: "app.log", Text: "@attach notes.txt"}})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("attachment line should return a load command")
	}
	if got := rowText(m, -1); !strings.Contains(got, "loading notes.txt") {
		t.Errorf("placeholder row = %q", got)
	}
	assertView(t, m, 6, scrolllock.LockBottom)

	loaded := msg.LoadAttachment(context.Background(), loader, 1, "notes.txt")()
	m = update(t, m, loaded)

	if got := m.body.ScrollHeight(); got != 13 {
		t.Errorf("ScrollHeight() = %v, want 13", got)
	}
	if got := rowText(m, -1); got != "third" {
		t.Errorf("last row = %q, want %q", got, "third")
	}
	assertView(t, m, 8, scrolllock.LockBottom)
	if len(m.pending) != 0 {
		t.Errorf("pending = %d, want 0", len(m.pending))
	}
}

func TestModel_AttachmentTrimmedBeforeLoad(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "notes.txt", "first\nsecond\n")
	loader := attach.NewLoader(dir, 50, nil)

	m := newTestModel(t, Options{Loader: loader}, func(c *config.Config) { c.TUI.MaxLines = 2 })
	m = update(t, m, msg.LineMsg{Line: tail.Line{Text: "@attach notes.txt"}})
	m = appendLines(t, m, "app.log", 1, 2)

	if len(m.pending) != 0 {
		t.Fatalf("trimmed attachment still pending")
	}
	m = update(t, m, msg.LoadAttachment(context.Background(), loader, 1, "notes.txt")())
	if got := m.body.ScrollHeight(); got != 2 {
		t.Errorf("ScrollHeight() = %v, want 2", got)
	}
}

func TestModel_AttachmentsDisabled(t *testing.T) {
	loader := attach.NewLoader(t.TempDir(), 50, nil)
	m := newTestModel(t, Options{Loader: loader}, func(c *config.Config) { c.Attach.Enabled = false })

	m = update(t, m, msg.LineMsg{Line: tail.Line{Text: "@attach notes.txt"}})
	if got := rowText(m, 0); got != "@attach notes.txt" {
		t.Errorf("row = %q, want the directive as text", got)
	}
}

func TestModel_InsertMode(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m = appendLines(t, m, "app.log", 1, 20)

	m = press(t, m, "i")
	if m.mode != ModeInsert {
		t.Fatalf("mode = %v, want ModeInsert", m.mode)
	}
	if got := m.body.ClientHeight(); got != 4 {
		t.Errorf("ClientHeight() in insert mode = %v, want 4", got)
	}
	assertView(t, m, 16, scrolllock.LockBottom)

	// Keys go to the composer, so q does not quit.
	m = press(t, m, "h", "i", "q", "enter")
	if m.quitting {
		t.Fatal("q in insert mode should not quit")
	}
	if got := rowText(m, -1); got != "you: hiq" {
		t.Errorf("sent row = %q, want %q", got, "you: hiq")
	}
	if m.input.Value() != "" {
		t.Errorf("composer = %q, want it cleared after send", m.input.Value())
	}
	assertView(t, m, 17, scrolllock.LockBottom)

	// Blank input sends nothing.
	m = press(t, m, " ", "enter")
	if got := m.body.ScrollHeight(); got != 21 {
		t.Errorf("ScrollHeight() = %v, want 21", got)
	}

	m = press(t, m, "esc")
	if m.mode != ModeNavigate {
		t.Errorf("mode = %v, want ModeNavigate", m.mode)
	}
	if got := m.body.ClientHeight(); got != 5 {
		t.Errorf("ClientHeight() after esc = %v, want 5", got)
	}
	assertView(t, m, 16, scrolllock.LockBottom)
}

func TestModel_Copy(t *testing.T) {
	var copied string
	write := func(text string) error {
		copied = text
		return nil
	}
	m := newTestModel(t, Options{Clipboard: write}, nil)

	next, _ := m.Update(keyMsg("y"))
	m = next.(Model)
	if m.notice != "nothing to copy" {
		t.Errorf("notice = %q, want %q", m.notice, "nothing to copy")
	}

	m = appendLines(t, m, "app.log", 1, 20)
	_, cmd := m.Update(keyMsg("y"))
	if cmd == nil {
		t.Fatal("y should return a copy command")
	}
	result := cmd()
	if want := "line 16\nline 17\nline 18\nline 19\nline 20"; copied != want {
		t.Errorf("copied %q, want %q", copied, want)
	}

	m = update(t, m, result)
	if m.notice != "copied 5 lines" || m.noticeIsError {
		t.Errorf("notice = %q (error %v), want %q", m.notice, m.noticeIsError, "copied 5 lines")
	}
}

func TestModel_Notices(t *testing.T) {
	m := newTestModel(t, Options{}, nil)

	m = update(t, m, msg.TailErrMsg{Err: fmt.Errorf("watch failed")})
	if m.notice != "watch failed" || !m.noticeIsError {
		t.Fatalf("notice = %q (error %v)", m.notice, m.noticeIsError)
	}
	first := m.noticeSeq

	m = update(t, m, msg.CopiedMsg{Lines: 1})
	if m.notice != "copied 1 line" {
		t.Errorf("notice = %q, want %q", m.notice, "copied 1 line")
	}

	// A stale clear leaves the newer notice in place.
	m = update(t, m, msg.ClearNoticeMsg{Seq: first})
	if m.notice == "" {
		t.Error("stale ClearNoticeMsg cleared the current notice")
	}
	m = update(t, m, msg.ClearNoticeMsg{Seq: m.noticeSeq})
	if m.notice != "" {
		t.Errorf("notice = %q, want cleared", m.notice)
	}

	m = update(t, m, msg.TailClosedMsg{Err: fmt.Errorf("dir removed")})
	if m.notice != "follow stopped: dir removed" {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestModel_Mouse(t *testing.T) {
	wheel := func(b tea.MouseButton) tea.MouseMsg {
		return tea.MouseMsg{Button: b, Action: tea.MouseActionPress}
	}

	m := newTestModel(t, Options{}, nil)
	m = appendLines(t, m, "app.log", 1, 20)
	m = update(t, m, wheel(tea.MouseButtonWheelUp))
	assertView(t, m, 12, scrolllock.LockNone)

	m = update(t, m, wheel(tea.MouseButtonWheelDown))
	assertView(t, m, 15, scrolllock.LockBottom)

	m = newTestModel(t, Options{}, func(c *config.Config) { c.TUI.Mouse = false })
	m = appendLines(t, m, "app.log", 1, 20)
	m = update(t, m, wheel(tea.MouseButtonWheelUp))
	assertView(t, m, 15, scrolllock.LockBottom)
}

func TestModel_PollingFallback(t *testing.T) {
	m := newTestModel(t, Options{}, func(c *config.Config) { c.Scroll.ObserveMutations = false })
	if !m.engine.Polling() {
		t.Fatal("engine should poll without a mutation observer")
	}

	m = appendLines(t, m, "app.log", 1, 20)
	assertView(t, m, 0, scrolllock.LockBottom)

	// Two 50ms ticks cover one 100ms poll interval.
	start := time.Now()
	m = update(t, m, msg.TickMsg(start))
	m = update(t, m, msg.TickMsg(start.Add(50*time.Millisecond)))
	assertView(t, m, 15, scrolllock.LockBottom)
}

func TestModel_Quit(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(t, Options{Source: src}, nil)

	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if !m.quitting || src.closed != 1 {
		t.Errorf("quitting = %v, source closed %d times; want true and 1", m.quitting, src.closed)
	}
	if m.ctx.Err() == nil {
		t.Error("quit should cancel pending loads")
	}
	if m.View() != "" {
		t.Error("View() after quit should be empty")
	}

	// Later messages are ignored.
	m = appendLines(t, m, "app.log", 1, 3)
	if got := m.body.ScrollHeight(); got != 0 {
		t.Errorf("ScrollHeight() after quit = %v, want 0", got)
	}
}

func TestModel_SourceCommands(t *testing.T) {
	src := newFakeSource()
	m := newTestModel(t, Options{Source: src}, nil)

	if m.Init() == nil {
		t.Fatal("Init() returned nil")
	}

	src.lines <- tail.Line{File: "app.log", Text: "hello"}
	result := m.waitForLine()()
	line, ok := result.(msg.LineMsg)
	if !ok || line.Line.Text != "hello" {
		t.Fatalf("waitForLine() = %v, want the queued line", result)
	}

	m = update(t, m, line)
	if got := rowText(m, 0); got != "hello" {
		t.Errorf("row = %q, want %q", got, "hello")
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, Options{}, nil)
	m = appendLines(t, m, "app.log", 1, 20)

	out := ansi.Strip(m.View())
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("View() has %d lines, want 6", len(lines))
	}
	if lines[0] != "line 16" || lines[4] != "line 20" {
		t.Errorf("pane = %q", lines[:5])
	}
	if !strings.Contains(lines[5], "BOTTOM") || !strings.Contains(lines[5], "16-20/20") {
		t.Errorf("status bar = %q", lines[5])
	}

	m = press(t, m, "i")
	if lines := strings.Split(ansi.Strip(m.View()), "\n"); len(lines) != 6 {
		t.Errorf("insert View() has %d lines, want 6", len(lines))
	}
}

func TestCopiedText(t *testing.T) {
	tests := []struct {
		lines int
		want  string
	}{
		{1, "copied 1 line"},
		{5, "copied 5 lines"},
	}
	for _, tt := range tests {
		if got := copiedText(tt.lines); got != tt.want {
			t.Errorf("copiedText(%d) = %q, want %q", tt.lines, got, tt.want)
		}
	}
}
