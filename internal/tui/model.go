package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/tailpin/internal/attach"
	"github.com/Iron-Ham/tailpin/internal/config"
	"github.com/Iron-Ham/tailpin/internal/dom"
	"github.com/Iron-Ham/tailpin/internal/logging"
	"github.com/Iron-Ham/tailpin/internal/scrolllock"
	"github.com/Iron-Ham/tailpin/internal/tail"
	"github.com/Iron-Ham/tailpin/internal/tui/msg"
	"github.com/Iron-Ham/tailpin/internal/tui/styles"
	"github.com/Iron-Ham/tailpin/internal/tui/view"
)

// Mode is the input mode of the model.
type Mode int

const (
	// ModeNavigate maps keys to scrolling and lock commands.
	ModeNavigate Mode = iota
	// ModeInsert sends keys to the composer.
	ModeInsert
)

// statusBarHeight is the number of rows below the pane.
const statusBarHeight = 1

// Source supplies followed lines. *tail.Tailer implements it.
type Source interface {
	Lines() <-chan tail.Line
	Errors() <-chan error
	Close() error
}

// Options configures a Model.
type Options struct {
	Config *config.Config
	// Source is followed when non-nil.
	Source Source
	// Loader reads attachments. Nil disables them.
	Loader *attach.Loader
	Logger *logging.Logger
	// Clipboard receives copied text (default: the system clipboard).
	Clipboard msg.WriteClipboardFunc
}

// Model is the Bubbletea model. Update is the only code that touches the
// window, its nodes and the engine.
type Model struct {
	cfg    *config.Config
	window *dom.Window
	body   *dom.Container
	engine *scrolllock.Engine

	source    Source
	loader    *attach.Loader
	logger    *logging.Logger
	clipboard msg.WriteClipboardFunc

	// ctx is cancelled on quit so in-flight attachment loads stop.
	ctx    context.Context
	cancel context.CancelFunc

	width, height int
	mode          Mode
	input         textinput.Model

	// Attachments waiting for their load, by ID.
	attachSeq int
	pending   map[int]*dom.Node

	// files records which files produced lines, to decide on prefixes.
	files map[string]struct{}

	lastTick time.Time

	notice        string
	noticeIsError bool
	noticeSeq     int

	quitting bool
}

// NewModel creates the window and attaches the scroll-lock engine to its body.
func NewModel(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	position, err := cfg.Scroll.InitialPosition()
	if err != nil {
		return Model{}, err
	}

	window := dom.NewWindow(dom.WindowOptions{
		PixelRatio:              cfg.Scroll.PixelRatio,
		DisableMutationObserver: !cfg.Scroll.ObserveMutations,
	})
	engine, err := scrolllock.New(scrolllock.Options{
		Target:     window.Body(),
		Env:        window.Environment(),
		Interval:   cfg.Scroll.Interval(),
		Position:   position,
		PixelRatio: window.PixelRatio(),
		Logger:     logger.WithComponent("scrolllock"),
	})
	if err != nil {
		return Model{}, err
	}
	window.Flush()

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "write a line, enter to send"
	input.CharLimit = 1000

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		cfg:       cfg,
		window:    window,
		body:      window.Body(),
		engine:    engine,
		source:    opts.Source,
		loader:    opts.Loader,
		logger:    logger.WithComponent("tui"),
		clipboard: opts.Clipboard,
		ctx:       ctx,
		cancel:    cancel,
		input:     input,
		pending:   make(map[int]*dom.Node),
		files:     make(map[string]struct{}),
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(msg.Tick(m.cfg.Scroll.Tick()), m.waitForLine(), m.waitForTailError())
}

func (m Model) waitForLine() tea.Cmd {
	if m.source == nil {
		return nil
	}
	return msg.WaitForLine(m.source.Lines())
}

func (m Model) waitForTailError() tea.Cmd {
	if m.source == nil {
		return nil
	}
	return msg.WaitForTailError(m.source.Errors())
}

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = message.Width, message.Height
		m.syncSize()
		return m, nil

	case tea.KeyMsg:
		if m.mode == ModeInsert {
			return m.handleInsertKey(message)
		}
		return m.handleKeypress(message)

	case tea.MouseMsg:
		return m.handleMouse(message)

	case msg.TickMsg:
		m.advance(time.Time(message))
		return m, msg.Tick(m.cfg.Scroll.Tick())

	case msg.LineMsg:
		cmd := m.appendLine(message.Line)
		return m, tea.Batch(cmd, m.waitForLine())

	case msg.TailErrMsg:
		m.logger.Warn("tail error", "error", message.Err)
		cmd := m.setNotice(message.Err.Error(), true)
		return m, tea.Batch(cmd, m.waitForTailError())

	case msg.TailClosedMsg:
		text := "follow stopped"
		if message.Err != nil {
			text += ": " + message.Err.Error()
		}
		cmd := m.setNotice(text, true)
		return m, cmd

	case msg.AttachLoadedMsg:
		m.completeAttachment(message)
		return m, nil

	case msg.CopiedMsg:
		if message.Err != nil {
			m.logger.Warn("copy failed", "error", message.Err)
			cmd := m.setNotice("copy failed: "+message.Err.Error(), true)
			return m, cmd
		}
		cmd := m.setNotice(copiedText(message.Lines), false)
		return m, cmd

	case msg.ClearNoticeMsg:
		if message.Seq == m.noticeSeq {
			m.notice = ""
			m.noticeIsError = false
		}
		return m, nil
	}

	// Anything else (cursor blink) belongs to the composer.
	if m.mode == ModeInsert {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(message)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	visible := m.body.VisibleRows()
	rows := make([]string, len(visible))
	for i, r := range visible {
		rows[i] = r.Text
	}

	var sb strings.Builder
	sb.WriteString(view.RenderPane(rows, m.width, m.paneHeight()))
	if m.mode == ModeInsert {
		sb.WriteString("\n")
		sb.WriteString(m.input.View())
	}
	sb.WriteString("\n")
	sb.WriteString(view.RenderStatusBar(m.statusState()))
	return sb.String()
}

func (m Model) statusState() view.StatusState {
	return view.StatusState{
		Lock:          m.engine.Lock().Kind,
		Offset:        m.body.ScrollTop(),
		ClientHeight:  m.body.ClientHeight(),
		ScrollHeight:  m.body.ScrollHeight(),
		Insert:        m.mode == ModeInsert,
		Polling:       m.engine.Polling(),
		Files:         len(m.files),
		Notice:        m.notice,
		NoticeIsError: m.noticeIsError,
		Width:         m.width,
	}
}

// paneHeight is the number of rows left for content.
func (m Model) paneHeight() int {
	h := m.height - statusBarHeight
	if m.mode == ModeInsert {
		h--
	}
	return max(h, 0)
}

// syncSize resizes the window to the pane and delivers the resize.
func (m *Model) syncSize() {
	m.window.Resize(m.width, m.paneHeight())
	m.input.Width = max(m.width-len(m.input.Prompt)-1, 1)
	m.window.Flush()
}

// advance moves the window clock by the real time since the last tick.
func (m *Model) advance(now time.Time) {
	tick := m.cfg.Scroll.Tick()
	elapsed := tick
	if !m.lastTick.IsZero() {
		elapsed = min(max(now.Sub(m.lastTick), 0), 10*tick)
	}
	m.lastTick = now
	m.window.Advance(elapsed)
	m.window.Flush()
}

// appendLine adds a followed line to the body. Attachment directives become
// images whose load is returned as a command.
func (m *Model) appendLine(line tail.Line) tea.Cmd {
	if line.File != "" {
		m.files[line.File] = struct{}{}
	}

	var cmd tea.Cmd
	if path, ok := attach.ParseDirective(line.Text); ok && m.attachmentsEnabled() {
		cmd = m.appendAttachment(path)
	} else {
		text := line.Text
		if m.cfg.TUI.ShowFileNames && len(m.files) > 1 && line.File != "" {
			text = styles.FileName.Render(line.File) + " " + text
		}
		m.body.AppendChild(m.window.CreateText(text))
	}

	m.trim()
	m.window.Flush()
	return cmd
}

func (m *Model) attachmentsEnabled() bool {
	return m.loader != nil && m.cfg.Attach.Enabled
}

func (m *Model) appendAttachment(path string) tea.Cmd {
	m.attachSeq++
	id := m.attachSeq
	img := m.window.CreateImage(path)
	m.pending[id] = img
	m.body.AppendChild(img)
	return msg.LoadAttachment(m.ctx, m.loader, id, path)
}

// completeAttachment fills in a loaded attachment. Attachments trimmed
// before their load finished are ignored.
func (m *Model) completeAttachment(loaded msg.AttachLoadedMsg) {
	img, ok := m.pending[loaded.ID]
	if !ok {
		return
	}
	delete(m.pending, loaded.ID)
	m.logger.Debug("attachment loaded",
		"path", loaded.Result.Path,
		"rows", loaded.Result.Height,
		"failed", loaded.Result.Err != nil)
	img.CompleteLoad(loaded.Result.Lines)
	m.window.Flush()
}

// trim drops the oldest nodes beyond tui.max_lines.
func (m *Model) trim() {
	limit := m.cfg.TUI.MaxLines
	if limit <= 0 {
		return
	}
	for len(m.body.Children()) > limit {
		oldest := m.body.Children()[0]
		m.body.RemoveChild(oldest)
		for id, img := range m.pending {
			if img == oldest {
				delete(m.pending, id)
			}
		}
	}
}

// appendSent adds a line typed into the composer.
func (m *Model) appendSent(text string) {
	m.body.AppendChild(m.window.CreateText(styles.Sent.Render("you:") + " " + text))
	m.trim()
	m.window.Flush()
}

// visibleText returns the rows in the viewport without styling.
func (m *Model) visibleText() (string, int) {
	rows := m.body.VisibleRows()
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = ansi.Strip(r.Text)
	}
	return strings.Join(lines, "\n"), len(lines)
}

// setNotice shows text in the status bar until NoticeDuration passes.
func (m *Model) setNotice(text string, isError bool) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	m.noticeIsError = isError
	return msg.ClearNoticeAfter(msg.NoticeDuration, m.noticeSeq)
}

// quit detaches the engine, stops the source and ends the program.
func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.engine.Close()
	m.cancel()
	if m.source != nil {
		if err := m.source.Close(); err != nil {
			m.logger.Warn("closing source failed", "error", err)
		}
	}
	return tea.Quit
}

func copiedText(lines int) string {
	if lines == 1 {
		return "copied 1 line"
	}
	return "copied " + strconv.Itoa(lines) + " lines"
}
