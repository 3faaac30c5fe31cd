package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/tailpin/internal/tui/msg"
)

// wheelStep is how many rows one wheel notch scrolls.
const wheelStep = 3

// handleKeypress processes keyboard input in navigate mode. Scrolling keys
// move the viewport the way a user would; the engine decides from the
// resulting scroll event whether a lock is released or engaged.
func (m Model) handleKeypress(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c":
		cmd := m.quit()
		return m, cmd

	case "j", "down":
		m.body.ScrollBy(1)
	case "k", "up":
		m.body.ScrollBy(-1)
	case "pgdown", " ", "ctrl+f":
		m.body.ScrollBy(max(m.body.ClientHeight(), 1))
	case "pgup", "ctrl+b":
		m.body.ScrollBy(-max(m.body.ClientHeight(), 1))
	case "g", "home":
		m.body.SetScrollTop(0)
	case "G", "end":
		m.body.SetScrollTop(m.body.ScrollHeight())

	// Lock commands
	case "b":
		m.engine.SetScrollLockAtBottom()
	case "t":
		m.engine.SetScrollLockAtTop()
	case "f":
		m.engine.SetScrollLockAtCurrentPosition()
	case "u":
		m.engine.RemoveScrollLock()

	case "y":
		text, lines := m.visibleText()
		if lines == 0 {
			cmd := m.setNotice("nothing to copy", false)
			return m, cmd
		}
		return m, msg.CopyToClipboard(m.clipboard, text, lines)

	case "i":
		m.mode = ModeInsert
		m.input.Focus()
		m.syncSize()
		return m, textinput.Blink

	default:
		return m, nil
	}

	m.window.Flush()
	return m, nil
}

// handleInsertKey processes keyboard input while the composer has focus.
func (m Model) handleInsertKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyCtrlC:
		cmd := m.quit()
		return m, cmd

	case tea.KeyEsc:
		m.mode = ModeNavigate
		m.input.Blur()
		m.syncSize()
		return m, nil

	case tea.KeyEnter:
		if text := strings.TrimSpace(m.input.Value()); text != "" {
			m.appendSent(text)
		}
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// handleMouse turns wheel notches into user scrolls.
func (m Model) handleMouse(mouse tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.cfg.TUI.Mouse || mouse.Action != tea.MouseActionPress {
		return m, nil
	}
	switch mouse.Button {
	case tea.MouseButtonWheelUp:
		m.body.ScrollBy(-wheelStep)
	case tea.MouseButtonWheelDown:
		m.body.ScrollBy(wheelStep)
	default:
		return m, nil
	}
	m.window.Flush()
	return m, nil
}
