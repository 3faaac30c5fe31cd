package msg

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/tailpin/internal/attach"
	"github.com/Iron-Ham/tailpin/internal/tail"
)

// NoticeDuration is how long a status bar notice stays visible.
const NoticeDuration = 3 * time.Second

// Tick returns a command that sends a TickMsg after d.
func Tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WaitForLine returns a command that blocks until the next followed line.
// The model issues it again after each LineMsg.
func WaitForLine(lines <-chan tail.Line) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-lines
		if !ok {
			return TailClosedMsg{}
		}
		return LineMsg{Line: line}
	}
}

// WaitForTailError returns a command that blocks until the tailer reports an error.
func WaitForTailError(errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-errs
		if !ok {
			return nil
		}
		return TailErrMsg{Err: err}
	}
}

// LoadAttachment returns a command that reads an attachment off the event
// loop. Rows are left unwrapped; the pane wraps them at its current width.
func LoadAttachment(ctx context.Context, loader *attach.Loader, id int, path string) tea.Cmd {
	return func() tea.Msg {
		return AttachLoadedMsg{ID: id, Result: loader.Load(ctx, path, 0)}
	}
}

// WriteClipboardFunc writes text to the system clipboard.
type WriteClipboardFunc func(text string) error

// SystemClipboard writes to the system clipboard.
var SystemClipboard WriteClipboardFunc = clipboard.WriteAll

// CopyToClipboard returns a command that writes text with write.
func CopyToClipboard(write WriteClipboardFunc, text string, lines int) tea.Cmd {
	return func() tea.Msg {
		if write == nil {
			write = SystemClipboard
		}
		return CopiedMsg{Lines: lines, Err: write(text)}
	}
}

// ClearNoticeAfter returns a command that sends ClearNoticeMsg for seq after d.
func ClearNoticeAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearNoticeMsg{Seq: seq}
	})
}
