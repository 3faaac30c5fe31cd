package msg

import (
	"time"

	"github.com/Iron-Ham/tailpin/internal/attach"
	"github.com/Iron-Ham/tailpin/internal/tail"
)

// TickMsg is sent periodically to advance the window's timers.
type TickMsg time.Time

// LineMsg carries one line read from a followed file.
type LineMsg struct {
	Line tail.Line
}

// TailErrMsg carries a non-fatal error reported by the tailer.
type TailErrMsg struct {
	Err error
}

// TailClosedMsg signals that the tailer stopped. Err is nil when its
// channels were simply closed.
type TailClosedMsg struct {
	Err error
}

// AttachLoadedMsg is sent when an attachment finished loading.
type AttachLoadedMsg struct {
	// ID identifies the placeholder the attachment belongs to.
	ID     int
	Result attach.Result
}

// CopiedMsg is sent after the visible rows were written to the clipboard.
type CopiedMsg struct {
	Lines int
	Err   error
}

// ClearNoticeMsg clears the status bar notice with the given sequence
// number, unless a newer one replaced it.
type ClearNoticeMsg struct {
	Seq int
}
