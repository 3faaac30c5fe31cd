package dom

import (
	"time"

	"github.com/Iron-Ham/tailpin/internal/event"
	"github.com/Iron-Ham/tailpin/internal/scrolllock"
)

// maxFlushRounds bounds how many times Flush redelivers while handlers keep
// producing new notifications.
const maxFlushRounds = 16

// WindowOptions configures a Window.
type WindowOptions struct {
	Width  int
	Height int
	// PixelRatio is reported to hosts that size tolerances by it (default: 1).
	PixelRatio float64
	// DisableMutationObserver makes the environment report that structural
	// changes cannot be observed, so engines fall back to polling.
	DisableMutationObserver bool
}

// Window owns a node tree with one scrollable body, the notification queues,
// and a virtual clock.
type Window struct {
	width      int
	pixelRatio float64
	noObserver bool

	body          *Container
	layoutVersion uint64

	observers     []*MutationObserver
	loads         []*Node
	resizePending bool
	scrollPending bool

	events *event.Bus

	now     time.Duration
	timers  []*timer
	timerID uint64
}

type timer struct {
	id       uint64
	interval time.Duration
	next     time.Duration
	fn       func()
}

// NewWindow creates a window with an empty body sized to the window.
func NewWindow(opts WindowOptions) *Window {
	if opts.PixelRatio <= 0 {
		opts.PixelRatio = 1
	}
	w := &Window{
		width:      opts.Width,
		pixelRatio: opts.PixelRatio,
		noObserver: opts.DisableMutationObserver,
		events:     event.NewBus(),
	}
	w.body = &Container{
		Node:         &Node{kind: ElementNode, tag: "body", win: w},
		clientHeight: float64(max(opts.Height, 0)),
	}
	return w
}

// Body returns the scrollable body.
func (w *Window) Body() *Container { return w.body }

// Width returns the layout width in columns.
func (w *Window) Width() int { return w.width }

// PixelRatio returns the device pixel ratio.
func (w *Window) PixelRatio() float64 { return w.pixelRatio }

// Events returns the window's listener bus, which carries resize events.
func (w *Window) Events() *event.Bus { return w.events }

// CreateElement creates a detached element.
func (w *Window) CreateElement(tag string) *Node {
	return &Node{kind: ElementNode, tag: tag, win: w}
}

// CreateText creates a detached text node.
func (w *Window) CreateText(text string) *Node {
	return &Node{kind: TextNode, tag: "#text", text: text, win: w}
}

// CreateImage creates a detached image that has not loaded.
func (w *Window) CreateImage(src string) *Node {
	return &Node{kind: ImageNode, tag: "img", text: src, attrs: map[string]string{"src": src}, win: w}
}

// Resize changes the layout width and the body's visible height, and queues
// a resize event when either changed.
func (w *Window) Resize(width, height int) {
	height = max(height, 0)
	if width == w.width && float64(height) == w.body.clientHeight {
		return
	}
	w.width = width
	w.body.clientHeight = float64(height)
	w.invalidate()
	w.resizePending = true
}

// Flush delivers queued notifications: mutation batches, then load events,
// then the resize event, then scroll events. Handlers may cause further
// notifications; those are delivered in following rounds until none remain.
func (w *Window) Flush() {
	for range maxFlushRounds {
		w.body.clamp()
		if !w.deliver() {
			return
		}
	}
}

// Pending reports whether any notification is waiting for Flush.
func (w *Window) Pending() bool {
	if len(w.loads) > 0 || w.resizePending || w.scrollPending {
		return true
	}
	for _, o := range w.observers {
		if len(o.queue) > 0 {
			return true
		}
	}
	return false
}

func (w *Window) deliver() bool {
	delivered := false

	for _, o := range append([]*MutationObserver(nil), w.observers...) {
		if recs := o.TakeRecords(); len(recs) > 0 {
			delivered = true
			o.callback(recs)
		}
	}

	loads := w.loads
	w.loads = nil
	for _, n := range loads {
		delivered = true
		if n.events != nil {
			n.events.Publish(event.NewLoadEvent(n.text, len(n.content)))
		}
	}

	if w.resizePending {
		w.resizePending = false
		delivered = true
		w.events.Publish(event.NewResizeEvent(w.width, int(w.body.clientHeight)))
	}

	// Offset changes within a round coalesce into one scroll event.
	if w.scrollPending {
		w.scrollPending = false
		delivered = true
		w.body.dispatchScroll()
	}

	return delivered
}

func (w *Window) invalidate() {
	w.layoutVersion++
}

func (w *Window) record(n *Node, rec scrolllock.MutationRecord) {
	for _, o := range w.observers {
		if o.wants(n, rec.Type) {
			o.queue = append(o.queue, rec)
		}
	}
}

func (w *Window) queueLoad(n *Node) {
	w.loads = append(w.loads, n)
}

func (w *Window) queueScroll() {
	w.scrollPending = true
}

// Every runs fn each interval of virtual time until the returned function
// is called. Intervals below a millisecond are raised to one.
func (w *Window) Every(interval time.Duration, fn func()) (cancel func()) {
	interval = max(interval, time.Millisecond)
	w.timerID++
	t := &timer{id: w.timerID, interval: interval, next: w.now + interval, fn: fn}
	w.timers = append(w.timers, t)
	return func() { w.cancelTimer(t.id) }
}

func (w *Window) cancelTimer(id uint64) {
	for i, t := range w.timers {
		if t.id == id {
			w.timers = append(w.timers[:i:i], w.timers[i+1:]...)
			return
		}
	}
}

// Advance moves the virtual clock forward by d, firing due timers in time
// order. It does not flush.
func (w *Window) Advance(d time.Duration) {
	deadline := w.now + max(d, 0)
	for {
		var due *timer
		for _, t := range w.timers {
			if t.next <= deadline && (due == nil || t.next < due.next) {
				due = t
			}
		}
		if due == nil {
			break
		}
		w.now = due.next
		due.next += due.interval
		due.fn()
	}
	w.now = deadline
}

// Now returns the virtual time elapsed since the window was created.
func (w *Window) Now() time.Duration { return w.now }
