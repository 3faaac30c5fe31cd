package dom

import (
	"math"

	"github.com/Iron-Ham/tailpin/internal/event"
)

// Container is the window's scrollable body. It implements scrolllock.Target.
type Container struct {
	*Node

	scrollTop    float64
	clientHeight float64

	rows        []Row
	rowsVersion uint64
}

// Root returns the body element.
func (c *Container) Root() *Node { return c.Node }

// ScrollTop returns the current scroll offset in rows.
func (c *Container) ScrollTop() float64 { return c.scrollTop }

// ClientHeight returns the visible height in rows.
func (c *Container) ClientHeight() float64 { return c.clientHeight }

// ScrollHeight returns the total content height in rows.
func (c *Container) ScrollHeight() float64 { return float64(len(c.Rows())) }

// MaxScrollTop returns the largest offset SetScrollTop accepts.
func (c *Container) MaxScrollTop() float64 {
	return math.Max(0, c.ScrollHeight()-c.clientHeight)
}

// SetScrollTop moves the viewport. The offset is clamped to
// [0, MaxScrollTop]; a change queues a scroll event for the next Flush
// round. Several changes in one round share one event.
func (c *Container) SetScrollTop(offset float64) {
	offset = math.Max(0, math.Min(offset, c.MaxScrollTop()))
	if offset == c.scrollTop {
		return
	}
	c.scrollTop = offset
	c.win.queueScroll()
}

// ScrollBy moves the viewport by delta rows, the way a key press or wheel
// notch does.
func (c *Container) ScrollBy(delta float64) {
	c.SetScrollTop(c.scrollTop + delta)
}

// Rows returns the laid-out rows of the body at the window width. The slice
// is cached until the next mutation or resize and must not be modified.
func (c *Container) Rows() []Row {
	if c.rows == nil || c.rowsVersion != c.win.layoutVersion {
		c.rows = layoutRows(make([]Row, 0, len(c.rows)), c.Node, c.win.width)
		c.rowsVersion = c.win.layoutVersion
	}
	return c.rows
}

// VisibleRows returns the rows inside the viewport.
func (c *Container) VisibleRows() []Row {
	rows := c.Rows()
	start := int(math.Floor(c.scrollTop))
	end := start + int(math.Ceil(c.clientHeight))
	start = min(max(start, 0), len(rows))
	end = min(max(end, start), len(rows))
	return rows[start:end]
}

// clamp pulls the offset back inside the content after it shrank, the way a
// browser does, queueing a scroll event when it moves.
func (c *Container) clamp() {
	if c.scrollTop > c.MaxScrollTop() {
		c.scrollTop = c.MaxScrollTop()
		c.win.queueScroll()
	}
}

func (c *Container) dispatchScroll() {
	if c.events == nil {
		return
	}
	c.events.Publish(event.NewScrollEvent(c.scrollTop))
}
