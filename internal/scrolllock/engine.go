package scrolllock

import (
	"time"

	"github.com/Iron-Ham/tailpin/internal/errors"
	"github.com/Iron-Ham/tailpin/internal/logging"
)

// DefaultInterval is the fallback poll period used when the host cannot
// observe structural changes.
const DefaultInterval = 100 * time.Millisecond

// observeAll is the filter the engine observes its target with.
var observeAll = ObserveOptions{
	ChildList:     true,
	Attributes:    true,
	CharacterData: true,
	Subtree:       true,
}

// Options configures an Engine.
type Options struct {
	// Target is the scrollable region to manage. Required.
	Target Target
	// Env supplies host notifications and timers. Required.
	Env Environment
	// Interval is the fallback poll period (default: DefaultInterval).
	Interval time.Duration
	// Position is the initial placement (default: bottom).
	Position Position
	// PixelRatio is the device pixel ratio used for the at-bottom tolerance (default: 1).
	PixelRatio float64
	// Logger receives debug output for lock transitions (default: discard).
	Logger *logging.Logger
}

// Engine is the scroll-lock state machine attached to one Target.
type Engine struct {
	target    Target
	env       Environment
	tolerance float64
	logger    *logging.Logger

	lock               Lock
	suppressNextScroll bool

	observer      Observer
	cancelPoll    func()
	removeScroll  func()
	removeResize  func()
	pendingImages map[Image]func()
	closed        bool
}

// New attaches an Engine to opts.Target. It applies the initial position,
// subscribes to the environment and reconciles once.
func New(opts Options) (*Engine, error) {
	if opts.Target == nil {
		return nil, errors.NewEngineError("cannot attach", errors.ErrNoTarget)
	}
	if opts.Env == nil {
		return nil, errors.NewEngineError("cannot attach", errors.ErrNoEnvironment)
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}

	e := &Engine{
		target:        opts.Target,
		env:           opts.Env,
		tolerance:     Tolerance(opts.PixelRatio),
		logger:        opts.Logger,
		pendingImages: make(map[Image]func()),
	}

	if offset, ok := opts.Position.Offset(); ok {
		e.target.SetScrollTop(offset)
	} else if opts.Position.kind == positionTop {
		e.SetScrollLockAtTop()
	} else {
		e.SetScrollLockAtBottom()
	}

	e.subscribe(opts.Interval)
	e.Reconcile()

	e.logger.Debug("engine attached",
		"position", opts.Position.String(),
		"polling", e.cancelPoll != nil,
		"lock", e.lock.String())
	return e, nil
}

func (e *Engine) subscribe(interval time.Duration) {
	if mo, ok := e.env.Mutations(); ok {
		e.observer = mo.Observe(e.target, observeAll, e.handleMutations)
	} else {
		e.cancelPoll = e.env.Every(interval, e.handlePoll)
	}
	e.removeScroll = e.env.OnScroll(e.target, e.handleScroll)
	e.removeResize = e.env.OnResize(e.handleResize)
}

// SetLock replaces the active lock. Passing the zero Lock clears it.
func (e *Engine) SetLock(l Lock) {
	e.lock = l
}

// Lock returns the active lock; the zero Lock when unlocked.
func (e *Engine) Lock() Lock {
	return e.lock
}

// SetScrollLockAtBottom locks to the bottom and repositions immediately.
func (e *Engine) SetScrollLockAtBottom() {
	e.SetLock(BottomLock())
	e.Reconcile()
}

// SetScrollLockAtTop locks to the top and repositions immediately.
func (e *Engine) SetScrollLockAtTop() {
	e.SetLock(TopLock())
	e.Reconcile()
}

// SetScrollLockAtCurrentPosition keeps the current view stable against
// content growth from now on. It does not reposition.
func (e *Engine) SetScrollLockAtCurrentPosition() {
	e.SetLock(FreezeLock(e.target.ScrollHeight(), e.target.ScrollTop()))
}

// RemoveScrollLock clears the active lock.
func (e *Engine) RemoveScrollLock() {
	e.SetLock(Lock{})
}

// IsScrollLocked reports whether a lock is active.
func (e *Engine) IsScrollLocked() bool {
	return e.lock.Active()
}

// Polling reports whether the engine fell back to timed reconciliation.
func (e *Engine) Polling() bool {
	return e.cancelPoll != nil
}

// ShouldReposition reports whether the next Reconcile would write the offset.
func (e *Engine) ShouldReposition() bool {
	return e.lock.Active() && e.lock.When(e.target, e.tolerance)
}

// Reconcile writes the active lock's offset to the target when the lock asks
// for it. This is the only place the engine moves the viewport.
func (e *Engine) Reconcile() {
	if e.closed || !e.ShouldReposition() {
		return
	}
	before := e.target.ScrollTop()
	at := e.lock.At(e.target)

	armed := e.suppressNextScroll
	e.suppressNextScroll = true
	e.target.SetScrollTop(at)

	// An unchanged offset produces no scroll notification of its own. A flag
	// armed by an earlier write is still waiting for that write's event.
	if e.target.ScrollTop() == before {
		e.suppressNextScroll = armed
	}
}

// Close detaches the engine from every host notification. It is safe to call
// more than once and from inside an engine callback.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true

	if e.observer != nil {
		e.observer.Disconnect()
		e.observer = nil
	}
	if e.cancelPoll != nil {
		e.cancelPoll()
		e.cancelPoll = nil
	}
	if e.removeScroll != nil {
		e.removeScroll()
		e.removeScroll = nil
	}
	if e.removeResize != nil {
		e.removeResize()
		e.removeResize = nil
	}
	for img, remove := range e.pendingImages {
		remove()
		delete(e.pendingImages, img)
	}

	e.logger.Debug("engine closed")
}

func (e *Engine) handleScroll() {
	if e.closed {
		return
	}
	if e.suppressNextScroll {
		e.suppressNextScroll = false
		return
	}

	atBottom := IsAtBottom(e.target, e.tolerance)
	switch {
	case atBottom && !e.IsScrollLocked():
		e.logger.Debug("user reached bottom, following")
		e.SetScrollLockAtBottom()
	case !atBottom && e.IsScrollLocked():
		e.logger.Debug("user scrolled away, releasing lock", "lock", e.lock.String())
		e.RemoveScrollLock()
	}
}

func (e *Engine) handleMutations(records []MutationRecord) {
	if e.closed {
		return
	}
	e.Reconcile()

	for _, rec := range records {
		for _, n := range rec.RemovedNodes {
			if img, ok := n.AsImage(); ok {
				e.unwatchImage(img)
			}
			for _, img := range n.Images() {
				e.unwatchImage(img)
			}
		}
		if rec.Target != nil {
			if img, ok := rec.Target.AsImage(); ok {
				e.watchImage(img)
			}
		}
		for _, n := range rec.AddedNodes {
			if img, ok := n.AsImage(); ok {
				e.watchImage(img)
			}
			for _, img := range n.Images() {
				e.watchImage(img)
			}
		}
	}
}

// watchImage reconciles once when img finishes loading. An image already
// being watched is not watched twice.
func (e *Engine) watchImage(img Image) {
	if img.Complete() {
		return
	}
	if _, watching := e.pendingImages[img]; watching {
		return
	}
	e.pendingImages[img] = img.OnLoad(func() {
		remove, watching := e.pendingImages[img]
		if !watching || e.closed {
			return
		}
		delete(e.pendingImages, img)
		remove()
		e.Reconcile()
	})
}

// unwatchImage drops the load listener of an image that left the target
// before it finished loading.
func (e *Engine) unwatchImage(img Image) {
	if remove, watching := e.pendingImages[img]; watching {
		delete(e.pendingImages, img)
		remove()
	}
}

func (e *Engine) handleResize() {
	if e.closed {
		return
	}
	e.Reconcile()
}

func (e *Engine) handlePoll() {
	if e.closed {
		return
	}
	e.Reconcile()
}
