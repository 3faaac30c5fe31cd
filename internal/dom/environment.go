package dom

import (
	"time"

	"github.com/Iron-Ham/tailpin/internal/event"
	"github.com/Iron-Ham/tailpin/internal/scrolllock"
)

// Environment returns the scrolllock.Environment backed by this window.
func (w *Window) Environment() scrolllock.Environment {
	return environment{win: w}
}

type environment struct {
	win *Window
}

var _ scrolllock.Environment = environment{}

func (e environment) Mutations() (scrolllock.MutationObserving, bool) {
	if e.win.noObserver {
		return nil, false
	}
	return mutationFacility{win: e.win}, true
}

func (e environment) OnScroll(target scrolllock.Target, fn func()) (remove func()) {
	c, ok := target.(*Container)
	if !ok {
		return func() {}
	}
	bus := c.Events()
	id := bus.Subscribe(event.TypeScroll, func(event.Event) { fn() })
	return func() { bus.Unsubscribe(id) }
}

func (e environment) OnResize(fn func()) (remove func()) {
	id := e.win.events.Subscribe(event.TypeResize, func(event.Event) { fn() })
	return func() { e.win.events.Unsubscribe(id) }
}

func (e environment) Every(interval time.Duration, fn func()) (cancel func()) {
	return e.win.Every(interval, fn)
}

type mutationFacility struct {
	win *Window
}

// Observe watches the body behind target. Targets from other hosts yield an
// observer that reports nothing.
func (m mutationFacility) Observe(target scrolllock.Target, opts scrolllock.ObserveOptions, fn func([]scrolllock.MutationRecord)) scrolllock.Observer {
	o := m.win.NewMutationObserver(fn)
	if c, ok := target.(*Container); ok {
		o.Observe(c.Root(), opts)
	}
	return o
}
