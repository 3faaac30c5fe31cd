// Package event provides a synchronous pub-sub bus and the event types that
// the dom host dispatches: scroll, resize and load.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous dispatcher, one per listening node
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Dispatch Semantics
//
// Handlers run synchronously, in registration order, on the goroutine that
// calls [Bus.Publish]. A handler unsubscribed while an event is being
// dispatched is skipped for that event, so a listener that detaches itself or
// a sibling during dispatch never sees a notification after detaching. A
// panicking handler is recovered and does not stop delivery to the others.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	id := bus.Subscribe(event.TypeScroll, func(e event.Event) {
//	    s := e.(event.ScrollEvent)
//	    log.Printf("scrolled to %v", s.ScrollTop)
//	})
//
//	bus.Publish(event.NewScrollEvent(42))
//	bus.Unsubscribe(id)
package event
