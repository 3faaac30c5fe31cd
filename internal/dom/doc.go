// Package dom is a small in-memory content model that hosts a scroll-lock
// engine. It plays the part a browser plays for a web page: a node tree,
// one scrollable body, batched mutation observation, and scroll, resize and
// load events.
//
// Nothing is delivered while a change is being made. Mutation records,
// load events, resize events and scroll events are queued and handed to
// listeners by [Window.Flush], which the host calls once per turn of its
// event loop. Timers registered through the environment only fire inside
// [Window.Advance]. A Window is therefore not safe for concurrent use; a
// single goroutine owns it.
package dom
