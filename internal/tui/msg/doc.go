// Package msg defines the message types used by the TUI's Bubbletea event loop
// and the command factories that produce them.
//
// Everything that happens off the event loop (followed lines arriving,
// attachments loading, clipboard writes, timer ticks) reaches the model as
// one of these messages. The model is the only code that touches the
// scroll-lock engine and its node tree, so commands here never do.
package msg
