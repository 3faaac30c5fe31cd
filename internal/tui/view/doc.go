// Package view renders the parts of the tailpin screen that do not depend on
// the Bubbletea model: the content pane and the status bar.
//
// Views take plain state structs so they can be tested without a running
// program.
package view
