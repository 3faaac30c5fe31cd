// Package scrolllock keeps a scrollable target pinned to its top or bottom
// edge while its content changes size.
//
// The [Engine] owns at most one [Lock] at a time. It listens to the host for
// structural content changes, image loads, resizes and scroll events. On each
// notification it decides whether the target's scroll offset must be forced,
// and where to. [Engine.Reconcile] performs the only write to the offset.
//
// # Lock Policies
//
//   - Bottom: snap to the content height unless the viewport is already at the bottom
//   - Top: snap to 0 unless the viewport is already at the top
//   - FreezeAtCurrent: keep the content that was visible when the lock was set
//     in view by shifting the offset by however much the content grew
//
// # User Scrolls
//
// A scroll the engine did not cause is read as user intent. Scrolling away from
// the bottom releases any lock. Scrolling back to the bottom while unlocked
// engages the bottom lock again. Reaching the top never engages the top lock on
// its own; only [Options.Position] or [Engine.SetScrollLockAtTop] do that.
//
// # Host Collaborators
//
// The engine never touches a concrete UI. It is given a [Target] and an
// [Environment]. The environment reports whether structural-change observation
// is available; when it is not, the engine reconciles on a timer instead.
//
// # Threading
//
// An Engine is not safe for concurrent use. All calls, including the callbacks
// the environment invokes, must happen on the host's single control thread.
package scrolllock
