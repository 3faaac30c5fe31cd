package scrolllock

import "fmt"

// LockKind identifies a lock policy.
type LockKind int

const (
	// LockNone means no lock is active; reconciliation is a no-op.
	LockNone LockKind = iota
	// LockBottom follows the end of the content.
	LockBottom
	// LockTop pins the viewport to the start of the content.
	LockTop
	// LockFreeze keeps the content visible at lock time in view as content grows.
	LockFreeze
)

// String returns the name of the lock kind.
func (k LockKind) String() string {
	switch k {
	case LockNone:
		return "none"
	case LockBottom:
		return "bottom"
	case LockTop:
		return "top"
	case LockFreeze:
		return "freeze"
	default:
		return "unknown"
	}
}

// Lock is a scroll lock policy. The zero value is no lock.
type Lock struct {
	Kind LockKind
	// AnchorHeight is the content height captured when a freeze lock was set.
	AnchorHeight float64
	// AnchorOffset is the scroll offset captured when a freeze lock was set.
	AnchorOffset float64
}

// BottomLock returns the policy that follows the end of the content.
func BottomLock() Lock { return Lock{Kind: LockBottom} }

// TopLock returns the policy that pins the viewport to offset 0.
func TopLock() Lock { return Lock{Kind: LockTop} }

// FreezeLock returns the policy that compensates for content growth after
// the moment the target had the given height and offset.
func FreezeLock(height, offset float64) Lock {
	return Lock{Kind: LockFreeze, AnchorHeight: height, AnchorOffset: offset}
}

// Active reports whether l is a lock rather than the absence of one.
func (l Lock) Active() bool { return l.Kind != LockNone }

// At returns the offset the lock snaps t to.
func (l Lock) At(t Target) float64 {
	switch l.Kind {
	case LockBottom:
		return t.ScrollHeight()
	case LockFreeze:
		return l.AnchorOffset + (t.ScrollHeight() - l.AnchorHeight)
	default:
		return 0
	}
}

// When reports whether t must be repositioned under this lock. tolerance is
// the at-bottom slack, see [IsAtBottom].
func (l Lock) When(t Target, tolerance float64) bool {
	switch l.Kind {
	case LockBottom:
		return !IsAtBottom(t, tolerance)
	case LockTop:
		return !IsAtTop(t)
	case LockFreeze:
		return true
	default:
		return false
	}
}

// String returns a short description of the lock.
func (l Lock) String() string {
	if l.Kind == LockFreeze {
		return fmt.Sprintf("freeze(height=%g, offset=%g)", l.AnchorHeight, l.AnchorOffset)
	}
	return l.Kind.String()
}

// IsAtBottom reports whether the viewport shows the end of the content.
// Fractional offsets on high-density displays rarely land exactly on the
// edge, so anything closer than tolerance counts.
func IsAtBottom(t Target, tolerance float64) bool {
	return t.ScrollHeight()-(t.ClientHeight()+t.ScrollTop()) < tolerance
}

// IsAtTop reports whether the viewport shows the start of the content.
func IsAtTop(t Target) bool {
	return t.ScrollTop() == 0
}

// Tolerance returns the at-bottom slack for a device pixel ratio: one device
// pixel expressed in layout units. Non-positive ratios are treated as 1.
func Tolerance(pixelRatio float64) float64 {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	return 1 / pixelRatio
}
