package scrolllock

import "time"

// Target is the scrollable region under management. The engine reads its
// geometry and writes its scroll offset; it never creates or destroys it.
//
// A SetScrollTop that changes the offset must cause exactly one later scroll
// notification through [Environment.OnScroll]. A SetScrollTop that leaves the
// offset unchanged must cause none.
type Target interface {
	ScrollTop() float64
	SetScrollTop(offset float64)
	ClientHeight() float64
	ScrollHeight() float64
}

// Node is a content node reported by a mutation record.
type Node interface {
	// AsImage returns the node as an Image when it is one.
	AsImage() (Image, bool)
	// Images returns the image descendants of the node, not including itself.
	Images() []Image
}

// Image is a node whose height is only known once its content has loaded.
// Implementations must be comparable (typically a pointer).
type Image interface {
	// Complete reports whether the image has already finished loading.
	Complete() bool
	// OnLoad registers fn to run when loading completes and returns a
	// function that removes the registration.
	OnLoad(fn func()) (remove func())
}

// MutationType identifies the kind of structural change.
type MutationType int

const (
	MutationChildList MutationType = iota
	MutationAttributes
	MutationCharacterData
)

// String returns the name of the mutation type.
func (t MutationType) String() string {
	switch t {
	case MutationChildList:
		return "childList"
	case MutationAttributes:
		return "attributes"
	case MutationCharacterData:
		return "characterData"
	default:
		return "unknown"
	}
}

// MutationRecord describes one structural change in the observed subtree.
type MutationRecord struct {
	Type          MutationType
	Target        Node
	AddedNodes    []Node
	RemovedNodes  []Node
	AttributeName string
}

// ObserveOptions selects which changes an observer reports.
type ObserveOptions struct {
	ChildList     bool
	Attributes    bool
	CharacterData bool
	Subtree       bool
}

// Observer is a live structural-change subscription.
type Observer interface {
	Disconnect()
}

// MutationObserving is the host's structural-change facility. Records are
// delivered in batches, some time after the changes they describe.
type MutationObserving interface {
	Observe(target Target, opts ObserveOptions, fn func([]MutationRecord)) Observer
}

// Environment supplies the host notifications the engine consumes.
type Environment interface {
	// Mutations returns the structural-change facility, or false when the
	// host cannot observe structural changes.
	Mutations() (MutationObserving, bool)
	// OnScroll registers fn for scroll notifications on target.
	OnScroll(target Target, fn func()) (remove func())
	// OnResize registers fn for viewport resize notifications.
	OnResize(fn func()) (remove func())
	// Every runs fn every interval on the host's control thread until cancelled.
	Every(interval time.Duration, fn func()) (cancel func())
}
