package dom

import (
	"github.com/Iron-Ham/tailpin/internal/event"
	"github.com/Iron-Ham/tailpin/internal/scrolllock"
)

// NodeKind identifies what a node is.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
	ImageNode
)

// Node is an element, a run of text, or an image.
type Node struct {
	kind     NodeKind
	tag      string
	attrs    map[string]string
	text     string
	children []*Node
	parent   *Node
	win      *Window

	// Image state. content is nil until the image completes loading.
	content  []string
	complete bool

	events *event.Bus
}

// Kind returns the node kind.
func (n *Node) Kind() NodeKind { return n.kind }

// Tag returns the element tag, "#text" for text and "img" for images.
func (n *Node) Tag() string { return n.tag }

// Text returns the node's text. For images it is the source.
func (n *Node) Text() string { return n.text }

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Attribute returns the value of an attribute.
func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// SetAttribute sets an attribute. Setting "src" on an image restarts its load.
func (n *Node) SetAttribute(name, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	if n.kind == ImageNode && name == "src" {
		n.text = value
		n.content = nil
		n.complete = false
	}
	n.win.invalidate()
	n.win.record(n, scrolllock.MutationRecord{
		Type:          scrolllock.MutationAttributes,
		Target:        n,
		AttributeName: name,
	})
}

// SetText replaces the text of a text node.
func (n *Node) SetText(text string) {
	if n.kind != TextNode || n.text == text {
		return
	}
	n.text = text
	n.win.invalidate()
	n.win.record(n, scrolllock.MutationRecord{
		Type:   scrolllock.MutationCharacterData,
		Target: n,
	})
}

// AppendChild adds child as the last child of n, detaching it from any
// previous parent first.
func (n *Node) AppendChild(child *Node) {
	n.InsertBefore(child, nil)
}

// InsertBefore adds child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) {
	if child == nil || child == n || child.contains(n) {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}

	idx := len(n.children)
	if ref != nil {
		for i, c := range n.children {
			if c == ref {
				idx = i
				break
			}
		}
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
	child.parent = n

	n.win.invalidate()
	n.win.record(n, scrolllock.MutationRecord{
		Type:       scrolllock.MutationChildList,
		Target:     n,
		AddedNodes: []scrolllock.Node{child},
	})
}

// RemoveChild detaches child from n. It returns false if child is not a child of n.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.children {
		if c != child {
			continue
		}
		n.children = append(n.children[:i:i], n.children[i+1:]...)
		child.parent = nil
		n.win.invalidate()
		n.win.record(n, scrolllock.MutationRecord{
			Type:         scrolllock.MutationChildList,
			Target:       n,
			RemovedNodes: []scrolllock.Node{child},
		})
		return true
	}
	return false
}

// contains reports whether other is n or one of its descendants.
func (n *Node) contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Events returns the node's listener bus.
func (n *Node) Events() *event.Bus {
	if n.events == nil {
		n.events = event.NewBus()
	}
	return n.events
}

// AsImage implements scrolllock.Node.
func (n *Node) AsImage() (scrolllock.Image, bool) {
	if n.kind != ImageNode {
		return nil, false
	}
	return n, true
}

// Images implements scrolllock.Node.
func (n *Node) Images() []scrolllock.Image {
	var out []scrolllock.Image
	var walk func(*Node)
	walk = func(p *Node) {
		for _, c := range p.children {
			if c.kind == ImageNode {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// Complete implements scrolllock.Image.
func (n *Node) Complete() bool { return n.complete }

// OnLoad implements scrolllock.Image.
func (n *Node) OnLoad(fn func()) (remove func()) {
	bus := n.Events()
	id := bus.Subscribe(event.TypeLoad, func(event.Event) { fn() })
	return func() { bus.Unsubscribe(id) }
}

// CompleteLoad finishes loading an image with the given content lines and
// queues a load event. Calling it again replaces the content and queues
// another load event.
func (n *Node) CompleteLoad(lines []string) {
	if n.kind != ImageNode {
		return
	}
	n.content = append([]string(nil), lines...)
	n.complete = true
	n.win.invalidate()
	n.win.queueLoad(n)
}
