package dom

import "github.com/Iron-Ham/tailpin/internal/scrolllock"

// observation is one Observe call: a node and the changes wanted from it.
type observation struct {
	node *Node
	opts scrolllock.ObserveOptions
}

// MutationObserver batches mutation records for the nodes it observes and
// hands them to its callback at the next Flush.
type MutationObserver struct {
	win      *Window
	callback func([]scrolllock.MutationRecord)
	targets  []observation
	queue    []scrolllock.MutationRecord
}

// NewMutationObserver creates an observer that is not yet observing anything.
func (w *Window) NewMutationObserver(callback func([]scrolllock.MutationRecord)) *MutationObserver {
	return &MutationObserver{win: w, callback: callback}
}

// Observe starts reporting changes to node selected by opts. Observing the
// same node again replaces its options.
func (o *MutationObserver) Observe(node *Node, opts scrolllock.ObserveOptions) {
	for i := range o.targets {
		if o.targets[i].node == node {
			o.targets[i].opts = opts
			return
		}
	}
	if len(o.targets) == 0 {
		o.win.observers = append(o.win.observers, o)
	}
	o.targets = append(o.targets, observation{node: node, opts: opts})
}

// Disconnect stops all observation and drops records not yet delivered.
func (o *MutationObserver) Disconnect() {
	o.targets = nil
	o.queue = nil
	observers := o.win.observers[:0:0]
	for _, other := range o.win.observers {
		if other != o {
			observers = append(observers, other)
		}
	}
	o.win.observers = observers
}

// TakeRecords returns and clears the undelivered records.
func (o *MutationObserver) TakeRecords() []scrolllock.MutationRecord {
	recs := o.queue
	o.queue = nil
	return recs
}

func (o *MutationObserver) wants(n *Node, t scrolllock.MutationType) bool {
	for _, obs := range o.targets {
		if obs.node != n && !(obs.opts.Subtree && obs.node.contains(n)) {
			continue
		}
		switch t {
		case scrolllock.MutationChildList:
			if obs.opts.ChildList {
				return true
			}
		case scrolllock.MutationAttributes:
			if obs.opts.Attributes {
				return true
			}
		case scrolllock.MutationCharacterData:
			if obs.opts.CharacterData {
				return true
			}
		}
	}
	return false
}
