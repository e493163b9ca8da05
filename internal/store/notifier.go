package store

import "sync"

// notifier is an in-process change broadcaster used by the backends that
// have no native change feed (memory, postgres). Writers signal the
// collection they touched; each subscriber re-resolves its query.
type notifier struct {
	mu   sync.Mutex
	subs map[string]map[int]func()
	next int
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[string]map[int]func())}
}

// subscribe registers fn for change signals on collection and returns an
// unregister func. Unregistering twice is a no-op.
func (n *notifier) subscribe(collection string, fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs[collection] == nil {
		n.subs[collection] = make(map[int]func())
	}
	id := n.next
	n.next++
	n.subs[collection][id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[collection], id)
	}
}

// broadcast signals every subscriber of collection. Callbacks run on the
// writer's goroutine, outside the notifier lock.
func (n *notifier) broadcast(collection string) {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs[collection]))
	for _, fn := range n.subs[collection] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
