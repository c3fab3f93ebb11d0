// Package notify fans configuration snapshots out to subscribers.
//
// A subscription names a dotted path prefix. On every published
// snapshot the notifier compares the subtree at that prefix against the
// previous snapshot and emits an event only when it changed. Publish is
// called solely from the reload pipeline, so every subscriber observes
// snapshot versions in non-decreasing order.
package notify

import (
	"sync"

	"github.com/lumeshell/lume/internal/config/store"
)

// Event carries a changed subtree to a subscriber.
type Event struct {
	// Version is the snapshot version the subtree belongs to.
	Version uint64

	// Prefix is the subscription's path prefix.
	Prefix string

	// Value is the new subtree decoded to plain Go values; nil when
	// the prefix no longer holds a value.
	Value any

	// Raw is the canonical JSON of the new subtree.
	Raw string
}

// Subscription is a live registration for change events.
type Subscription struct {
	id       uint64
	prefix   string
	ch       chan Event
	notifier *Notifier
	once     sync.Once
}

// Events returns the subscription's event stream. The channel is
// closed by Cancel.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Prefix returns the subscribed path prefix.
func (s *Subscription) Prefix() string {
	return s.prefix
}

// Cancel removes the subscription and closes its channel.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		n := s.notifier
		n.mu.Lock()
		delete(n.subs, s.id)
		close(s.ch)
		n.mu.Unlock()
	})
}

// Notifier owns the subscription registry.
type Notifier struct {
	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
	buffer int
}

// New creates a notifier. buffer sizes each subscription's channel; a
// subscriber that falls more than buffer events behind misses
// intermediate snapshots but never observes them out of order.
func New(buffer int) *Notifier {
	if buffer < 1 {
		buffer = 1
	}
	return &Notifier{subs: make(map[uint64]*Subscription), buffer: buffer}
}

// Subscribe registers interest in the subtree at prefix. The empty
// prefix subscribes to the whole tree.
func (n *Notifier) Subscribe(prefix string) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	sub := &Subscription{
		id:       n.nextID,
		prefix:   prefix,
		ch:       make(chan Event, n.buffer),
		notifier: n,
	}
	n.subs[sub.id] = sub
	return sub
}

// Publish diffs old against new per subscription and emits events for
// subtrees that actually changed. old may be nil on the first publish.
// Only the reload pipeline calls Publish.
func (n *Notifier) Publish(old, cur *store.Snapshot) {
	// Sends are non-blocking, so delivering under the lock is cheap
	// and rules out racing a Cancel that closes the channel.
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, sub := range n.subs {
		next := cur.Subtree(sub.prefix)
		if old != nil && old.Subtree(sub.prefix).Raw == next.Raw {
			continue
		}
		ev := Event{
			Version: cur.Version(),
			Prefix:  sub.prefix,
			Raw:     next.Raw,
		}
		if next.Exists() || sub.prefix == "" {
			ev.Value = next.Value()
		}
		select {
		case sub.ch <- ev:
		default:
			// Slow subscriber: drop rather than stall the pipeline.
		}
	}
}

// Len returns the number of live subscriptions.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
