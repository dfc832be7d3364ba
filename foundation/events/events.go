// Package events fans node activity out to websocket subscribers. A
// subscriber that falls behind loses messages rather than slowing the node.
package events

import (
	"fmt"
	"strings"
	"sync"
)

// messageBuffer is how many messages a subscriber can fall behind before
// messages are dropped for it.
const messageBuffer = 100

type subscriber struct {
	ch       chan string
	prefixes []string
}

// wants reports whether the message matches one of the subscriber's
// prefixes. A subscriber without prefixes wants everything.
func (sub subscriber) wants(msg string) bool {
	if len(sub.prefixes) == 0 {
		return true
	}

	for _, prefix := range sub.prefixes {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}

	return false
}

// Events holds the set of subscribers keyed by a unique id.
type Events struct {
	mu     sync.RWMutex
	subs   map[string]subscriber
	closed bool
}

// New constructs an Events with no subscribers.
func New() *Events {
	return &Events{
		subs: make(map[string]subscriber),
	}
}

// Shutdown closes every subscriber channel. Subscribers acquired after
// shutdown get a closed channel.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, sub := range evt.subs {
		delete(evt.subs, id)
		close(sub.ch)
	}

	evt.closed = true
}

// Acquire registers a subscriber under the id and returns the channel its
// messages arrive on. When prefixes are given only messages starting with
// one of them are delivered. Acquiring an existing id returns its channel.
func (evt *Events) Acquire(id string, prefixes ...string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if sub, exists := evt.subs[id]; exists {
		return sub.ch
	}

	ch := make(chan string, messageBuffer)
	if evt.closed {
		close(ch)
		return ch
	}

	evt.subs[id] = subscriber{ch: ch, prefixes: prefixes}
	return ch
}

// Release removes the subscriber and closes its channel.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	sub, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.subs, id)
	close(sub.ch)
	return nil
}

// Len returns the number of subscribers.
func (evt *Events) Len() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.subs)
}

// Send delivers the message to every interested subscriber without
// blocking. It returns how many subscribers received it.
func (evt *Events) Send(msg string) int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	var delivered int
	for _, sub := range evt.subs {
		if !sub.wants(msg) {
			continue
		}

		select {
		case sub.ch <- msg:
			delivered++
		default:
		}
	}

	return delivered
}
