// Package broadcast fans messages out to any number of subscribers.
// Publishing never blocks: a subscriber that cannot keep up loses
// messages instead of stalling the publisher.
package broadcast

import "sync"

type Broadcaster struct {
	mutex  sync.RWMutex
	subs   map[chan []byte]struct{}
	buffer int
	closed bool
}

// New creates a broadcaster whose subscriber channels buffer up to
// buffer messages each.
func New(buffer int) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster{
		subs:   make(map[chan []byte]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a new receiver. The returned channel is closed by
// Unsubscribe or Close.
func (b *Broadcaster) Subscribe() <-chan []byte {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	ch := make(chan []byte, b.buffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a receiver and closes its channel.
func (b *Broadcaster) Unsubscribe(ch <-chan []byte) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for sub := range b.subs {
		if sub == ch {
			delete(b.subs, sub)
			close(sub)
			return
		}
	}
}

// Publish delivers msg to every subscriber with room in its buffer and
// reports how many received it.
func (b *Broadcaster) Publish(msg []byte) int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	if b.closed {
		return 0
	}

	delivered := 0
	for sub := range b.subs {
		select {
		case sub <- msg:
			delivered++
		default:
			// subscriber buffer full, drop for this receiver
		}
	}
	return delivered
}

// Close closes all subscriber channels. Further publishes are no-ops
// and further subscriptions get an already-closed channel.
func (b *Broadcaster) Close() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub)
	}
}
