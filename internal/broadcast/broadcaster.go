// Package broadcast fans committed alert mutations out to live subscribers.
package broadcast

import (
	"sync"
	"sync/atomic"

	"github.com/mr1hm/go-crisis-alerts/internal/metrics"
	"github.com/mr1hm/go-crisis-alerts/internal/models"
)

const subscriberBuffer = 100

type Broadcaster struct {
	subscribers map[uint64]chan models.AlertEvent
	nextID      atomic.Uint64
	mu          sync.RWMutex
	closed      bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan models.AlertEvent),
	}
}

// Subscribe registers a new subscriber. After Close it returns an already
// closed channel.
func (b *Broadcaster) Subscribe() (uint64, chan models.AlertEvent) {
	id := b.nextID.Add(1)
	ch := make(chan models.AlertEvent, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return id, ch
	}
	b.subscribers[id] = ch
	b.mu.Unlock()

	metrics.StreamSubscribers.Inc()
	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
		metrics.StreamSubscribers.Dec()
	}
	b.mu.Unlock()
}

// Publish delivers ev to every subscriber without blocking. Subscribers
// with a full buffer miss the event.
func (b *Broadcaster) Publish(ev models.AlertEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels, causing streams to exit gracefully
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
		metrics.StreamSubscribers.Dec()
	}
}
