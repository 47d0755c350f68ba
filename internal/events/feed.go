package events

import (
	"sync"

	"github.com/campustransit/campus-bus-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// ActivityFeed keeps the most recent SystemUpdates for the notification UI.
// It subscribes to the wildcard topic and appends every update to a bounded
// ring, evicting the oldest entry when full. The feed never re-publishes.
type ActivityFeed struct {
	mu       sync.RWMutex
	entries  []models.SystemUpdate
	start    int
	count    int
	capacity int

	sub    *Subscription
	done   chan struct{}
	logger *logrus.Logger
}

// NewActivityFeed creates a feed of the given capacity and starts consuming
// from the bus. Call Stop to detach.
func NewActivityFeed(bus *Bus, capacity int, logger *logrus.Logger) *ActivityFeed {
	if capacity <= 0 {
		capacity = 50
	}

	f := &ActivityFeed{
		entries:  make([]models.SystemUpdate, capacity),
		capacity: capacity,
		sub:      bus.Subscribe(TopicAll),
		done:     make(chan struct{}),
		logger:   logger,
	}

	go f.consume()

	return f
}

// consume drains the wildcard subscription into the ring
func (f *ActivityFeed) consume() {
	defer close(f.done)

	for update := range f.sub.Events() {
		f.append(update)
	}
}

// append adds one update, evicting the oldest when the ring is full
func (f *ActivityFeed) append(update models.SystemUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.count < f.capacity {
		f.entries[(f.start+f.count)%f.capacity] = update
		f.count++
		return
	}

	f.entries[f.start] = update
	f.start = (f.start + 1) % f.capacity
}

// Recent returns a snapshot of the feed, most recent first
func (f *ActivityFeed) Recent() []models.SystemUpdate {
	f.mu.RLock()
	defer f.mu.RUnlock()

	snapshot := make([]models.SystemUpdate, f.count)
	for i := 0; i < f.count; i++ {
		// Newest entry sits at start+count-1.
		snapshot[i] = f.entries[(f.start+f.count-1-i)%f.capacity]
	}

	return snapshot
}

// Len returns the number of entries currently held
func (f *ActivityFeed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.count
}

// Stop unsubscribes from the bus and waits for the consumer to drain
func (f *ActivityFeed) Stop() {
	f.sub.Close()
	<-f.done
}
