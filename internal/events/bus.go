package events

import (
	"sync"

	"github.com/campustransit/campus-bus-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// Topic selects which update kinds a subscription receives. It is either a
// specific models.UpdateKind or TopicAll.
type Topic string

// TopicAll receives every update kind, used by activity feeds and
// notification panels.
const TopicAll Topic = "*"

// KindTopic converts an update kind to its topic
func KindTopic(kind models.UpdateKind) Topic {
	return Topic(kind)
}

// Subscription is a live feed of SystemUpdates for one topic. Updates arrive
// on Events() in publish order. Close stops delivery; no update published
// after Close returns will be observed.
type Subscription struct {
	id    uint64
	topic Topic
	ch    chan models.SystemUpdate
	bus   *Bus
	once  sync.Once
}

// Events returns the channel updates are delivered on. The channel is closed
// when the subscription or the bus is closed.
func (s *Subscription) Events() <-chan models.SystemUpdate {
	return s.ch
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.remove(s)
	})
}

// Bus is an in-process publish/subscribe fan-out for SystemUpdates.
//
// Each subscriber owns a buffered channel; Publish never runs subscriber
// code and never blocks on a slow subscriber. When a subscriber's buffer is
// full the oldest buffered update is dropped to make room, so a stalled
// dashboard loses its own history but cannot delay anyone else or grow
// memory without bound.
type Bus struct {
	mu     sync.Mutex
	subs   map[Topic]map[uint64]*Subscription
	nextID uint64
	buffer int
	closed bool
	logger *logrus.Logger
}

// NewBus creates a new event bus. buffer is the per-subscriber channel
// capacity.
func NewBus(buffer int, logger *logrus.Logger) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{
		subs:   make(map[Topic]map[uint64]*Subscription),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a new subscription for the given topic. Independent
// subscriptions to the same topic each receive every update.
func (b *Bus) Subscribe(topic Topic) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{
		id:    b.nextID,
		topic: topic,
		ch:    make(chan models.SystemUpdate, b.buffer),
		bus:   b,
	}
	b.nextID++

	if b.closed {
		// Subscribing to a closed bus yields a closed, empty stream.
		close(sub.ch)
		return sub
	}

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]*Subscription)
	}
	b.subs[topic][sub.id] = sub

	return sub
}

// Publish delivers the update to every subscriber of its kind and every
// wildcard subscriber. Delivery per subscriber preserves publish order.
// Publishing on a closed bus is a no-op.
func (b *Bus) Publish(update models.SystemUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs[KindTopic(update.Kind)] {
		b.deliver(sub, update)
	}
	for _, sub := range b.subs[TopicAll] {
		b.deliver(sub, update)
	}
}

// deliver sends the update to one subscriber, evicting its oldest buffered
// update when the buffer is full. Caller holds b.mu.
func (b *Bus) deliver(sub *Subscription, update models.SystemUpdate) {
	select {
	case sub.ch <- update:
		return
	default:
	}

	// Buffer full: drop the oldest so the newest always fits.
	select {
	case dropped := <-sub.ch:
		b.logger.WithFields(logrus.Fields{
			"topic":        sub.topic,
			"dropped_kind": dropped.Kind,
		}).Warn("Slow subscriber, dropping oldest buffered update")
	default:
	}

	select {
	case sub.ch <- update:
	default:
	}
}

// remove detaches a subscription and closes its channel
func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	if subs, ok := b.subs[s.topic]; ok {
		if _, ok := subs[s.id]; ok {
			delete(subs, s.id)
			if len(subs) == 0 {
				delete(b.subs, s.topic)
			}
			close(s.ch)
		}
	}
}

// Close shuts down the bus: all subscription channels are closed and
// further publishes are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, subs := range b.subs {
		for _, sub := range subs {
			close(sub.ch)
		}
	}
	b.subs = make(map[Topic]map[uint64]*Subscription)
}
