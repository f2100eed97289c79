package notify

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/louisbranch/mathic/internal/platform/logging"
	"github.com/sirupsen/logrus"
)

// DefaultBuffer is the per-subscriber queue length used when none is set.
const DefaultBuffer = 16

// ErrHubClosed is returned by Subscribe after Close.
var ErrHubClosed = errors.New("notify: hub closed")

// Hub delivers events to in-process subscribers by exact topic.
//
// Delivery never blocks the publisher: a subscriber whose queue is full
// misses the event and the drop is logged.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	closed bool
	log    logrus.FieldLogger
}

// Subscription is one subscriber's queue on a topic.
type Subscription struct {
	topic string
	ch    chan Event
	hub   *Hub
	once  sync.Once

	mu      sync.Mutex
	dropped int
}

// NewHub builds a hub with the given per-subscriber buffer.
func NewHub(buffer int, log logrus.FieldLogger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		log:    log,
	}
}

// Subscribe registers a subscriber for topic.
func (h *Hub) Subscribe(topic string) (*Subscription, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.New("notify: topic is required")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}
	sub := &Subscription{topic: topic, ch: make(chan Event, h.buffer), hub: h}
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*Subscription]struct{})
	}
	h.subs[topic][sub] = struct{}{}
	return sub, nil
}

// Publish implements Notifier.
func (h *Hub) Publish(_ context.Context, events ...Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil
	}
	for _, event := range events {
		for sub := range h.subs[event.Topic] {
			select {
			case sub.ch <- event:
			default:
				sub.recordDrop()
				h.log.WithFields(logrus.Fields{
					"topic":      event.Topic,
					"session_id": event.SessionID,
				}).Warn("subscriber queue full, event dropped")
			}
		}
	}
	return nil
}

// Subscribers reports the number of subscribers on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

// Close ends every subscription. Later publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for topic, subs := range h.subs {
		for sub := range subs {
			sub.once.Do(func() { close(sub.ch) })
		}
		delete(h.subs, topic)
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.subs[sub.topic]
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.subs, sub.topic)
	}
	sub.once.Do(func() { close(sub.ch) })
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() string { return s.topic }

// Events returns the delivery channel. It is closed on Cancel or Hub.Close.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Cancel unsubscribes. It is safe to call more than once.
func (s *Subscription) Cancel() { s.hub.remove(s) }

// Dropped reports how many events this subscriber missed.
func (s *Subscription) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *Subscription) recordDrop() {
	s.mu.Lock()
	s.dropped++
	s.mu.Unlock()
}
