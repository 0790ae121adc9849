package surface

import (
	"log/slog"
	"strings"
	"sync"
)

const defaultSubscriberCapacity = 1

// Bus fans named events out to their current subscribers. Emitting never
// blocks: a subscriber whose buffer is full misses the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
	logger      *slog.Logger
}

// NewBus creates an empty Bus. A nil logger falls back to slog.Default().
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: map[string]map[*subscriber]struct{}{},
		logger:      logger,
	}
}

// Subscription is an active listener on one event name.
type Subscription struct {
	sub    *subscriber
	cancel func()
}

// Events returns the channel payloads are delivered on. It is closed by
// Close.
func (s *Subscription) Events() <-chan []byte {
	return s.sub.ch
}

// Close unregisters the listener. It is safe to call more than once.
func (s *Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Subscribe registers a listener for name with a buffer of capacity
// payloads. A capacity of one gives first-payload-wins semantics.
func (b *Bus) Subscribe(name string, capacity int) *Subscription {
	key := normalizeName(name)
	sub := newSubscriber(capacity)
	b.mu.Lock()
	if b.subscribers[key] == nil {
		b.subscribers[key] = map[*subscriber]struct{}{}
	}
	b.subscribers[key][sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return &Subscription{
		sub: sub,
		cancel: func() {
			once.Do(func() { b.removeSubscriber(key, sub) })
		},
	}
}

// Emit delivers payload to every subscriber of name and reports how many
// accepted it.
func (b *Bus) Emit(name string, payload []byte) int {
	key := normalizeName(name)
	b.mu.RLock()
	subs := make([]*subscriber, 0, len(b.subscribers[key]))
	for sub := range b.subscribers[key] {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		if sub.deliver(payload) {
			delivered++
		} else {
			b.logger.Debug("event dropped", "event", key, "reason", "subscriber full or closed")
		}
	}
	return delivered
}

// Subscribers reports the number of live listeners for name.
func (b *Bus) Subscribers(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[normalizeName(name)])
}

func (b *Bus) removeSubscriber(key string, sub *subscriber) {
	b.mu.Lock()
	if subs := b.subscribers[key]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(b.subscribers, key)
		}
	}
	b.mu.Unlock()
	sub.close()
}

func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

type subscriber struct {
	ch     chan []byte
	mu     sync.Mutex
	closed bool
}

func newSubscriber(capacity int) *subscriber {
	if capacity <= 0 {
		capacity = defaultSubscriberCapacity
	}
	return &subscriber{ch: make(chan []byte, capacity)}
}

// deliver holds mu across the send so close cannot race it.
func (s *subscriber) deliver(payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- payload:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
