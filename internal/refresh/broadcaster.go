package refresh

import (
	"context"
	"sync"
)

// Topic identifies which entity collection changed.
type Topic string

// Topics published after successful mutations.
const (
	TopicOwners  Topic = "owners"
	TopicCars    Topic = "cars"
	TopicRepairs Topic = "repairs"
)

// Subscriber receives change notifications for a topic.
// Refresh is expected to reload any derived state from the store.
type Subscriber interface {
	Refresh(ctx context.Context) error
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(ctx context.Context) error

// Refresh calls f.
func (f SubscriberFunc) Refresh(ctx context.Context) error { return f(ctx) }

// Logger defines the logging interface used by the Broadcaster.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Broadcaster is a synchronous publish/subscribe registry.
//
// Publish calls every subscriber's refresh hook before returning, in
// registration order. Mutators call Publish only after the store write
// succeeds, so subscribers always observe the post-mutation state.
//
// All methods are safe for concurrent use, although the system runs a
// single interactive session at a time.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[Topic][]Subscriber
	logger Logger
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs:   make(map[Topic][]Subscriber),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the broadcaster.
func (b *Broadcaster) SetLogger(logger Logger) {
	b.logger = logger
}

// Subscribe registers a subscriber for a topic.
func (b *Broadcaster) Subscribe(topic Topic, s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], s)
}

// SubscribeFunc registers a refresh function for a topic.
func (b *Broadcaster) SubscribeFunc(topic Topic, f func(ctx context.Context) error) {
	b.Subscribe(topic, SubscriberFunc(f))
}

// Publish notifies every subscriber of the topic, synchronously.
//
// A failing subscriber does not stop fan-out: its error is logged and the
// remaining subscribers are still notified. A subscriber that fails to
// refresh is stale until the next successful reload, which matches the
// single-session staleness model documented in the design.
func (b *Broadcaster) Publish(ctx context.Context, topic Topic) {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.Refresh(ctx); err != nil {
			b.logger.Error("subscriber refresh failed", "topic", string(topic), "error", err)
		}
	}
	b.logger.Debug("broadcast complete", "topic", string(topic), "subscribers", len(subs))
}

// SubscriberCount returns the number of subscribers for a topic.
func (b *Broadcaster) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
