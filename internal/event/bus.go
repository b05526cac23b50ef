package event

import (
	"context"
	"sync"
)

// Sink consumes domain events. Implementations must not block longer than
// they are willing to delay every later publisher: Publish is synchronous.
type Sink interface {
	Consume(ctx context.Context, e DomainEvent)
}

// Publisher is the write side of the bus, what the mutation services hold.
type Publisher interface {
	Publish(ctx context.Context, e DomainEvent)
}

// Bus is the in-process publish point between the mutation services and
// the broadcast hub. Delivery is synchronous and in publish order; there
// is no persistence and no replay, so a sink subscribed after an event was
// published never sees that event.
type Bus struct {
	mu    sync.Mutex
	sinks []Sink
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe appends a sink. Sinks registered first are delivered to first.
func (b *Bus) Subscribe(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

// Publish delivers e to every sink, in subscription order, before
// returning. The mutex makes concurrent publishes totally ordered as seen
// by every sink.
func (b *Bus) Publish(ctx context.Context, e DomainEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.sinks {
		s.Consume(ctx, e)
	}
}
