package broadcast

import (
	"context"
	"sync"
)

// MemoryBroadcaster is the in-process Broadcaster. All methods are safe for
// concurrent use.
type MemoryBroadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers map[*subscriber[T]]struct{}
	bufferSize  int
	closed      bool
}

// NewMemoryBroadcaster creates an in-memory broadcaster whose subscribers
// each buffer up to bufferSize undelivered values. A bufferSize below 1 is
// raised to 1 so sends stay non-blocking.
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		subscribers: make(map[*subscriber[T]]struct{}),
		bufferSize:  max(bufferSize, 1),
	}
}

// Subscribe attaches a new subscriber. Canceling ctx detaches it. On a
// closed broadcaster the returned subscriber is already closed.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscriber[T]{
		ch:     make(chan T, b.bufferSize),
		detach: b.remove,
	}
	if b.closed {
		sub.closeChannel()
		return sub
	}
	b.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			_ = sub.Close()
		}()
	}
	return sub
}

// Broadcast delivers v to every attached subscriber without blocking.
// Subscribers whose buffers are full miss this value but stay attached.
func (b *MemoryBroadcaster[T]) Broadcast(ctx context.Context, v T) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}
	for sub := range b.subscribers {
		sub.send(v)
	}
	return nil
}

// SubscriberCount reports how many subscribers are currently attached.
func (b *MemoryBroadcaster[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close shuts the broadcaster down and closes every subscriber. Idempotent.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	for sub := range b.subscribers {
		sub.closeChannel()
	}
	clear(b.subscribers)
	b.mu.Unlock()

	return nil
}

func (b *MemoryBroadcaster[T]) remove(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, sub)
}
