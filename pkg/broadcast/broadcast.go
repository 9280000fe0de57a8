package broadcast

import (
	"context"
	"sync"
)

// Subscriber receives values fanned out by a Broadcaster.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the channel delivering broadcast values. The channel
	// is closed when the subscriber or its broadcaster closes. The context
	// is unused by the in-memory implementation but kept so adapters backed
	// by external transports can respect cancellation.
	Receive(ctx context.Context) <-chan T

	// Close detaches the subscriber and closes its channel. Idempotent.
	Close() error
}

// Broadcaster fans values out to any number of subscribers. Delivery is
// best effort: a subscriber whose buffer is full misses the value rather
// than stalling the publisher.
type Broadcaster[T any] interface {
	// Subscribe attaches a new subscriber. The subscription is torn down
	// when ctx is canceled or the subscriber is closed.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast delivers v to every attached subscriber. Returns ErrClosed
	// after Close.
	Broadcast(ctx context.Context, v T) error

	// Close shuts the broadcaster down and closes every subscriber.
	Close() error
}

type subscriber[T any] struct {
	ch     chan T
	mu     sync.RWMutex
	closed bool
	detach func(*subscriber[T])
}

func (s *subscriber[T]) Receive(ctx context.Context) <-chan T { return s.ch }

func (s *subscriber[T]) Close() error {
	if s.detach != nil {
		s.detach(s)
	}
	s.closeChannel()
	return nil
}

func (s *subscriber[T]) closeChannel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}

// send delivers without blocking. Reports false when the value was dropped
// because the subscriber is closed or its buffer is full.
func (s *subscriber[T]) send(v T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- v:
		return true
	default:
		return false
	}
}
