// Package broadcast provides a generic non-blocking fan-out primitive for
// delivering values to many subscribers at once.
//
// Delivery is best effort by design: a publisher never blocks on a consumer.
// Each subscriber owns a buffered channel, and a value that arrives while the
// buffer is full is dropped for that subscriber only. Consumers that must not
// miss values should drain their channel promptly or subscribe with a larger
// buffer.
//
// # Basic Usage
//
//	b := broadcast.NewMemoryBroadcaster[string](16)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	go func() {
//		for v := range sub.Receive(ctx) {
//			handle(v)
//		}
//	}()
//
//	b.Broadcast(ctx, "hello")
//
// Subscriptions end when the subscriber is closed, its context is canceled,
// or the broadcaster itself closes; in every case the receive channel is
// closed so range loops terminate cleanly.
package broadcast
