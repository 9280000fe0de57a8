// Package feed bridges the synchronous notification collection to
// asynchronous consumers.
//
// A Feed registers as a collection listener and republishes every record
// transition as a typed Event on non-blocking broadcast streams. The
// collection's single processing sequence is never held up by a consumer:
// delivery is best effort, and a subscriber that stops draining its channel
// misses events instead of stalling reconciliation.
//
// # Usage
//
//	f, err := feed.NewFromEnv()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer f.Close()
//
//	c := collection.New(backend, collection.WithListeners(f))
//
//	sub := f.Subscribe(ctx)
//	go func() {
//		for evt := range sub.Receive(ctx) {
//			render(evt)
//		}
//	}()
//
// Consumers interested in one notification group can follow it alone:
//
//	sub := f.SubscribeGroup(ctx, groupKey)
//
// Per-group streams are bounded: the least recently used stream is closed
// once Config.MaxGroupStreams streams exist, ending its subscriptions.
package feed
