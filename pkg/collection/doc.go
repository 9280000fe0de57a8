// Package collection reconciles a stream of asynchronous notification events
// (post, batch post, ranking update, remove) from an external source into a
// single authoritative set of active notification records.
//
// The package is transport-agnostic: delivery of events into the collection
// and rendering of the resulting set are the caller's business. What the
// package owns is the hard middle: ordered event application, the lifetime
// extension and dismiss interception plugin protocols, and the
// summary/children dismissal cascade that has to survive arbitrary
// interleavings of the above.
//
// # Architecture
//
//   - Collection: the coordinator; exclusive owner of all Records.
//   - LifetimeExtender plugins: may defer physical removal of a record past
//     a removal request, until every claim is released.
//   - DismissInterceptor plugins: may defer forwarding a user dismissal to
//     the Backend, until every claim is released.
//   - Listener / BuildListener: synchronous lifecycle callbacks plus exactly
//     one build call per externally observed batch.
//
// # Basic Usage
//
//	coll := collection.New(backend,
//	    collection.WithLogger(log),
//	    collection.WithBuildListener(collection.BuildListenerFunc(render)),
//	)
//	coll.AddLifetimeExtender(mediaExtender)
//	coll.AddDismissInterceptor(undoInterceptor)
//
//	// Feed source events:
//	coll.PostNotification(key, notif, ranking)
//	coll.UpdateRanking(rankings)
//	if err := coll.RemoveNotification(key, collection.ReasonAppCancel); err != nil { ... }
//
//	// User-initiated dismissal:
//	if err := coll.Dismiss(ctx, rec, stats); err != nil { ... }
//
// # Plugin protocol
//
// On removal, every registered LifetimeExtender is asked ShouldExtendLifetime
// in registration order, with no short-circuiting; the ordered subset that
// answers true holds the record. A partial expiry only shrinks the active
// list; when the last claim ends, all extenders are re-queried fresh before
// the removal is finalized. Dismiss interception works the same way for user
// dismissals, except each released claim triggers an immediate fresh
// re-query. Both protocols are load-bearing behavior, not implementation
// detail.
//
// # Concurrency
//
// The collection is deliberately single-sequence and lock-free: operations
// and plugin callbacks must run one at a time. A plugin that synchronously
// re-enters the collection for a record already mid-mutation trips a fatal
// reentrancy panic carrying ErrReentrantCall.
package collection
