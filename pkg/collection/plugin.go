package collection

import "context"

// EndLifetimeExtensionFunc is handed to a LifetimeExtender at registration.
// The extender calls it when it no longer needs to keep the record alive.
// Ending an extension the extender does not hold returns
// ErrExtenderNotActive.
type EndLifetimeExtensionFunc func(extender LifetimeExtender, record *Record) error

// LifetimeExtender can defer physical removal of a record past a removal
// request from the source.
//
// On every removal request the collection queries each registered extender in
// registration order, with no short-circuiting: every extender sees every
// removal, regardless of what earlier extenders answered. The ordered subset
// that returns true holds the record in the collection until all of them have
// ended their extension (or the record is reposted, which cancels them).
type LifetimeExtender interface {
	// Name identifies the extender in logs.
	Name() string

	// SetEndCallback is invoked once, at registration. The extender must
	// keep the callback and call it to end an extension it holds.
	SetEndCallback(end EndLifetimeExtensionFunc)

	// ShouldExtendLifetime reports whether the extender wants to keep the
	// record around despite its removal for the given reason. Called
	// synchronously on the collection's sequence; it must not re-enter the
	// collection for the same record.
	ShouldExtendLifetime(record *Record, reason CancellationReason) bool

	// CancelLifetimeExtension tells the extender its extension was revoked
	// because the record was reposted. The extender must not call the end
	// callback for this record in response.
	CancelLifetimeExtension(record *Record)
}

// EndDismissInterceptionFunc is handed to a DismissInterceptor at
// registration. The interceptor calls it to release an interception it
// holds; stats are used for the outbound dismissal if no interception
// remains. Ending an interception the interceptor does not hold returns
// ErrInterceptorNotActive.
type EndDismissInterceptionFunc func(ctx context.Context, interceptor DismissInterceptor, record *Record, stats DismissedByUserStats) error

// DismissInterceptor can defer forwarding a user dismissal to the backend.
//
// When the user dismisses a record, each registered interceptor is queried in
// registration order, with no short-circuiting. While the ordered subset that
// returned true is non-empty, the dismissal is not forwarded.
type DismissInterceptor interface {
	// Name identifies the interceptor in logs.
	Name() string

	// SetEndCallback is invoked once, at registration.
	SetEndCallback(end EndDismissInterceptionFunc)

	// ShouldInterceptDismissal reports whether the interceptor wants to
	// hold back the outbound dismissal for this record.
	ShouldInterceptDismissal(record *Record) bool

	// CancelDismissInterception tells the interceptor its interception was
	// revoked because the record was reposted.
	CancelDismissInterception(record *Record)
}
