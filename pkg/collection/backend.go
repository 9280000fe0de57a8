package collection

import "context"

// ClearRequest is the outbound confirmation of a user dismissal, sent to the
// notification source once no interceptor holds the dismissal back.
type ClearRequest struct {
	Package    string
	Tag        string
	ID         int
	UserID     string
	Key        string
	Surface    DismissalSurface
	Sentiment  DismissalSentiment
	Visibility VisibilityInfo
}

// Backend is the external notification source's dismissal endpoint.
// Forwarding is best effort: errors are logged by the collection, never
// propagated, and the record stays locally dismissed either way.
type Backend interface {
	ClearNotification(ctx context.Context, req ClearRequest) error
}

// NoOpBackend is a Backend that does nothing. Useful for tests or when no
// source round-trip is wired up.
type NoOpBackend struct{}

func (NoOpBackend) ClearNotification(ctx context.Context, req ClearRequest) error { return nil }
