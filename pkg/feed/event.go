package feed

import "github.com/notifkit/notifkit/pkg/collection"

// EventType distinguishes the lifecycle transitions a Feed publishes.
type EventType int

const (
	EventAdded EventType = iota
	EventUpdated
	EventRemoved
)

func (t EventType) String() string {
	switch t {
	case EventAdded:
		return "added"
	case EventUpdated:
		return "updated"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is a point-in-time snapshot of one record transition. Snapshotting
// at publish time keeps subscribers off the live record, which only the
// collection's own sequence may touch.
type Event struct {
	Type         EventType                     `json:"type"`
	Key          string                        `json:"key"`
	GroupKey     string                        `json:"group_key,omitempty"`
	Notification collection.Notification       `json:"notification"`
	Ranking      collection.Ranking            `json:"ranking"`
	DismissState collection.DismissState       `json:"dismiss_state"`
	Reason       collection.CancellationReason `json:"reason,omitempty"`
}

func snapshot(t EventType, rec *collection.Record, reason collection.CancellationReason) Event {
	return Event{
		Type:         t,
		Key:          rec.Key(),
		GroupKey:     rec.GroupKey(),
		Notification: rec.Notification(),
		Ranking:      rec.Ranking(),
		DismissState: rec.DismissState(),
		Reason:       reason,
	}
}
