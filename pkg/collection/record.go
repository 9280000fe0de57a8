package collection

import (
	"github.com/google/uuid"
)

// DismissState tracks local dismissal of a record ahead of the source
// confirming its retraction.
type DismissState int

const (
	// NotDismissed is the default state of a live record.
	NotDismissed DismissState = iota
	// Dismissed marks a record the user dismissed directly. The state is
	// sticky: the cascade never downgrades it, only a fresh repost of the
	// same key clears it.
	Dismissed
	// ParentDismissed marks a group member whose summary was dismissed.
	ParentDismissed
)

func (s DismissState) String() string {
	switch s {
	case NotDismissed:
		return "not_dismissed"
	case Dismissed:
		return "dismissed"
	case ParentDismissed:
		return "parent_dismissed"
	default:
		return "unknown"
	}
}

// CancellationReason explains why the source removed a notification.
type CancellationReason int

// ReasonNotCanceled is the sentinel for a record the source has not removed.
const ReasonNotCanceled CancellationReason = -1

const (
	ReasonUnknown CancellationReason = iota
	ReasonClick
	ReasonUserCancel
	ReasonAppCancel
	ReasonError
)

func (r CancellationReason) String() string {
	switch r {
	case ReasonNotCanceled:
		return "not_canceled"
	case ReasonUnknown:
		return "unknown"
	case ReasonClick:
		return "click"
	case ReasonUserCancel:
		return "user_cancel"
	case ReasonAppCancel:
		return "app_cancel"
	case ReasonError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is the payload posted by the source. It is replaced wholesale
// on each repost of the same key, never mutated field by field.
type Notification struct {
	Package string `json:"package"`
	ID      int    `json:"id"`
	Tag     string `json:"tag,omitempty"`
	UserID  string `json:"user_id"`
	Group   string `json:"group,omitempty"`
	// GroupSummary marks the record as the leader of its group.
	GroupSummary bool `json:"group_summary,omitempty"`
	// ForegroundService and Bubble exempt the record from the group
	// dismissal cascade.
	ForegroundService bool   `json:"foreground_service,omitempty"`
	Bubble            bool   `json:"bubble,omitempty"`
	Title             string `json:"title,omitempty"`
	Text              string `json:"text,omitempty"`
}

// Ranking carries the mutable, ranker-supplied attributes of a record.
type Ranking struct {
	Rank        int    `json:"rank"`
	Importance  int    `json:"importance"`
	Explanation string `json:"explanation,omitempty"`
	// OverrideGroupKey, when set, supersedes the payload's native group.
	OverrideGroupKey string `json:"override_group_key,omitempty"`
}

// RankingMap is a bulk ranking update keyed by record key. Keys absent from
// the map leave the corresponding records untouched.
type RankingMap map[string]Ranking

// DismissalSurface identifies where the user performed a dismissal.
type DismissalSurface int

const (
	SurfaceOther DismissalSurface = iota
	SurfacePeek
	SurfaceLockscreen
	SurfaceShade
)

// DismissalSentiment captures how deliberate a dismissal appeared to be.
type DismissalSentiment int

const (
	SentimentNegative DismissalSentiment = iota
	SentimentNeutral
	SentimentPositive
)

// VisibilityInfo describes what the user could see when they dismissed.
type VisibilityInfo struct {
	Key     string `json:"key"`
	Rank    int    `json:"rank"`
	Count   int    `json:"count"`
	Visible bool   `json:"visible"`
}

// DismissedByUserStats accompanies a user dismissal on its way to the backend.
type DismissedByUserStats struct {
	Surface    DismissalSurface
	Sentiment  DismissalSentiment
	Visibility VisibilityInfo
}

// Record is the stored representation of one notification. The collection is
// its exclusive owner; everything outside the package reads it through the
// accessors and mutates it only via collection operations.
type Record struct {
	key        string
	instanceID string

	notif   Notification
	ranking Ranking

	dismissState       DismissState
	cancellationReason CancellationReason

	lifetimeExtenders   []LifetimeExtender
	dismissInterceptors []DismissInterceptor

	// inProgress guards against synchronous reentrant mutation while a
	// collection operation for this record is running plugin callbacks.
	inProgress bool
}

func newRecord(key string, notif Notification, ranking Ranking) *Record {
	return &Record{
		key:                key,
		instanceID:         uuid.NewString(),
		notif:              notif,
		ranking:            ranking,
		dismissState:       NotDismissed,
		cancellationReason: ReasonNotCanceled,
	}
}

// Key returns the stable identifier the source posts under.
func (r *Record) Key() string { return r.key }

// InstanceID identifies this record instance. A repost after full removal
// creates a new record with a new instance ID; identity is never reused.
func (r *Record) InstanceID() string { return r.instanceID }

// Notification returns the current payload.
func (r *Record) Notification() Notification { return r.notif }

// Ranking returns the current ranking.
func (r *Record) Ranking() Ranking { return r.ranking }

func (r *Record) DismissState() DismissState { return r.dismissState }

// CancellationReason returns ReasonNotCanceled for live records, or the
// reason of a removal that lifetime extension is currently deferring.
func (r *Record) CancellationReason() CancellationReason { return r.cancellationReason }

// LifetimeExtenders returns a copy of the ordered active-extender list.
func (r *Record) LifetimeExtenders() []LifetimeExtender {
	out := make([]LifetimeExtender, len(r.lifetimeExtenders))
	copy(out, r.lifetimeExtenders)
	return out
}

// DismissInterceptors returns a copy of the ordered active-interceptor list.
func (r *Record) DismissInterceptors() []DismissInterceptor {
	out := make([]DismissInterceptor, len(r.dismissInterceptors))
	copy(out, r.dismissInterceptors)
	return out
}

// GroupKey returns the effective group key: the ranking's override group key
// when present, otherwise a key derived from user, package and native group.
// Ungrouped records return "".
func (r *Record) GroupKey() string {
	if r.ranking.OverrideGroupKey != "" {
		return r.ranking.OverrideGroupKey
	}
	if r.notif.Group == "" {
		return ""
	}
	return r.notif.UserID + "|" + r.notif.Package + "|" + r.notif.Group
}

// IsGroupSummary reports whether the record leads its group.
func (r *Record) IsGroupSummary() bool { return r.notif.GroupSummary }

// cascadeExempt records are never marked ParentDismissed.
func (r *Record) cascadeExempt() bool {
	return r.notif.ForegroundService || r.notif.Bubble
}
