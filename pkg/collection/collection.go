package collection

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/notifkit/notifkit/pkg/logger"
)

// PostedEvent is one add-or-update delivered by the source.
type PostedEvent struct {
	Key          string
	Notification Notification
	Ranking      Ranking
}

// Collection reconciles the stream of source events into the authoritative
// set of active notification records and coordinates the lifetime-extension
// and dismiss-interception protocols around it.
//
// All operations run synchronously on a single logical sequence: one event or
// callback is fully processed, listener dispatch included, before the next is
// accepted. There is no locking because no concurrent mutation is permitted.
type Collection struct {
	backend Backend
	logger  *slog.Logger

	records map[string]*Record

	listeners     []Listener
	buildListener BuildListener
	extenders     []LifetimeExtender
	interceptors  []DismissInterceptor

	pendingEvents []entryEvent
}

// New creates a collection forwarding confirmed dismissals to backend.
// A nil backend is replaced with NoOpBackend.
func New(backend Backend, opts ...Option) *Collection {
	if backend == nil {
		backend = NoOpBackend{}
	}

	c := &Collection{
		backend: backend,
		logger:  slog.Default(),
		records: make(map[string]*Record),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AddListener registers a lifecycle listener. Listeners are notified in
// registration order.
func (c *Collection) AddListener(l Listener) {
	if l != nil {
		c.listeners = append(c.listeners, l)
	}
}

// SetBuildListener registers the single build listener.
func (c *Collection) SetBuildListener(b BuildListener) {
	c.buildListener = b
}

// AddLifetimeExtender registers a lifetime extender and hands it its end
// callback. Extenders are queried in registration order.
func (c *Collection) AddLifetimeExtender(e LifetimeExtender) {
	e.SetEndCallback(c.endLifetimeExtension)
	c.extenders = append(c.extenders, e)
}

// AddDismissInterceptor registers a dismiss interceptor and hands it its end
// callback. Interceptors are queried in registration order.
func (c *Collection) AddDismissInterceptor(i DismissInterceptor) {
	i.SetEndCallback(c.endDismissInterception)
	c.interceptors = append(c.interceptors, i)
}

// Get returns the active record for key, if any.
func (c *Collection) Get(key string) (*Record, bool) {
	rec, ok := c.records[key]
	return rec, ok
}

// ActiveRecords returns the active set, ordered by key. Locally dismissed
// records whose retraction the source has not yet confirmed are included.
func (c *Collection) ActiveRecords() []*Record {
	records := make([]*Record, 0, len(c.records))
	for _, rec := range c.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].key < records[j].key })
	return records
}

// PostNotification applies a single posted event: an update in place if the
// key is active, otherwise a brand-new record.
func (c *Collection) PostNotification(key string, notif Notification, ranking Ranking) {
	c.applyPost(PostedEvent{Key: key, Notification: notif, Ranking: ranking})
	c.recomputeDismissCascade()
	c.dispatchEventsAndRebuild()
}

// PostBatch applies the events in order, recomputes the cascade once over the
// whole store, then dispatches the accumulated per-entry events (in event
// order) and exactly one build call.
func (c *Collection) PostBatch(events []PostedEvent) {
	for _, evt := range events {
		c.applyPost(evt)
	}
	c.recomputeDismissCascade()
	c.dispatchEventsAndRebuild()
}

func (c *Collection) applyPost(evt PostedEvent) {
	rec, ok := c.records[evt.Key]
	if !ok {
		rec = newRecord(evt.Key, evt.Notification, evt.Ranking)
		c.records[evt.Key] = rec
		c.logger.LogAttrs(context.Background(), slog.LevelDebug, "Notification posted",
			logger.NotifKey(rec.key),
		)
		c.queueEvent(eventInit, rec, ReasonNotCanceled)
		c.queueEvent(eventAdded, rec, ReasonNotCanceled)
		return
	}

	c.beginMutation(rec)
	rec.notif = evt.Notification
	rec.ranking = evt.Ranking
	rec.cancellationReason = ReasonNotCanceled
	// A fresh repost clears even sticky local dismissal of this entry. The
	// cascade recompute that follows re-evaluates its group.
	rec.dismissState = NotDismissed
	c.cancelLifetimeExtension(rec)
	c.cancelDismissInterception(rec)
	c.endMutation(rec)

	c.logger.LogAttrs(context.Background(), slog.LevelDebug, "Notification updated",
		logger.NotifKey(rec.key),
	)
	c.queueEvent(eventUpdated, rec, ReasonNotCanceled)
}

// UpdateRanking replaces the ranking of every stored record the map has an
// entry for; records absent from the map are left untouched. No per-entry
// listener events fire, but the cascade is recomputed once (override-group-key
// changes can re-associate summaries and children) and one build call fires.
func (c *Collection) UpdateRanking(rankings RankingMap) {
	for key, rec := range c.records {
		if ranking, ok := rankings[key]; ok {
			rec.ranking = ranking
		}
	}
	c.recomputeDismissCascade()
	c.dispatchEventsAndRebuild()
}

// RemoveNotification applies a removal request from the source. Every
// registered lifetime extender is queried, in registration order and without
// short-circuiting; if any claim an extension the record stays active and the
// reason is kept for the eventual re-query. With no active extensions the
// record is removed immediately.
//
// A record the user already dismissed locally is never offered for lifetime
// extension: the source confirming its retraction is the end of the line.
func (c *Collection) RemoveNotification(key string, reason CancellationReason) error {
	rec, ok := c.records[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrRecordNotFound, key)
	}

	c.beginMutation(rec)
	rec.cancellationReason = reason
	if rec.dismissState != Dismissed {
		rec.lifetimeExtenders = c.queryLifetimeExtenders(rec, reason)
	}
	c.endMutation(rec)

	if len(rec.lifetimeExtenders) > 0 {
		c.logger.LogAttrs(context.Background(), slog.LevelDebug, "Removal deferred by lifetime extenders",
			logger.NotifKey(rec.key),
			logger.Reason(reason.String()),
			slog.Int("active_extenders", len(rec.lifetimeExtenders)),
		)
		return nil
	}

	c.logger.LogAttrs(context.Background(), slog.LevelDebug, "Notification removed",
		logger.NotifKey(rec.key),
		logger.Reason(reason.String()),
	)
	c.finalizeRemoval(rec, reason)
	c.recomputeDismissCascade()
	c.dispatchEventsAndRebuild()
	return nil
}

// Dismiss applies a user dismissal of rec. The record is marked Dismissed and
// its group cascaded synchronously; then every registered interceptor is
// queried, in registration order and without short-circuiting. If none claim
// the dismissal it is forwarded to the backend. The record itself stays in
// the collection until the source confirms retraction via
// RemoveNotification.
//
// Dismissing a record the source already canceled (alive only through
// lifetime extension) releases the extensions and removes it outright.
func (c *Collection) Dismiss(ctx context.Context, rec *Record, stats DismissedByUserStats) error {
	c.checkReentrant(rec)

	if cur, ok := c.records[rec.key]; !ok || cur != rec {
		return fmt.Errorf("%w: dismissing %q", ErrRecordNotFound, rec.key)
	}

	if rec.cancellationReason != ReasonNotCanceled {
		c.beginMutation(rec)
		c.cancelLifetimeExtension(rec)
		c.endMutation(rec)
		c.finalizeRemoval(rec, rec.cancellationReason)
		c.recomputeDismissCascade()
		c.dispatchEventsAndRebuild()
		return nil
	}

	rec.dismissState = Dismissed
	c.recomputeDismissCascade()

	c.beginMutation(rec)
	rec.dismissInterceptors = c.queryDismissInterceptors(rec)
	c.endMutation(rec)

	if len(rec.dismissInterceptors) == 0 {
		c.forwardDismissal(ctx, rec, stats)
	} else {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "Dismissal intercepted",
			logger.NotifKey(rec.key),
			slog.Int("active_interceptors", len(rec.dismissInterceptors)),
		)
	}

	c.dispatchEventsAndRebuild()
	return nil
}

// endLifetimeExtension is the callback handed to lifetime extenders. A
// partial expiry (other extensions still held) just drops the extender from
// the active list. When the last extension ends, every registered extender is
// re-queried fresh with the stored removal reason; only if none claim a new
// extension is the removal finalized.
func (c *Collection) endLifetimeExtension(extender LifetimeExtender, rec *Record) error {
	c.checkReentrant(rec)

	idx := indexOfExtender(rec.lifetimeExtenders, extender)
	if idx < 0 {
		return fmt.Errorf("%w: %s ending extension on %q", ErrExtenderNotActive, extender.Name(), rec.key)
	}
	rec.lifetimeExtenders = append(rec.lifetimeExtenders[:idx], rec.lifetimeExtenders[idx+1:]...)

	if len(rec.lifetimeExtenders) > 0 {
		return nil
	}

	c.beginMutation(rec)
	rec.lifetimeExtenders = c.queryLifetimeExtenders(rec, rec.cancellationReason)
	c.endMutation(rec)

	if len(rec.lifetimeExtenders) > 0 {
		return nil
	}

	c.logger.LogAttrs(context.Background(), slog.LevelDebug, "Last lifetime extension ended, removing notification",
		logger.NotifKey(rec.key),
		logger.PluginName(extender.Name()),
	)
	c.finalizeRemoval(rec, rec.cancellationReason)
	c.recomputeDismissCascade()
	c.dispatchEventsAndRebuild()
	return nil
}

// endDismissInterception is the callback handed to dismiss interceptors.
// Unlike lifetime extension, every end triggers a fresh re-query of all
// registered interceptors; the dismissal is forwarded as soon as the fresh
// set comes back empty.
func (c *Collection) endDismissInterception(ctx context.Context, interceptor DismissInterceptor, rec *Record, stats DismissedByUserStats) error {
	c.checkReentrant(rec)

	idx := indexOfInterceptor(rec.dismissInterceptors, interceptor)
	if idx < 0 {
		return fmt.Errorf("%w: %s ending interception on %q", ErrInterceptorNotActive, interceptor.Name(), rec.key)
	}
	rec.dismissInterceptors = append(rec.dismissInterceptors[:idx], rec.dismissInterceptors[idx+1:]...)

	c.beginMutation(rec)
	rec.dismissInterceptors = c.queryDismissInterceptors(rec)
	c.endMutation(rec)

	if len(rec.dismissInterceptors) == 0 {
		c.forwardDismissal(ctx, rec, stats)
		c.dispatchEventsAndRebuild()
	}
	return nil
}

// queryLifetimeExtenders asks every registered extender, in registration
// order. No short-circuiting: each extender sees each removal even when an
// earlier one already claimed an extension.
func (c *Collection) queryLifetimeExtenders(rec *Record, reason CancellationReason) []LifetimeExtender {
	var active []LifetimeExtender
	for _, e := range c.extenders {
		if e.ShouldExtendLifetime(rec, reason) {
			active = append(active, e)
		}
	}
	return active
}

func (c *Collection) queryDismissInterceptors(rec *Record) []DismissInterceptor {
	var active []DismissInterceptor
	for _, i := range c.interceptors {
		if i.ShouldInterceptDismissal(rec) {
			active = append(active, i)
		}
	}
	return active
}

func (c *Collection) cancelLifetimeExtension(rec *Record) {
	active := rec.lifetimeExtenders
	rec.lifetimeExtenders = nil
	for _, e := range active {
		e.CancelLifetimeExtension(rec)
	}
}

func (c *Collection) cancelDismissInterception(rec *Record) {
	active := rec.dismissInterceptors
	rec.dismissInterceptors = nil
	for _, i := range active {
		i.CancelDismissInterception(rec)
	}
}

// finalizeRemoval completes a removal once no lifetime extension holds the
// record: pending interceptions are canceled without forwarding, removal and
// cleanup events are queued, and the record leaves the store for good.
func (c *Collection) finalizeRemoval(rec *Record, reason CancellationReason) {
	c.beginMutation(rec)
	c.cancelDismissInterception(rec)
	c.endMutation(rec)

	delete(c.records, rec.key)
	c.queueEvent(eventRemoved, rec, reason)
	c.queueEvent(eventCleanUp, rec, ReasonNotCanceled)
}

func (c *Collection) forwardDismissal(ctx context.Context, rec *Record, stats DismissedByUserStats) {
	req := ClearRequest{
		Package:    rec.notif.Package,
		Tag:        rec.notif.Tag,
		ID:         rec.notif.ID,
		UserID:     rec.notif.UserID,
		Key:        rec.key,
		Surface:    stats.Surface,
		Sentiment:  stats.Sentiment,
		Visibility: stats.Visibility,
	}
	if err := c.backend.ClearNotification(ctx, req); err != nil {
		// Best effort: the record is already dismissed locally and will be
		// retired when the source eventually confirms retraction.
		c.logger.LogAttrs(ctx, slog.LevelWarn, "Failed to confirm dismissal with backend",
			logger.NotifKey(rec.key),
			logger.Error(err),
		)
	}
}

func (c *Collection) queueEvent(kind eventKind, rec *Record, reason CancellationReason) {
	c.pendingEvents = append(c.pendingEvents, entryEvent{kind: kind, record: rec, reason: reason})
}

// dispatchEventsAndRebuild drains the pending event queue in order, then
// makes the single build call for this batch.
func (c *Collection) dispatchEventsAndRebuild() {
	pending := c.pendingEvents
	c.pendingEvents = nil

	for _, evt := range pending {
		for _, l := range c.listeners {
			switch evt.kind {
			case eventInit:
				l.OnEntryInit(evt.record)
			case eventAdded:
				l.OnEntryAdded(evt.record)
			case eventUpdated:
				l.OnEntryUpdated(evt.record)
			case eventRemoved:
				l.OnEntryRemoved(evt.record, evt.reason)
			case eventCleanUp:
				l.OnEntryCleanUp(evt.record)
			}
		}
	}

	if c.buildListener != nil {
		c.buildListener.OnBuildList(c.ActiveRecords())
	}
}

func (c *Collection) checkReentrant(rec *Record) {
	if rec.inProgress {
		panic(fmt.Errorf("%w: %q", ErrReentrantCall, rec.key))
	}
}

func (c *Collection) beginMutation(rec *Record) {
	c.checkReentrant(rec)
	rec.inProgress = true
}

func (c *Collection) endMutation(rec *Record) {
	rec.inProgress = false
}

func indexOfExtender(list []LifetimeExtender, e LifetimeExtender) int {
	for i, candidate := range list {
		if candidate == e {
			return i
		}
	}
	return -1
}

func indexOfInterceptor(list []DismissInterceptor, in DismissInterceptor) int {
	for i, candidate := range list {
		if candidate == in {
			return i
		}
	}
	return -1
}
