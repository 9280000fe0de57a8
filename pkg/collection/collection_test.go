package collection

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testPackage  = "com.example.messages"
	testPackage2 = "com.example.mail"
	testUser     = "user-0"
	testGroup1   = "group_1"
)

func testKey(pkg string, id int) string {
	return fmt.Sprintf("%s|%s|%d", testUser, pkg, id)
}

func buildNotif(pkg string, id int) Notification {
	return Notification{
		Package: pkg,
		ID:      id,
		UserID:  testUser,
		Title:   fmt.Sprintf("notif %d", id),
	}
}

func defaultStats(rec *Record) DismissedByUserStats {
	return DismissedByUserStats{
		Surface:    SurfaceShade,
		Sentiment:  SentimentNeutral,
		Visibility: VisibilityInfo{Key: rec.Key(), Rank: 7, Count: 2, Visible: true},
	}
}

// recordingListener keeps every callback it receives, in order.
type recordingListener struct {
	inits   []*Record
	added   []*Record
	updated []*Record
	removed []removal
	cleaned []*Record

	lastSeen map[string]*Record
}

type removal struct {
	record *Record
	reason CancellationReason
}

func newRecordingListener() *recordingListener {
	return &recordingListener{lastSeen: make(map[string]*Record)}
}

func (l *recordingListener) OnEntryInit(rec *Record) { l.inits = append(l.inits, rec) }

func (l *recordingListener) OnEntryAdded(rec *Record) {
	l.added = append(l.added, rec)
	l.lastSeen[rec.Key()] = rec
}

func (l *recordingListener) OnEntryUpdated(rec *Record) {
	l.updated = append(l.updated, rec)
	l.lastSeen[rec.Key()] = rec
}

func (l *recordingListener) OnEntryRemoved(rec *Record, reason CancellationReason) {
	l.removed = append(l.removed, removal{record: rec, reason: reason})
}

func (l *recordingListener) OnEntryCleanUp(rec *Record) { l.cleaned = append(l.cleaned, rec) }

func (l *recordingListener) entry(t *testing.T, key string) *Record {
	t.Helper()
	rec, ok := l.lastSeen[key]
	require.True(t, ok, "no entry seen for key %q", key)
	return rec
}

func (l *recordingListener) reset() {
	l.inits = nil
	l.added = nil
	l.updated = nil
	l.removed = nil
	l.cleaned = nil
}

// buildRecorder counts build calls and keeps the last active set.
type buildRecorder struct {
	calls int
	last  []*Record
}

func (b *buildRecorder) OnBuildList(records []*Record) {
	b.calls++
	b.last = records
}

type extenderQuery struct {
	record *Record
	reason CancellationReason
}

// recordingExtender is a scriptable LifetimeExtender test double.
type recordingExtender struct {
	name         string
	end          EndLifetimeExtensionFunc
	shouldExtend bool

	queries  []extenderQuery
	canceled []*Record
	onCancel func(rec *Record)
}

func newRecordingExtender(name string) *recordingExtender {
	return &recordingExtender{name: name}
}

func (e *recordingExtender) Name() string { return e.name }

func (e *recordingExtender) SetEndCallback(end EndLifetimeExtensionFunc) { e.end = end }

func (e *recordingExtender) ShouldExtendLifetime(rec *Record, reason CancellationReason) bool {
	e.queries = append(e.queries, extenderQuery{record: rec, reason: reason})
	return e.shouldExtend
}

func (e *recordingExtender) CancelLifetimeExtension(rec *Record) {
	e.canceled = append(e.canceled, rec)
	if e.onCancel != nil {
		e.onCancel(rec)
	}
}

func (e *recordingExtender) reset() {
	e.queries = nil
	e.canceled = nil
}

// recordingInterceptor is a scriptable DismissInterceptor test double.
type recordingInterceptor struct {
	name            string
	end             EndDismissInterceptionFunc
	shouldIntercept bool

	queries  []*Record
	canceled []*Record
}

func newRecordingInterceptor(name string) *recordingInterceptor {
	return &recordingInterceptor{name: name}
}

func (i *recordingInterceptor) Name() string { return i.name }

func (i *recordingInterceptor) SetEndCallback(end EndDismissInterceptionFunc) { i.end = end }

func (i *recordingInterceptor) ShouldInterceptDismissal(rec *Record) bool {
	i.queries = append(i.queries, rec)
	return i.shouldIntercept
}

func (i *recordingInterceptor) CancelDismissInterception(rec *Record) {
	i.canceled = append(i.canceled, rec)
}

func (i *recordingInterceptor) reset() { i.queries = nil }

// mockBackend verifies outbound dismissal confirmations.
type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) ClearNotification(ctx context.Context, req ClearRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func TestPostNotification_NewRecordDispatchesInitThenAdded(t *testing.T) {
	listener := newRecordingListener()
	builds := &buildRecorder{}
	c := New(NoOpBackend{}, WithListeners(listener), WithBuildListener(builds))

	key := testKey(testPackage, 3)
	notif := buildNotif(testPackage, 3)
	ranking := Ranking{Rank: 4747}
	c.PostNotification(key, notif, ranking)

	require.Len(t, listener.inits, 1)
	require.Len(t, listener.added, 1)
	rec := listener.added[0]
	assert.Same(t, listener.inits[0], rec)
	assert.Equal(t, key, rec.Key())
	assert.Equal(t, notif, rec.Notification())
	assert.Equal(t, ranking, rec.Ranking())
	assert.Equal(t, NotDismissed, rec.DismissState())
	assert.Equal(t, ReasonNotCanceled, rec.CancellationReason())
	assert.Equal(t, 1, builds.calls)
}

func TestPostNotification_ExistingRecordDispatchesUpdated(t *testing.T) {
	listener := newRecordingListener()
	c := New(NoOpBackend{}, WithListeners(listener))

	key := testKey(testPackage, 3)
	c.PostNotification(key, buildNotif(testPackage, 3), Ranking{Rank: 4747})
	rec := listener.entry(t, key)
	listener.reset()

	updated := buildNotif(testPackage, 3)
	updated.Title = "new version"
	c.PostNotification(key, updated, Ranking{Rank: 89})

	assert.Empty(t, listener.added)
	require.Len(t, listener.updated, 1)
	assert.Same(t, rec, listener.updated[0])
	assert.Equal(t, updated, rec.Notification())
	assert.Equal(t, Ranking{Rank: 89}, rec.Ranking())
}

func TestPostBatch_DispatchesPerEntryEventsAndSingleBuild(t *testing.T) {
	listener := newRecordingListener()
	builds := &buildRecorder{}
	c := New(NoOpBackend{}, WithListeners(listener), WithBuildListener(builds))

	// One record already present; the batch updates it and adds two more.
	key2 := testKey(testPackage, 2)
	old := buildNotif(testPackage, 2)
	old.Group = testGroup1
	old.Title = "old version"
	c.PostNotification(key2, old, Ranking{})

	listener.reset()
	builds.calls = 0

	newer := buildNotif(testPackage, 2)
	newer.Group = testGroup1
	newer.Title = "new version"
	n1 := buildNotif(testPackage, 1)
	n1.Group = testGroup1
	n3 := buildNotif(testPackage, 3)
	n3.Group = testGroup1

	c.PostBatch([]PostedEvent{
		{Key: testKey(testPackage, 1), Notification: n1},
		{Key: key2, Notification: newer},
		{Key: testKey(testPackage, 3), Notification: n3},
	})

	require.Len(t, listener.added, 2)
	assert.Equal(t, n1, listener.added[0].Notification())
	assert.Equal(t, n3, listener.added[1].Notification())

	require.Len(t, listener.updated, 1)
	assert.Equal(t, newer, listener.updated[0].Notification())

	assert.Equal(t, 1, builds.calls)
	assert.ElementsMatch(t,
		[]*Record{listener.added[0], listener.added[1], listener.updated[0]},
		builds.last,
	)
}

func TestUpdateRanking_AppliesOnlyToKeysInMap(t *testing.T) {
	listener := newRecordingListener()
	builds := &buildRecorder{}
	c := New(NoOpBackend{}, WithListeners(listener), WithBuildListener(builds))

	key1 := testKey(testPackage, 3)
	key2 := testKey(testPackage2, 8)
	key3 := testKey(testPackage, 77)
	c.PostNotification(key1, buildNotif(testPackage, 3), Ranking{Rank: 3})
	c.PostNotification(key2, buildNotif(testPackage2, 8), Ranking{Rank: 2})
	c.PostNotification(key3, buildNotif(testPackage, 77), Ranking{Rank: 1})
	listener.reset()
	builds.calls = 0

	c.UpdateRanking(RankingMap{
		key1: {Rank: 4, Explanation: "foo bar"},
		key3: {Rank: 6, Explanation: "penguin pizza", OverrideGroupKey: "newOverrideGroupKey"},
	})

	assert.Equal(t, Ranking{Rank: 4, Explanation: "foo bar"}, listener.entry(t, key1).Ranking())
	// Key omitted from the map: ranking untouched.
	assert.Equal(t, Ranking{Rank: 2}, listener.entry(t, key2).Ranking())
	rec3 := listener.entry(t, key3)
	assert.Equal(t, 6, rec3.Ranking().Rank)
	assert.Equal(t, "newOverrideGroupKey", rec3.GroupKey())

	// Ranking updates fire no per-entry events, only one build call.
	assert.Empty(t, listener.updated)
	assert.Equal(t, 1, builds.calls)
}

func TestRemoveNotification_DispatchesRemovedThenCleanUp(t *testing.T) {
	listener := newRecordingListener()
	c := New(NoOpBackend{}, WithListeners(listener))

	key := testKey(testPackage, 47)
	c.PostNotification(key, buildNotif(testPackage, 47), Ranking{})
	rec := listener.entry(t, key)
	listener.reset()

	require.NoError(t, c.RemoveNotification(key, ReasonAppCancel))

	require.Len(t, listener.removed, 1)
	assert.Same(t, rec, listener.removed[0].record)
	assert.Equal(t, ReasonAppCancel, listener.removed[0].reason)
	require.Len(t, listener.cleaned, 1)
	assert.Same(t, rec, listener.cleaned[0])

	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestRemoveNotification_UnknownKeyFails(t *testing.T) {
	c := New(NoOpBackend{})

	err := c.RemoveNotification(testKey(testPackage, 1), ReasonUnknown)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRepostAfterRemovalCreatesFreshRecord(t *testing.T) {
	listener := newRecordingListener()
	c := New(NoOpBackend{}, WithListeners(listener))

	key := testKey(testPackage, 3)
	c.PostNotification(key, buildNotif(testPackage, 3), Ranking{})
	first := listener.entry(t, key)

	require.NoError(t, c.RemoveNotification(key, ReasonAppCancel))
	c.PostNotification(key, buildNotif(testPackage, 3), Ranking{})

	second := listener.entry(t, key)
	assert.NotSame(t, first, second)
	assert.NotEqual(t, first.InstanceID(), second.InstanceID())
}

func TestCancellationReasonStoredAndClearedOnRepost(t *testing.T) {
	listener := newRecordingListener()
	c := New(NoOpBackend{}, WithListeners(listener))
	extender := newRecordingExtender("keeper")
	extender.shouldExtend = true
	c.AddLifetimeExtender(extender)

	key := testKey(testPackage, 3)
	c.PostNotification(key, buildNotif(testPackage, 3), Ranking{})
	rec := listener.entry(t, key)

	require.NoError(t, c.RemoveNotification(key, ReasonAppCancel))
	assert.Equal(t, ReasonAppCancel, rec.CancellationReason())

	c.PostNotification(key, buildNotif(testPackage, 3), Ranking{})
	assert.Equal(t, ReasonNotCanceled, rec.CancellationReason())
}

func TestActiveRecordsIncludesDismissedAwaitingConfirmation(t *testing.T) {
	listener := newRecordingListener()
	c := New(NoOpBackend{}, WithListeners(listener))

	key := testKey(testPackage, 47)
	c.PostNotification(key, buildNotif(testPackage, 47), Ranking{})
	rec := listener.entry(t, key)

	require.NoError(t, c.Dismiss(context.Background(), rec, defaultStats(rec)))

	require.Len(t, c.ActiveRecords(), 1)
	assert.Same(t, rec, c.ActiveRecords()[0])
}
