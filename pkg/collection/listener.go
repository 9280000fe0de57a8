package collection

// Listener observes record lifecycle events. Callbacks run synchronously on
// the collection's processing sequence, after the triggering mutation has
// fully settled.
type Listener interface {
	// OnEntryInit fires once per record instance, before OnEntryAdded.
	OnEntryInit(record *Record)

	// OnEntryAdded fires when a new record enters the collection.
	OnEntryAdded(record *Record)

	// OnEntryUpdated fires when an existing record is reposted.
	OnEntryUpdated(record *Record)

	// OnEntryRemoved fires when a record leaves the collection.
	OnEntryRemoved(record *Record, reason CancellationReason)

	// OnEntryCleanUp fires after OnEntryRemoved, once the record is gone.
	OnEntryCleanUp(record *Record)
}

// NoOpListener implements Listener with no-ops. Embed it to implement only
// the callbacks you care about.
type NoOpListener struct{}

func (NoOpListener) OnEntryInit(*Record)                        {}
func (NoOpListener) OnEntryAdded(*Record)                       {}
func (NoOpListener) OnEntryUpdated(*Record)                     {}
func (NoOpListener) OnEntryRemoved(*Record, CancellationReason) {}
func (NoOpListener) OnEntryCleanUp(*Record)                     {}

// BuildListener receives the active set exactly once per externally observed
// batch, after all per-entry events for that batch have been dispatched.
type BuildListener interface {
	OnBuildList(records []*Record)
}

// BuildListenerFunc adapts a function to the BuildListener interface.
type BuildListenerFunc func(records []*Record)

func (f BuildListenerFunc) OnBuildList(records []*Record) { f(records) }

type eventKind int

const (
	eventInit eventKind = iota
	eventAdded
	eventUpdated
	eventRemoved
	eventCleanUp
)

// entryEvent is a queued listener callback. Events accumulate while a batch
// is applied and are dispatched in order once the store has settled.
type entryEvent struct {
	kind   eventKind
	record *Record
	reason CancellationReason
}
