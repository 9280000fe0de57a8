package feed

import (
	"context"
	"log/slog"
	"sync"

	"github.com/notifkit/notifkit/pkg/broadcast"
	"github.com/notifkit/notifkit/pkg/cache"
	"github.com/notifkit/notifkit/pkg/collection"
	"github.com/notifkit/notifkit/pkg/config"
	"github.com/notifkit/notifkit/pkg/logger"
)

// Config holds the tunables of a Feed, loadable from the environment.
type Config struct {
	// BufferSize is the per-subscriber channel buffer. Subscribers that
	// fall further behind than this miss events.
	BufferSize int `env:"FEED_BUFFER_SIZE" envDefault:"64"`
	// MaxGroupStreams caps the number of live per-group broadcasters.
	// The least recently used stream is closed when the cap is exceeded.
	MaxGroupStreams int `env:"FEED_MAX_GROUP_STREAMS" envDefault:"128"`
}

// Feed turns collection lifecycle callbacks into an asynchronous event
// stream. It implements collection.Listener; register it on the collection
// and fan events out to any number of subscribers without ever blocking the
// collection's processing sequence.
//
// Alongside the firehose stream, the feed maintains bounded per-group
// streams so consumers can follow a single notification group.
type Feed struct {
	collection.NoOpListener

	logger     *slog.Logger
	bufferSize int

	all *broadcast.MemoryBroadcaster[Event]

	mu     sync.Mutex
	groups *cache.LRU[string, *broadcast.MemoryBroadcaster[Event]]
	closed bool
}

// New creates a feed with the given config.
func New(cfg Config, opts ...Option) *Feed {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 64
	}
	if cfg.MaxGroupStreams <= 0 {
		cfg.MaxGroupStreams = 128
	}

	f := &Feed{
		logger:     slog.Default(),
		bufferSize: cfg.BufferSize,
		all:        broadcast.NewMemoryBroadcaster[Event](cfg.BufferSize),
	}
	f.groups = cache.New(cfg.MaxGroupStreams,
		cache.WithEvictCallback(func(groupKey string, b *broadcast.MemoryBroadcaster[Event]) {
			_ = b.Close()
		}),
	)

	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewFromEnv creates a feed configured from environment variables.
func NewFromEnv(opts ...Option) (*Feed, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return New(cfg, opts...), nil
}

// Subscribe attaches a subscriber to the firehose stream of all events.
func (f *Feed) Subscribe(ctx context.Context) broadcast.Subscriber[Event] {
	return f.all.Subscribe(ctx)
}

// SubscribeGroup attaches a subscriber to the stream for one group key.
// The per-group stream is created on demand and retired least recently used
// first once MaxGroupStreams streams exist.
func (f *Feed) SubscribeGroup(ctx context.Context, groupKey string) broadcast.Subscriber[Event] {
	return f.groupStream(groupKey).Subscribe(ctx)
}

// Close shuts down the firehose and every per-group stream, closing all
// subscribers.
func (f *Feed) Close() error {
	f.mu.Lock()
	f.closed = true
	f.groups.Purge()
	f.mu.Unlock()

	return f.all.Close()
}

// OnEntryAdded implements collection.Listener.
func (f *Feed) OnEntryAdded(rec *collection.Record) {
	f.publish(snapshot(EventAdded, rec, collection.ReasonNotCanceled))
}

// OnEntryUpdated implements collection.Listener.
func (f *Feed) OnEntryUpdated(rec *collection.Record) {
	f.publish(snapshot(EventUpdated, rec, collection.ReasonNotCanceled))
}

// OnEntryRemoved implements collection.Listener.
func (f *Feed) OnEntryRemoved(rec *collection.Record, reason collection.CancellationReason) {
	f.publish(snapshot(EventRemoved, rec, reason))
}

func (f *Feed) publish(evt Event) {
	ctx := context.Background()
	if err := f.all.Broadcast(ctx, evt); err != nil {
		f.logger.LogAttrs(ctx, slog.LevelDebug, "Dropped feed event",
			logger.NotifKey(evt.Key),
			logger.Error(err),
		)
		return
	}

	if evt.GroupKey == "" {
		return
	}
	f.mu.Lock()
	stream, ok := f.groups.Get(evt.GroupKey)
	f.mu.Unlock()
	if ok {
		_ = stream.Broadcast(ctx, evt)
	}
}

func (f *Feed) groupStream(groupKey string) *broadcast.MemoryBroadcaster[Event] {
	f.mu.Lock()
	defer f.mu.Unlock()

	if stream, ok := f.groups.Get(groupKey); ok {
		return stream
	}

	stream := broadcast.NewMemoryBroadcaster[Event](f.bufferSize)
	if f.closed {
		_ = stream.Close()
		return stream
	}
	f.groups.Put(groupKey, stream)
	f.logger.LogAttrs(context.Background(), slog.LevelDebug, "Opened group stream",
		logger.GroupKey(groupKey),
		slog.Int("group_streams", f.groups.Len()),
	)
	return stream
}
