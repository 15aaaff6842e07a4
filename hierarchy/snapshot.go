package hierarchy

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/kosdata/tarik/core"
)

// Snapshot is the materialized view of one dataset generation: a lookup map
// from code to record, every record grouped under its topmost ancestor, and
// a stable root traversal order. It is immutable once built and safe for
// concurrent readers.
type Snapshot struct {
	Generation core.ID
	Records    []*core.TariffRecord            // all records, input order
	ByCode     map[string]*core.TariffRecord   // code -> record
	ByRoot     map[string][]*core.TariffRecord // root code -> bucket, sibling-sorted
	RootOrder  []string                        // root-encounter order over the input

	resolver *Resolver
}

// BuildSnapshot materializes a snapshot from the flat record set. Records
// are cloned, so later mutation of the input cannot leak into the snapshot.
// Every record's root is resolved once here; buckets are sorted by the total
// sibling order.
func BuildSnapshot(records []*core.TariffRecord, generation core.ID) *Snapshot {
	cloned := make([]*core.TariffRecord, len(records))
	for i, record := range records {
		clone := *record
		cloned[i] = &clone
	}

	resolver := NewResolver(cloned)
	snapshot := &Snapshot{
		Generation: generation,
		Records:    cloned,
		ByCode:     make(map[string]*core.TariffRecord, len(cloned)),
		ByRoot:     make(map[string][]*core.TariffRecord),
		resolver:   resolver,
	}

	for _, record := range cloned {
		snapshot.ByCode[record.Code] = record
		root := resolver.RootCode(record.Code)
		if _, seen := snapshot.ByRoot[root]; !seen {
			snapshot.RootOrder = append(snapshot.RootOrder, root)
		}
		snapshot.ByRoot[root] = append(snapshot.ByRoot[root], record)
	}

	for root := range snapshot.ByRoot {
		slices.SortFunc(snapshot.ByRoot[root], core.CompareRecords)
	}
	return snapshot
}

// Resolver exposes parent/root resolution over the snapshot's records.
func (s *Snapshot) Resolver() *Resolver {
	return s.resolver
}

// Loader supplies the flat record set and its generation fingerprint when
// the cache needs a (re)build.
type Loader func(ctx context.Context) ([]*core.TariffRecord, core.ID, error)

// Cache holds the current snapshot and rebuilds it lazily after an
// invalidation. The build is serialized: concurrent callers during a rebuild
// block and then share the single built snapshot, never building twice for
// the same generation.
type Cache struct {
	mu       sync.Mutex
	snapshot *Snapshot
	logger   *slog.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewCache creates an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ensure returns the current snapshot, building it through load if none
// exists. Idempotent and safe to call concurrently.
func (c *Cache) Ensure(ctx context.Context, load Loader) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil {
		return c.snapshot, nil
	}

	records, generation, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.snapshot = BuildSnapshot(records, generation)
	c.logger.Debug("materialized snapshot built",
		"records", len(c.snapshot.Records),
		"roots", len(c.snapshot.RootOrder),
		"generation", uint64(generation))
	return c.snapshot, nil
}

// Invalidate drops the current snapshot so the next Ensure rebuilds. Called
// on every re-initialization; dropped snapshots are released to the GC, so
// repeated reloads do not accumulate state.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
}
