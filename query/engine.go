package query

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/kosdata/tarik/core"
	"github.com/kosdata/tarik/hierarchy"
	"github.com/kosdata/tarik/index"
	"github.com/kosdata/tarik/storage"
)

// Policy selects how a combined code-prefix + text filter intersects.
type Policy int

const (
	// PolicyRootBranch keeps a record when it matches the code prefix and
	// belongs to a root that contains at least one text hit: whole
	// matching branches stay visible.
	PolicyRootBranch Policy = iota

	// PolicyRowIntersect keeps a record only when it satisfies both
	// filters itself.
	PolicyRowIntersect
)

// Limits bounds a query's result set.
type Limits struct {
	ParentLimit int // max roots emitted; <= 0 uses DefaultParentLimit
	ItemLimit   int // max rows emitted; <= 0 uses DefaultItemLimit
}

const (
	DefaultParentLimit = 200
	DefaultItemLimit   = 1000

	// Text hits are description-level but results expand to whole
	// subtrees, which shrinks the effective match count after
	// deduplication; the index is asked for a generous multiple.
	searchLimitMultiplier = 10
)

func (l *Limits) normalized() Limits {
	out := Limits{ParentLimit: DefaultParentLimit, ItemLimit: DefaultItemLimit}
	if l == nil {
		return out
	}
	if l.ParentLimit > 0 {
		out.ParentLimit = l.ParentLimit
	}
	if l.ItemLimit > 0 {
		out.ItemLimit = l.ItemLimit
	}
	return out
}

// Engine answers tariff queries over one dataset generation. It owns the
// materialized snapshot cache and the lazily built text index; both are
// dropped by ResetCaches on re-initialization.
type Engine struct {
	repo   storage.TariffRepository
	cache  *hierarchy.Cache
	policy Policy
	logger *slog.Logger

	mu       sync.Mutex
	index    *index.Index
	indexGen core.ID
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithPolicy sets the combined-filter intersection policy.
// Default is PolicyRootBranch.
func WithPolicy(policy Policy) Option {
	return func(e *Engine) error {
		e.policy = policy
		return nil
	}
}

// NewEngine creates a query engine over the given repository.
func NewEngine(repo storage.TariffRepository, opts ...Option) (*Engine, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	e := &Engine{
		repo:   repo,
		policy: PolicyRootBranch,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.cache = hierarchy.NewCache(hierarchy.WithLogger(e.logger))
	return e, nil
}

// Snapshot returns the current materialized snapshot, building it from the
// repository if needed.
func (e *Engine) Snapshot(ctx context.Context) (*hierarchy.Snapshot, error) {
	return e.cache.Ensure(ctx, func(ctx context.Context) ([]*core.TariffRecord, core.ID, error) {
		records, err := e.repo.GetAll(ctx)
		if err != nil {
			return nil, 0, err
		}
		generation, err := e.repo.Fingerprint(ctx)
		if err != nil {
			return nil, 0, err
		}
		return records, generation, nil
	})
}

// Warm eagerly builds the snapshot and the text index. Initialization calls
// it so the first query doesn't pay the build cost; failures here only mean
// the build is retried lazily.
func (e *Engine) Warm(ctx context.Context) error {
	snapshot, err := e.Snapshot(ctx)
	if err != nil {
		return err
	}
	_, err = e.ensureIndex(snapshot)
	return err
}

// ResetCaches drops the snapshot and text index so the next query rebuilds
// from the repository. Must be called on every re-initialization.
func (e *Engine) ResetCaches() {
	e.cache.Invalidate()
	e.mu.Lock()
	e.index = nil
	e.indexGen = 0
	e.mu.Unlock()
}

// GetAll returns every record in stable root order, capped at the default
// item limit. Failures are logged and yield an empty slice.
func (e *Engine) GetAll(ctx context.Context) []*core.Row {
	return e.Search(ctx, "", "", nil)
}

// Search answers a compound query. Either filter may be empty; with both
// empty every record is returned up to the item limit. Failures are logged
// and yield an empty slice, never an error: the caller always has a
// renderable result.
func (e *Engine) Search(ctx context.Context, codePrefix, textQuery string, limits *Limits) []*core.Row {
	lim := limits.normalized()
	codePrefix = strings.TrimSpace(codePrefix)
	textQuery = strings.TrimSpace(textQuery)

	snapshot, err := e.Snapshot(ctx)
	if err != nil {
		e.logger.Error("error building snapshot for query", "err", err)
		return []*core.Row{}
	}

	if codePrefix == "" && textQuery == "" {
		return emitAll(snapshot, lim)
	}

	var prefixSet map[string]bool
	if codePrefix != "" {
		scanned, err := e.repo.ScanCodePrefix(ctx, codePrefix, 0)
		if err != nil {
			e.logger.Error("error scanning code prefix", "prefix", codePrefix, "err", err)
			return []*core.Row{}
		}
		prefixSet = make(map[string]bool, len(scanned))
		for _, record := range scanned {
			prefixSet[record.Code] = true
		}
	}

	highlights := map[string]string{}
	if textQuery != "" {
		ix, err := e.ensureIndex(snapshot)
		if err != nil {
			e.logger.Error("error building text index", "err", err)
			return []*core.Row{}
		}
		for _, hit := range ix.Search(textQuery, lim.ItemLimit*searchLimitMultiplier) {
			highlights[hit.Code] = hit.Highlighted
		}
	}

	candidates := e.combine(snapshot, prefixSet, highlights, codePrefix != "", textQuery != "")
	if len(candidates) == 0 {
		return []*core.Row{}
	}
	included := expand(snapshot, candidates)
	return emit(snapshot, included, highlights, lim)
}

// combine derives the candidate code set from the two filters.
func (e *Engine) combine(snapshot *hierarchy.Snapshot, prefixSet map[string]bool, highlights map[string]string, hasPrefix, hasText bool) map[string]bool {
	switch {
	case hasPrefix && hasText:
		resolver := snapshot.Resolver()
		candidates := make(map[string]bool)
		if e.policy == PolicyRowIntersect {
			for code := range prefixSet {
				if _, ok := highlights[code]; ok {
					candidates[code] = true
				}
			}
			return candidates
		}
		hitRoots := make(map[string]bool, len(highlights))
		for code := range highlights {
			hitRoots[resolver.RootCode(code)] = true
		}
		for code := range prefixSet {
			if hitRoots[resolver.RootCode(code)] {
				candidates[code] = true
			}
		}
		return candidates

	case hasPrefix:
		return prefixSet

	default:
		candidates := make(map[string]bool, len(highlights))
		for code := range highlights {
			candidates[code] = true
		}
		return candidates
	}
}

// expand grows the candidate set to complete subtrees plus the minimal
// ancestor chain of every candidate, keeping the result tree-connected.
func expand(snapshot *hierarchy.Snapshot, candidates map[string]bool) map[string]bool {
	resolver := snapshot.Resolver()
	included := make(map[string]bool, len(candidates))

	for code := range candidates {
		record, ok := snapshot.ByCode[code]
		if !ok {
			// Store and snapshot can briefly disagree around a reload;
			// the stale candidate is simply not renderable.
			continue
		}
		included[code] = true
		for _, ancestor := range resolver.Ancestors(record) {
			included[ancestor.Code] = true
		}
	}

	for _, record := range snapshot.Records {
		if included[record.Code] {
			continue
		}
		for _, ancestor := range resolver.Ancestors(record) {
			if candidates[ancestor.Code] {
				included[record.Code] = true
				break
			}
		}
	}
	return included
}

// emit walks roots in snapshot order and emits included rows bucket by
// bucket until the limits are hit.
func emit(snapshot *hierarchy.Snapshot, included map[string]bool, highlights map[string]string, lim Limits) []*core.Row {
	rows := []*core.Row{}
	rootsEmitted := 0
	for _, root := range snapshot.RootOrder {
		var bucketRows []*core.Row
		for _, record := range snapshot.ByRoot[root] {
			if !included[record.Code] {
				continue
			}
			row := &core.Row{Record: record}
			if highlighted, ok := highlights[record.Code]; ok {
				row.Highlighted = highlighted
			}
			bucketRows = append(bucketRows, row)
		}
		if len(bucketRows) == 0 {
			continue
		}
		if rootsEmitted >= lim.ParentLimit {
			break
		}
		rootsEmitted++
		for _, row := range bucketRows {
			if len(rows) >= lim.ItemLimit {
				return rows
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func emitAll(snapshot *hierarchy.Snapshot, lim Limits) []*core.Row {
	rows := []*core.Row{}
	rootsEmitted := 0
	for _, root := range snapshot.RootOrder {
		if rootsEmitted >= lim.ParentLimit {
			break
		}
		rootsEmitted++
		for _, record := range snapshot.ByRoot[root] {
			if len(rows) >= lim.ItemLimit {
				return rows
			}
			rows = append(rows, &core.Row{Record: record})
		}
	}
	return rows
}

func (e *Engine) ensureIndex(snapshot *hierarchy.Snapshot) (*index.Index, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index != nil && e.indexGen == snapshot.Generation {
		return e.index, nil
	}
	built, err := index.New(snapshot.Records, index.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	e.index = built
	e.indexGen = snapshot.Generation
	return built, nil
}
