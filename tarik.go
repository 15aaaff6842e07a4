// Copyright 2025 Kosdata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package tarik is the tariff data service: an embedded, searchable copy of
// the customs tariff dataset. Open a Service, feed it the bundled dataset
// once through Initialize, then query by code prefix and free text.
package tarik

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kosdata/tarik/core"
	"github.com/kosdata/tarik/dataset"
	"github.com/kosdata/tarik/hierarchy"
	"github.com/kosdata/tarik/query"
	"github.com/kosdata/tarik/storage"
	"github.com/kosdata/tarik/storage/badger"
)

// Phase identifies a stage of Initialize reported through OnProgress.
type Phase string

const (
	PhaseLoadData Phase = "load-data"
	PhaseIndexing Phase = "indexing"
	PhaseDone     Phase = "done"
	PhaseCached   Phase = "cached"
	PhaseError    Phase = "error"
)

// ProgressFunc receives initialization progress. loaded/total are record
// counts where meaningful, 0 otherwise.
type ProgressFunc func(phase Phase, loaded, total int, message string)

// InitOptions controls Initialize.
type InitOptions struct {
	// Force clears the store and reloads even when data is already
	// present.
	Force bool

	// OnProgress, when set, receives phase callbacks.
	OnProgress ProgressFunc
}

// Service owns one dataset generation: the Badger-backed store, the
// materialized hierarchy snapshot and the text index. All methods are safe
// for concurrent use; at most one Initialize runs at a time.
type Service struct {
	backend *badger.Backend
	repo    storage.TariffRepository
	engine  *query.Engine
	logger  *slog.Logger

	initMu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger *slog.Logger
	policy query.Policy
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPolicy sets the combined-filter intersection policy.
// Default is query.PolicyRootBranch.
func WithPolicy(policy query.Policy) ServiceOption {
	return func(o *serviceOptions) {
		o.policy = policy
	}
}

// Open opens (creating if needed) the service over a Badger directory.
func Open(filePath string, opts ...ServiceOption) (*Service, error) {
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	return newService(backend, opts...)
}

// OpenInMemory opens a service backed by an in-memory store. Used by tests
// and throwaway sessions; nothing survives Close.
func OpenInMemory(opts ...ServiceOption) (*Service, error) {
	backend, err := badger.OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return newService(backend, opts...)
}

func newService(backend *badger.Backend, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		logger: slog.Default(),
		policy: query.PolicyRootBranch,
	}
	for _, opt := range opts {
		opt(options)
	}

	repo := badger.NewTariffRepository(backend)
	engine, err := query.NewEngine(repo,
		query.WithLogger(options.logger),
		query.WithPolicy(options.policy))
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	return &Service{
		backend: backend,
		repo:    repo,
		engine:  engine,
		logger:  options.logger,
	}, nil
}

// Close releases the store. Queries after Close return empty results.
func (s *Service) Close() error {
	if err := s.repo.Close(); err != nil {
		s.logger.Error("error closing tariff repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Initialize loads the dataset into the store if it is not already there.
// Returns true when a fresh bulk load happened, false when existing data was
// kept (or the load failed). Serialized: a second call while one is in
// flight waits and then observes the first call's outcome.
func (s *Service) Initialize(ctx context.Context, src dataset.Source, opts InitOptions) (bool, error) {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	report := func(phase Phase, loaded, total int, message string) {
		if opts.OnProgress != nil {
			opts.OnProgress(phase, loaded, total, message)
		}
	}

	if src == nil {
		report(PhaseError, 0, 0, "no dataset source")
		return false, dataset.ErrSourceRequired
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("error counting stored records", "err", err)
		report(PhaseError, 0, 0, "storage unavailable")
		return false, err
	}
	if count > 0 && !opts.Force {
		report(PhaseCached, count, count, "dataset already loaded")
		return false, nil
	}

	report(PhaseLoadData, 0, 0, "loading dataset")
	raw, err := src.Load(ctx)
	if err != nil {
		s.logger.Error("error loading dataset source", "err", err)
		report(PhaseError, 0, 0, "dataset load failed")
		return false, err
	}

	records, dropped := core.NormalizeRecords(raw)
	if dropped > 0 {
		s.logger.Warn("dropped malformed dataset records", "dropped", dropped, "kept", len(records))
	}
	report(PhaseLoadData, len(records), len(records), "dataset loaded")

	fingerprint := core.FingerprintRecords(records)
	if err := s.repo.ReplaceAll(ctx, records, fingerprint); err != nil {
		s.logger.Error("error persisting dataset", "records", len(records), "err", err)
		report(PhaseError, 0, len(records), "storage write failed")
		return false, err
	}

	// The old generation's caches must not serve the new data.
	s.engine.ResetCaches()

	report(PhaseIndexing, 0, len(records), "building indexes")
	if err := s.engine.Warm(ctx); err != nil {
		// Queries rebuild lazily; the load itself succeeded.
		s.logger.Warn("eager index build failed", "err", err)
	}

	s.logger.Info("dataset initialized",
		"records", len(records),
		"generation", uint64(fingerprint))
	report(PhaseDone, len(records), len(records), "ready")
	return true, nil
}

// GetAllData returns every record in stable root order, capped at the
// default item limit. Failures yield an empty slice.
func (s *Service) GetAllData(ctx context.Context) []*core.Row {
	return s.engine.GetAll(ctx)
}

// SearchByFields answers a compound query: codePrefix filters codes
// lexicographically, textQuery searches descriptions; either may be empty.
// Rows that were text hits carry highlight markup. Failures yield an empty
// slice, never an error.
func (s *Service) SearchByFields(ctx context.Context, codePrefix, textQuery string, limits *query.Limits) []*core.Row {
	return s.engine.Search(ctx, codePrefix, textQuery, limits)
}

// BuildTreeFromList converts a flat row list (as returned by GetAllData or
// SearchByFields) into a nested tree with deterministic sibling ordering.
func (s *Service) BuildTreeFromList(rows []*core.Row) []*core.Node {
	return hierarchy.BuildTree(rows)
}

// Generation returns the fingerprint of the loaded dataset, or 0 when the
// store is empty.
func (s *Service) Generation(ctx context.Context) core.ID {
	id, err := s.repo.Fingerprint(ctx)
	if err != nil {
		s.logger.Error("error reading dataset fingerprint", "err", err)
		return 0
	}
	return id
}

// Snapshot exposes the materialized snapshot for callers that need direct
// root-bucket access.
func (s *Service) Snapshot(ctx context.Context) (*hierarchy.Snapshot, error) {
	return s.engine.Snapshot(ctx)
}
