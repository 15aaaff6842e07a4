package storage

import (
	"context"

	"github.com/kosdata/tarik/core"
)

// TariffRepository provides durable storage for the tariff dataset.
// Implementations must be thread-safe for concurrent readers.
type TariffRepository interface {
	// Count returns the number of persisted records. Used to decide
	// whether an initial load is needed.
	Count(ctx context.Context) (int, error)

	// ReplaceAll clears all records and inserts the given set inside one
	// atomic transaction, together with the dataset fingerprint. Readers
	// observe either the full old set or the full new set, never a mix.
	ReplaceAll(ctx context.Context, records []*core.TariffRecord, fingerprint core.ID) error

	// ScanCodePrefix returns records whose code starts with prefix, in
	// lexicographic code order, at most limit records. limit <= 0 means
	// unbounded.
	ScanCodePrefix(ctx context.Context, prefix string, limit int) ([]*core.TariffRecord, error)

	// GetAll returns every persisted record in lexicographic code order.
	GetAll(ctx context.Context) ([]*core.TariffRecord, error)

	// Fingerprint returns the stored dataset fingerprint, or 0 when the
	// store is empty.
	Fingerprint(ctx context.Context) (core.ID, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
