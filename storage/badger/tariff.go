package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/kosdata/tarik/core"
	"github.com/kosdata/tarik/storage"
)

// TariffRepository implements storage.TariffRepository for BadgerDB.
type TariffRepository struct {
	backend *Backend
}

var _ storage.TariffRepository = (*TariffRepository)(nil)

// NewTariffRepository creates a new TariffRepository.
func NewTariffRepository(backend *Backend) *TariffRepository {
	return &TariffRepository{backend: backend}
}

// Close implements storage.TariffRepository. The repository holds no
// resources of its own; the backend is closed by its owner.
func (r *TariffRepository) Close() error {
	return nil
}

// Count returns the number of persisted tariff records.
func (r *TariffRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(tarrecPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceAll clears all records and inserts the given set in one write
// transaction. The dataset fingerprint is stored alongside, so readers see
// records and fingerprint move together.
func (r *TariffRepository) ReplaceAll(ctx context.Context, records []*core.TariffRecord, fingerprint core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		// Collect existing keys first; deleting while iterating is not
		// supported by badger iterators.
		var stale [][]byte
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(tarrecPrefix)
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			stale = append(stale, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range stale {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}

		for _, record := range records {
			value, err := storage.MarshalRecord(record)
			if err != nil {
				return err
			}
			if err := tx.Set(makeRecordKey(record.Code), value); err != nil {
				return err
			}
		}

		if err := tx.Set([]byte(datasetMetaKey), core.EncodeID(fingerprint)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ScanCodePrefix returns records whose code starts with prefix, in
// lexicographic code order. limit <= 0 means unbounded.
func (r *TariffRepository) ScanCodePrefix(ctx context.Context, prefix string, limit int) ([]*core.TariffRecord, error) {
	var records []*core.TariffRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeScanPrefix(prefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if limit > 0 && len(records) >= limit {
				return nil
			}
			var record *core.TariffRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetAll returns every persisted record in lexicographic code order.
func (r *TariffRepository) GetAll(ctx context.Context) ([]*core.TariffRecord, error) {
	return r.ScanCodePrefix(ctx, "", 0)
}

// Fingerprint returns the stored dataset fingerprint, or 0 for an empty or
// never-initialized store.
func (r *TariffRepository) Fingerprint(ctx context.Context) (core.ID, error) {
	var id core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(datasetMetaKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			id, err = core.DecodeID(val)
			return err
		})
	}, false)
	if err != nil {
		return 0, err
	}
	return id, nil
}
