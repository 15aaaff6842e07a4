package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/kosdata/tarik/core"
)

// Source supplies the tariff dataset to Service.Initialize. Implementations
// load the complete record set in one shot; there is no incremental path.
type Source interface {
	Load(ctx context.Context) ([]*core.TariffRecord, error)
}

// FileSource loads the dataset from a JSON file on disk.
type FileSource string

var _ Source = FileSource("")

// Load reads and decodes the file.
func (s FileSource) Load(ctx context.Context) ([]*core.TariffRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(string(s))
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", string(s), err)
	}
	defer f.Close()
	return Decode(f)
}

// StaticSource serves an already materialized record slice. Used for bundled
// in-binary datasets and tests.
type StaticSource []*core.TariffRecord

var _ Source = StaticSource(nil)

// Load returns the records as-is.
func (s StaticSource) Load(ctx context.Context) ([]*core.TariffRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s, nil
}
