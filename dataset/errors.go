package dataset

import "errors"

var (
	// ErrMalformedSource indicates the bundled dataset could not be parsed.
	ErrMalformedSource = errors.New("malformed dataset source")

	// ErrSourceRequired is returned when a nil source is passed to a loader.
	ErrSourceRequired = errors.New("dataset source required")
)
