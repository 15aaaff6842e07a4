package query

import "errors"

var (
	// ErrRepositoryRequired is returned when a tariff repository is not provided.
	ErrRepositoryRequired = errors.New("tariff repository required")
)
