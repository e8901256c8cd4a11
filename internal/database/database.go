package database

import (
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when no stored country matches a lookup.
var ErrNotFound = errors.New("country not found")

// Database defines the persistence interface for the twin's dataset.
// Records are kept as the raw JSON elements they were loaded from so the
// twin can replay any payload, including ones that break the contract.
type Database interface {
	// ReplaceCountries swaps the whole dataset in one transaction, keeping
	// the given order.
	ReplaceCountries(records []json.RawMessage) error

	// ListCountries returns every record in stored order.
	ListCountries() ([]json.RawMessage, error)

	// GetCountry returns the first record whose cca2 or cca3 equals code,
	// ignoring case.
	GetCountry(code string) (json.RawMessage, error)

	CountCountries() (int, error)

	Close() error
}
