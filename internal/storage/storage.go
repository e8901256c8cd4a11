package storage

import "io"

// Storage keeps raw payload snapshots keyed by run ID.
type Storage interface {
	// Store writes a payload and returns the number of bytes written.
	Store(runID string, data io.Reader) (int64, error)

	// Retrieve returns a ReadCloser for the stored payload.
	Retrieve(runID string) (io.ReadCloser, error)

	// Delete removes the stored payload.
	Delete(runID string) error

	// Exists checks whether a payload exists for runID.
	Exists(runID string) (bool, error)

	// Latest returns the run ID of the most recently written payload.
	Latest() (string, error)
}
