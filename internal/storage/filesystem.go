package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no snapshot matches the request.
var ErrNotFound = errors.New("snapshot not found")

// Compile-time check that FileSystem implements Storage.
var _ Storage = (*FileSystem)(nil)

const payloadName = "payload.json"

// FileSystem implements Storage using the local filesystem.
// Payloads are stored at <basePath>/<runID>/payload.json.
type FileSystem struct {
	basePath string
}

// NewFileSystem creates a new FileSystem storage rooted at basePath.
func NewFileSystem(basePath string) *FileSystem {
	return &FileSystem{basePath: basePath}
}

// NewRunID returns a fresh identifier for a snapshot.
func NewRunID() string {
	return uuid.New().String()
}

func checkRunID(runID string) error {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) {
		return fmt.Errorf("invalid run id %q", runID)
	}
	return nil
}

func (fs *FileSystem) runPath(runID string) string {
	return filepath.Join(fs.basePath, runID)
}

func (fs *FileSystem) payloadPath(runID string) string {
	return filepath.Join(fs.runPath(runID), payloadName)
}

// Path returns the on-disk location of the payload for runID.
func (fs *FileSystem) Path(runID string) string {
	return fs.payloadPath(runID)
}

// Store writes data from the reader to disk using atomic write (temp file + rename).
// It returns the number of bytes written.
func (fs *FileSystem) Store(runID string, data io.Reader) (int64, error) {
	if err := checkRunID(runID); err != nil {
		return 0, err
	}

	dir := fs.runPath(runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "snapshot-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmp, data)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("writing data: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temp file: %w", err)
	}

	dst := fs.payloadPath(runID)
	if err := os.Rename(tmpPath, dst); err != nil {
		return 0, fmt.Errorf("renaming temp file to %s: %w", dst, err)
	}
	tmpPath = ""

	return n, nil
}

// Retrieve opens the stored payload and returns an io.ReadCloser.
func (fs *FileSystem) Retrieve(runID string) (io.ReadCloser, error) {
	if err := checkRunID(runID); err != nil {
		return nil, err
	}
	path := fs.payloadPath(runID)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	return f, nil
}

// Delete removes the entire <runID>/ directory.
// It is idempotent: deleting a non-existent snapshot returns no error.
func (fs *FileSystem) Delete(runID string) error {
	if err := checkRunID(runID); err != nil {
		return err
	}
	dir := fs.runPath(runID)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing directory %s: %w", dir, err)
	}
	return nil
}

// Exists checks whether the payload file exists on disk.
func (fs *FileSystem) Exists(runID string) (bool, error) {
	if err := checkRunID(runID); err != nil {
		return false, err
	}
	path := fs.payloadPath(runID)
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking file %s: %w", path, err)
}

// Latest returns the run whose payload has the newest modification time.
func (fs *FileSystem) Latest() (string, error) {
	entries, err := os.ReadDir(fs.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading %s: %w", fs.basePath, err)
	}

	var (
		latest   string
		latestAt time.Time
	)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := os.Stat(fs.payloadPath(e.Name()))
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestAt) {
			latest, latestAt = e.Name(), info.ModTime()
		}
	}
	if latest == "" {
		return "", ErrNotFound
	}
	return latest, nil
}
