package menustore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/smokestack/backend/internal/domain/menu"
)

// FileSnapshotReader implements menu.SnapshotReader from a locally authored
// JSON file. The file is the canonical catalog; this reader never writes it.
type FileSnapshotReader struct {
	path string
}

// NewFileSnapshotReader creates a new FileSnapshotReader
func NewFileSnapshotReader(path string) *FileSnapshotReader {
	return &FileSnapshotReader{path: path}
}

// ReadSnapshot reads and parses the catalog snapshot. A missing file is
// menu.ErrSnapshotNotFound so callers can treat absence as a distinct
// precondition failure.
func (r *FileSnapshotReader) ReadSnapshot(ctx context.Context) (*menu.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", menu.ErrSnapshotNotFound, r.path)
		}
		return nil, fmt.Errorf("menustore: reading %s: %w", r.path, err)
	}

	var snapshot menu.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("menustore: parsing %s: %w", r.path, err)
	}

	// A well-formed file can still describe a broken catalog; never hand one
	// to callers.
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("menustore: invalid snapshot %s: %w", r.path, err)
	}
	return &snapshot, nil
}
