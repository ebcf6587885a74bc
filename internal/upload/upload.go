// Package upload stages file-field payloads. A staged file is referenced
// from the value store by an opaque key and travels on the order payload as
// its display name; the bytes live in S3 or on the local file system.
package upload

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store is the staging boundary for file-field payloads.
type Store interface {
	// Save stages the content under a fresh opaque reference and returns it.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)

	// Remove deletes a staged payload. Removing an unknown reference is
	// not an error; clearing a file field must always succeed locally.
	Remove(ctx context.Context, ref string) error
}

// newRef derives a collision-free storage key, keeping the original
// extension so staged objects stay recognizable.
func newRef(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	return uuid.NewString() + ext
}
