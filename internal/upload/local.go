package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// localStore implements Store on a local directory. It is the fallback
// when S3 staging is disabled or unavailable.
type localStore struct {
	dir    string
	logger zerolog.Logger
}

// NewLocalStore creates a directory-backed staging store, creating the
// directory if needed.
func NewLocalStore(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &localStore{
		dir:    dir,
		logger: logger.With().Str("component", "local-upload-store").Logger(),
	}, nil
}

// Save stages the content into the directory under a fresh reference.
func (s *localStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref := newRef(filename)
	target := filepath.Join(s.dir, ref)

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create staged file %s: %w", target, err)
	}

	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to stage file %s: %w", filename, err)
	}

	s.logger.Debug().
		Str("ref", ref).
		Str("filename", filename).
		Int64("bytes", written).
		Msg("file staged locally")

	return ref, nil
}

// Remove deletes a staged file. Unknown references are ignored.
func (s *localStore) Remove(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Refs are generated, never caller-supplied paths; Base guards anyway.
	target := filepath.Join(s.dir, filepath.Base(ref))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove staged file %s: %w", ref, err)
	}
	return nil
}
