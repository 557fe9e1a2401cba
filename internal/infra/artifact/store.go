// Package artifact stores uploaded papers and generated summaries as files
// under the upload directory.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultName is the file written when the caller does not choose one.
const DefaultName = "summary.txt"

var (
	// ErrInvalidName indicates a name that is empty, hidden or escapes the store directory.
	ErrInvalidName = errors.New("invalid artifact name")

	// ErrNotFound indicates that no artifact with the given name exists.
	ErrNotFound = errors.New("artifact not found")
)

// Store keeps artifacts as files under a single directory.
type Store struct {
	dir string
}

// NewStore creates the directory if needed and returns a Store rooted at it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes text to name, replacing any previous content atomically.
func (s *Store) Save(ctx context.Context, name, text string) error {
	_, err := s.SaveFrom(ctx, name, strings.NewReader(text))
	return err
}

// SaveFrom copies r into name, replacing any previous content atomically,
// and returns the path of the written file.
func (s *Store) SaveFrom(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.path(name)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".artifact-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename artifact: %w", err)
	}
	return path, nil
}

// Open returns a reader for name along with its size. The caller closes it.
func (s *Store) Open(name string) (io.ReadSeekCloser, int64, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(path) // #nosec G304 -- name is validated by s.path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, 0, fmt.Errorf("open artifact: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat artifact: %w", err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f, info.Size(), nil
}

// path resolves name inside the store directory.
func (s *Store) path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// ValidateName rejects names with path separators, parent references or a leading dot.
func ValidateName(name string) error {
	switch {
	case name == "",
		strings.ContainsAny(name, `/\`),
		strings.Contains(name, ".."),
		strings.HasPrefix(name, "."),
		strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
