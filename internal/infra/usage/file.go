package usage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrCorrupt indicates that the counter file does not hold a non-negative integer.
var ErrCorrupt = errors.New("usage counter file is corrupt")

// FileStore keeps the count as decimal text in a single file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore writing to path. The parent directory is
// created on the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load implements Store. A missing file counts as zero.
func (s *FileStore) Load(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read %s: %w", s.path, err)
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrCorrupt, raw)
	}
	return n, nil
}

// Save implements Store. The file is replaced atomically.
func (s *FileStore) Save(ctx context.Context, n int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".usage-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(strconv.FormatInt(n, 10)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write usage count: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close usage count: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}
