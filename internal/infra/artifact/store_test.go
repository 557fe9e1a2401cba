package artifact_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paper-digest/internal/infra/artifact"
)

func newStore(t *testing.T) *artifact.Store {
	t.Helper()
	s, err := artifact.NewStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return s
}

func TestStore_SaveAndOpen(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save(context.Background(), artifact.DefaultName, "first"))
	require.NoError(t, s.Save(context.Background(), artifact.DefaultName, "second summary"))

	r, size, err := s.Open(artifact.DefaultName)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "second summary", string(data))
	assert.Equal(t, int64(len("second summary")), size)

	// no temp files are left behind
	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_OpenMissing(t *testing.T) {
	s := newStore(t)

	_, _, err := s.Open("nothing.txt")
	assert.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestStore_RejectsUnsafeNames(t *testing.T) {
	s := newStore(t)

	for _, name := range []string{"", "../secret", "a/b.txt", `a\b.txt`, ".env", "..", "x\x00y"} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Save(context.Background(), name, "x"), artifact.ErrInvalidName)
			_, _, err := s.Open(name)
			assert.ErrorIs(t, err, artifact.ErrInvalidName)
		})
	}
}

func TestStore_SaveHonorsContext(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Save(ctx, "a.txt", "x"), context.Canceled)
}

func TestStore_SaveFrom(t *testing.T) {
	s := newStore(t)

	path, err := s.SaveFrom(context.Background(), "paper.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "paper.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestStore_SaveFromFailedReadLeavesNothing(t *testing.T) {
	s := newStore(t)

	_, err := s.SaveFrom(context.Background(), "paper.pdf", iotest.ErrReader(errors.New("connection reset")))
	require.Error(t, err)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
