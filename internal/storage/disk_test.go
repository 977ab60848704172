package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perfectcherry/cherry-server/internal/config"
)

func newTestStore(t *testing.T) (*DiskStore, string, string) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Upload.UsersDir = filepath.Join(t.TempDir(), "users")
	cfg.Upload.Dir = filepath.Join(t.TempDir(), "uploads")

	store := NewDiskStore(cfg)
	require.NoError(t, store.Init())
	return store, cfg.Upload.UsersDir, cfg.Upload.Dir
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain name", input: "photo.png", want: "photo.png"},
		{name: "surrounding whitespace", input: "  photo.png ", want: "photo.png"},
		{name: "path stripped to base", input: "holiday/photo.png", want: "photo.png"},
		{name: "parent traversal", input: "../../etc/passwd", wantErr: true},
		{name: "embedded traversal", input: "a/../../b.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTraversal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSave_WritesBothDirectories(t *testing.T) {
	store, usersDir, uploadDir := newTestStore(t)

	require.NoError(t, store.Save("a.png", []byte("bytes")))

	archived, err := os.ReadFile(filepath.Join(usersDir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), archived)

	served, err := os.ReadFile(filepath.Join(uploadDir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), served)
}

func TestSave_ArchiveIsExclusive(t *testing.T) {
	store, usersDir, _ := newTestStore(t)

	require.NoError(t, store.Save("a.png", []byte("v1")))
	// same name again hits the O_EXCL create
	err := store.Save("a.png", []byte("v2"))
	assert.ErrorIs(t, err, os.ErrExist)

	archived, readErr := os.ReadFile(filepath.Join(usersDir, "a.png"))
	require.NoError(t, readErr)
	assert.Equal(t, []byte("v1"), archived)
}

func TestSave_ServingWriteReplaces(t *testing.T) {
	store, _, uploadDir := newTestStore(t)

	// a stale copy in the serving dir only does not block the save
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "a.png"), []byte("stale"), 0o644))
	require.NoError(t, store.Save("a.png", []byte("fresh")))

	served, err := os.ReadFile(filepath.Join(uploadDir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), served)
}
