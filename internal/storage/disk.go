// Package storage writes uploaded image bytes to local disk.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/perfectcherry/cherry-server/internal/config"
)

// ErrTraversal marks a filename that still carries a parent-directory token
// after sanitizing. Callers must reject the file before any disk or DB write.
var ErrTraversal = errors.New("filename contains a path traversal token")

// DiskStore archives every accepted image into a fixed users directory and
// mirrors it into the serving directory.
type DiskStore struct {
	usersDir  string
	uploadDir string
}

func NewDiskStore(cfg *config.Config) *DiskStore {
	return &DiskStore{
		usersDir:  cfg.Upload.UsersDir,
		uploadDir: cfg.Upload.Dir,
	}
}

// Init creates both target directories.
func (s *DiskStore) Init() error {
	if err := os.MkdirAll(s.usersDir, 0o755); err != nil {
		return err
	}
	return os.MkdirAll(s.uploadDir, 0o755)
}

// Sanitize normalizes an uploaded filename and rejects traversal attempts.
// The returned name is always a bare base name.
func Sanitize(name string) (string, error) {
	cleaned := filepath.Clean(strings.TrimSpace(name))
	if strings.Contains(cleaned, "..") {
		return "", ErrTraversal
	}
	return filepath.Base(cleaned), nil
}

// Save performs the dual write: an exclusive create in the users directory
// (fails if a file of that name already exists there), then a replacing
// write in the serving directory.
//
// There is no cleanup of the first write if the second fails; a partial
// failure leaves the archived copy behind and surfaces as an upload error.
func (s *DiskStore) Save(name string, data []byte) error {
	f, err := os.OpenFile(filepath.Join(s.usersDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(s.uploadDir, name), data, 0o644)
}
