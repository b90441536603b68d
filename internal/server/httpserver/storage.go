package httpserver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophchat/internal/filex"
	"github.com/google/uuid"
)

var ErrBadFileName = errors.New("bad file name")

// LocalStore keeps inline uploads on disk.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

// Save writes data under a unique name derived from name and returns the
// stored path relative to the store directory.
func (s *LocalStore) Save(name string, data []byte) (string, error) {
	base := filex.SafeName(name)
	if base == "" {
		return "", fmt.Errorf("%w: %q", ErrBadFileName, name)
	}

	dir, err := filex.EnsureDir("", s.dir)
	if err != nil {
		return "", err
	}

	stored := uuid.NewString() + "-" + base
	if err := os.WriteFile(filepath.Join(dir, stored), data, 0o644); err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join(filepath.Base(dir), stored)), nil
}
