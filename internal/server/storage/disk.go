package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/linkdrop/internal/filex"
)

// availableSpace is a seam for tests.
var availableSpace = filex.AvailableSpace

// DiskStore writes uploads straight into the link folder.
type DiskStore struct{}

func NewDiskStore() *DiskStore {
	return &DiskStore{}
}

func (s *DiskStore) Exists(_ context.Context, folder, name string) (bool, error) {
	_, err := os.Lstat(filepath.Join(folder, name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (s *DiskStore) CheckSpace(_ context.Context, folder string, size int64) error {
	free, err := availableSpace(folder)
	if err != nil {
		return fmt.Errorf("free space of %s: %w", folder, err)
	}
	if size > free {
		return ErrInsufficientSpace
	}
	return nil
}

func (s *DiskStore) Save(ctx context.Context, folder, name string, r io.Reader) (int64, error) {
	path := filepath.Join(folder, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, ErrExists
		}
		return 0, err
	}

	n, err := copyChunks(ctx, f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// do not leave a truncated file behind
		_ = os.Remove(path)
		return n, err
	}
	return n, nil
}
