package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DiskStore keeps uploaded assets as files under a single directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create upload folder: %v", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the stream to a uniquely named file, keeping the original
// extension so the file stays servable by content type.
func (s *DiskStore) Save(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := filepath.Ext(suggestedName)
	ref := uuid.NewString() + ext
	path := filepath.Join(s.dir, ref)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %v", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %v", err)
	}
	return ref, nil
}

// Delete removes the file. A missing file is treated as already deleted.
func (s *DiskStore) Delete(ref string) error {
	err := os.Remove(filepath.Join(s.dir, ref))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}

// URL builds the path the static file server exposes uploads under.
func (s *DiskStore) URL(ref string) string {
	return "/uploads/" + ref
}
