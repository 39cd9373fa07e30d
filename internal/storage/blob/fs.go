// Package blob implements the BlobStore backends: a billy filesystem for local
// disk and tests, MinIO, and S3.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"drive/internal/domain/services"
)

// FSStore keeps blobs as files in a billy filesystem. The ref is the
// slash-separated path inside the filesystem.
type FSStore struct {
	fs     billy.Filesystem
	logger *slog.Logger
}

var _ services.BlobStore = (*FSStore)(nil)

// NewFSStore wraps an existing billy filesystem
func NewFSStore(filesystem billy.Filesystem, logger *slog.Logger) *FSStore {
	return &FSStore{fs: filesystem, logger: logger}
}

// NewLocalStore stores blobs under dir on the local disk
func NewLocalStore(dir string, logger *slog.Logger) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return NewFSStore(osfs.New(dir, osfs.WithBoundOS()), logger), nil
}

// NewMemoryStore keeps blobs in memory
func NewMemoryStore(logger *slog.Logger) *FSStore {
	return NewFSStore(memfs.New(), logger)
}

// Put writes r to p, replacing any previous content
func (s *FSStore) Put(ctx context.Context, p string, r io.Reader, size int64, contentType string) (string, error) {
	ref, err := cleanRef(p)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if dir := path.Dir(ref); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("create blob dir: %w", err)
		}
	}

	f, err := s.fs.Create(ref)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}

	written, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr == nil && size >= 0 && written != size {
		copyErr = fmt.Errorf("short write: got %d bytes, expected %d", written, size)
	}
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = s.fs.Remove(ref)
		return "", fmt.Errorf("write blob: %w", err)
	}

	s.logger.Debug("blob stored", "ref", ref, "size", written, "content_type", contentType)
	return ref, nil
}

// Delete removes a blob. A missing blob is not an error.
func (s *FSStore) Delete(ctx context.Context, ref string) error {
	clean, err := cleanRef(ref)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(clean); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

// Exists reports whether a blob is present
func (s *FSStore) Exists(ctx context.Context, ref string) (bool, error) {
	clean, err := cleanRef(ref)
	if err != nil {
		return false, err
	}
	if _, err := s.fs.Stat(clean); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat blob: %w", err)
	}
	return true, nil
}

// cleanRef rejects refs that would escape the store root
func cleanRef(ref string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(ref))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", fmt.Errorf("invalid blob ref %q", ref)
	}
	return clean, nil
}
