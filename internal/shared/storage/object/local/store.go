package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cv-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using the local filesystem. Returned URLs use
// the server's /uploads path, mirroring where the file lands under baseDir.
type Store struct {
	baseDir string
	baseURL string
}

// New creates a local object store rooted at baseDir. baseURL is the public
// address of this server, used to build returned URLs.
func New(baseDir, baseURL string) *Store {
	return &Store{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Put writes data to disk under the given key and returns a locally resolvable URL.
func (s *Store) Put(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	fullPath := filepath.Join(s.baseDir, clean)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	_ = contentType

	return fmt.Sprintf("%s/uploads/%s", s.baseURL, clean), nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid storage key")
	}

	return os.Open(filepath.Join(s.baseDir, clean))
}

var _ object.ObjectStore = (*Store)(nil)
