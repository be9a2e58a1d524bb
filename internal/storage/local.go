package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/seoportal-backend/internal/logger"
)

type localStore struct {
	log     *logger.Logger
	root    string
	baseURL string
}

// NewLocalStore writes files under root, mirroring key paths as
// subdirectories. baseURL is prepended for PublicURL.
func NewLocalStore(log *logger.Logger, root, baseURL string) (Store, error) {
	storeLog := log.With("store", "LocalStore")
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("local store requires a root directory")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("Failed to create local store root %q: %w", root, err)
	}
	return &localStore{log: storeLog, root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *localStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *localStore) Put(ctx context.Context, key string, r io.Reader) error {
	dest := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("Failed to create directory for %q: %w", key, err)
	}
	// O_EXCL: keys are unique by construction, an existing file means a bug.
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("Failed to create file for %q: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("Failed to write file for %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("Failed to close file for %q: %w", key, err)
	}
	return nil
}

func (s *localStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("Failed to open file for %q: %w", key, err)
	}
	return f, nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil {
		return fmt.Errorf("Failed to delete file for %q: %w", key, err)
	}
	return nil
}

func (s *localStore) PublicURL(key string) string {
	if s.baseURL == "" {
		return "/media/" + key
	}
	return s.baseURL + "/" + key
}
