// Package local delivers feeds to a directory on the local filesystem.
package local

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitlibraries/carbon/logger"
	"github.com/mitlibraries/carbon/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		return NewStorage(cfg.BasePath, log)
	})
}

// Storage implements storage.Storage using the local filesystem.
type Storage struct {
	basePath string
	log      *logger.Logger
}

// NewStorage creates a local storage rooted at basePath.
func NewStorage(basePath string, log *logger.Logger) (*Storage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Storage{basePath: abs, log: log}, nil
}

// Name returns "local".
func (s *Storage) Name() string { return storage.ProviderLocal }

// Upload copies reader into a temporary file next to the target and renames
// it into place once reader is exhausted, so a failed feed never replaces a
// good one.
func (s *Storage) Upload(_ context.Context, path string, reader io.Reader) error {
	fullPath := s.resolve(path)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return storage.FromTransfer(fmt.Errorf("create directory: %w", err), s.Name())
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*")
	if err != nil {
		return storage.FromTransfer(fmt.Errorf("create file: %w", err), s.Name())
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	n, err := io.Copy(tmp, reader)
	if err != nil {
		tmp.Close()
		return storage.FromTransfer(fmt.Errorf("write file: %w", err), s.Name())
	}
	if err := tmp.Close(); err != nil {
		return storage.FromTransfer(fmt.Errorf("close file: %w", err), s.Name())
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return storage.FromTransfer(fmt.Errorf("rename file: %w", err), s.Name())
	}

	s.log.Debug("Wrote feed", map[string]interface{}{
		logger.FieldDestination: fullPath,
		logger.FieldBytes:       n,
	})
	return nil
}

// Check verifies the base directory can be created and written to.
func (s *Storage) Check(_ context.Context) error {
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return storage.FromTransfer(fmt.Errorf("create base directory: %w", err), s.Name())
	}
	f, err := os.CreateTemp(s.basePath, ".carbon-check-*")
	if err != nil {
		return storage.FromTransfer(fmt.Errorf("base directory not writable: %w", err), s.Name())
	}
	f.Close()
	return os.Remove(f.Name())
}

// Location returns a file:// URL for path.
func (s *Storage) Location(path string) string {
	u := &url.URL{Scheme: "file", Path: s.resolve(path)}
	return u.String()
}

func (s *Storage) resolve(path string) string {
	return filepath.Join(s.basePath, filepath.Clean("/"+strings.TrimPrefix(path, "/")))
}

var (
	_ storage.Storage = (*Storage)(nil)
	_ storage.Locator = (*Storage)(nil)
)
