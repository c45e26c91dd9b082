package storage

import (
	"context"
	"io"
)

// Storage is a sink that accepts one byte stream per upload.
type Storage interface {
	// Name returns the provider name, e.g. "sftp".
	Name() string

	// Upload streams reader to path. It must consume reader incrementally
	// and return only once reader reports EOF or an error, or the upload
	// itself fails.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Check connects and authenticates without transferring anything.
	Check(ctx context.Context) error
}

// Locator is optionally implemented by providers that can name where an
// upload to path ends up, for logs and notifications.
type Locator interface {
	Location(path string) string
}

// Location returns s's description of path, or path itself.
func Location(s Storage, path string) string {
	if l, ok := s.(Locator); ok {
		return l.Location(path)
	}
	return path
}
