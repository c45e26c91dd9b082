// Package ftps delivers feeds over FTP with explicit TLS.
package ftps

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"path"

	"github.com/jlaffaye/ftp"

	"github.com/mitlibraries/carbon/logger"
	"github.com/mitlibraries/carbon/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderFTPS, func(cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		return NewStorage(cfg, log), nil
	})
}

// Storage implements storage.Storage over FTP. Each Upload and Check opens
// its own control connection.
type Storage struct {
	cfg storage.Config
	log *logger.Logger
}

// NewStorage prepares an FTP sink. It does not connect.
func NewStorage(cfg storage.Config, log *logger.Logger) *Storage {
	if log == nil {
		log = logger.Nop()
	}
	return &Storage{cfg: cfg, log: log}
}

// Name returns "ftps".
func (s *Storage) Name() string { return storage.ProviderFTPS }

func (s *Storage) connect(ctx context.Context) (*ftp.ServerConn, error) {
	opts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(s.cfg.TimeoutDuration()),
	}
	if s.cfg.TLS {
		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName:         s.cfg.Host,
			InsecureSkipVerify: s.cfg.InsecureSkipVerify, //nolint:gosec // opt-in for test endpoints
			MinVersion:         tls.VersionTLS12,
		}))
	}

	conn, err := ftp.Dial(s.cfg.Address(), opts...)
	if err != nil {
		return nil, err
	}
	if err := conn.Login(s.cfg.User, s.cfg.Password); err != nil {
		conn.Quit()
		return nil, err
	}
	return conn, nil
}

// countingReader counts bytes handed to the data connection.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Upload streams reader to remotePath with STOR.
func (s *Storage) Upload(ctx context.Context, remotePath string, reader io.Reader) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return storage.FromTransfer(err, s.Name())
	}
	defer conn.Quit() //nolint:errcheck // the upload result is already known

	cr := &countingReader{r: reader}
	if err := conn.Stor(remotePath, cr); err != nil {
		return storage.FromTransfer(fmt.Errorf("stor %s: %w", remotePath, err), s.Name())
	}

	s.log.Debug("Uploaded feed", map[string]interface{}{
		logger.FieldDestination: s.Location(remotePath),
		logger.FieldBytes:       cr.n,
	})
	return nil
}

// Check logs in and confirms the target directory is reachable.
func (s *Storage) Check(ctx context.Context) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return storage.FromTransfer(err, s.Name())
	}
	defer conn.Quit() //nolint:errcheck // nothing to roll back

	if s.cfg.Path != "" {
		if err := conn.ChangeDir(path.Dir(s.cfg.Path)); err != nil {
			return storage.FromTransfer(err, s.Name())
		}
		return nil
	}
	if err := conn.NoOp(); err != nil {
		return storage.FromTransfer(err, s.Name())
	}
	return nil
}

// Location returns an ftp:// URL for remotePath.
func (s *Storage) Location(remotePath string) string {
	return fmt.Sprintf("ftp://%s@%s%s", s.cfg.User, s.cfg.Address(), remotePath)
}

var (
	_ storage.Storage = (*Storage)(nil)
	_ storage.Locator = (*Storage)(nil)
)
