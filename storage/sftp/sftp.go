// Package sftp delivers feeds over SSH file transfer.
package sftp

import (
	"context"
	"fmt"
	"io"
	"net"
	"path"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/mitlibraries/carbon/logger"
	"github.com/mitlibraries/carbon/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderSFTP, func(cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		return NewStorage(cfg, log)
	})
}

// Storage implements storage.Storage over SFTP with password authentication.
// Each Upload and Check opens its own connection.
type Storage struct {
	cfg       storage.Config
	clientCfg *ssh.ClientConfig
	log       *logger.Logger
}

// NewStorage prepares an SFTP sink. It does not connect.
func NewStorage(cfg storage.Config, log *logger.Logger) (*Storage, error) {
	if log == nil {
		log = logger.Nop()
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey() //nolint:gosec // pinned below when configured
	if cfg.HostKey != "" {
		key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(cfg.HostKey))
		if err != nil {
			return nil, fmt.Errorf("sftp: parse host_key: %w", err)
		}
		hostKeyCallback = ssh.FixedHostKey(key)
	} else {
		log.Warn("No sftp host key configured, the server key will not be verified",
			map[string]interface{}{logger.FieldDestination: cfg.Address()})
	}

	return &Storage{
		cfg: cfg,
		clientCfg: &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
			HostKeyCallback: hostKeyCallback,
			Timeout:         cfg.TimeoutDuration(),
		},
		log: log,
	}, nil
}

// Name returns "sftp".
func (s *Storage) Name() string { return storage.ProviderSFTP }

type session struct {
	ssh  *ssh.Client
	sftp *sftp.Client
}

func (c *session) Close() error {
	c.sftp.Close()
	return c.ssh.Close()
}

func (s *Storage) connect(ctx context.Context) (*session, error) {
	addr := s.cfg.Address()
	dialer := net.Dialer{Timeout: s.cfg.TimeoutDuration()}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, s.clientCfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, err
	}
	return &session{ssh: sshClient, sftp: sftpClient}, nil
}

// Upload streams reader into remotePath, creating or truncating it. A
// failed upload can leave a partial file on the server.
func (s *Storage) Upload(ctx context.Context, remotePath string, reader io.Reader) error {
	sess, err := s.connect(ctx)
	if err != nil {
		return storage.FromTransfer(err, s.Name())
	}
	defer sess.Close()

	f, err := sess.sftp.Create(remotePath)
	if err != nil {
		return storage.FromTransfer(fmt.Errorf("create %s: %w", remotePath, err), s.Name())
	}

	n, err := io.Copy(f, reader)
	if err != nil {
		f.Close()
		return storage.FromTransfer(fmt.Errorf("write %s: %w", remotePath, err), s.Name())
	}
	if err := f.Close(); err != nil {
		return storage.FromTransfer(fmt.Errorf("close %s: %w", remotePath, err), s.Name())
	}

	s.log.Debug("Uploaded feed", map[string]interface{}{
		logger.FieldDestination: s.Location(remotePath),
		logger.FieldBytes:       n,
	})
	return nil
}

// Check connects, authenticates and confirms the target directory exists.
func (s *Storage) Check(ctx context.Context) error {
	sess, err := s.connect(ctx)
	if err != nil {
		return storage.FromTransfer(err, s.Name())
	}
	defer sess.Close()

	if s.cfg.Path == "" {
		_, err = sess.sftp.Getwd()
	} else {
		_, err = sess.sftp.Stat(path.Dir(s.cfg.Path))
	}
	if err != nil {
		return storage.FromTransfer(err, s.Name())
	}
	return nil
}

// Location returns an sftp:// URL for remotePath.
func (s *Storage) Location(remotePath string) string {
	return fmt.Sprintf("sftp://%s@%s%s", s.cfg.User, s.cfg.Address(), remotePath)
}

var (
	_ storage.Storage = (*Storage)(nil)
	_ storage.Locator = (*Storage)(nil)
)
