package sftp

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	apperrors "github.com/mitlibraries/carbon/errors"
	"github.com/mitlibraries/carbon/storage"
)

type testServer struct {
	host    string
	port    int
	hostKey string
}

// startServer runs an in-memory SFTP server accepting user "carbon" with
// password "secret".
func startServer(t *testing.T) *testServer {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}

	cfg := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if c.User() == "carbon" && string(pass) == "secret" {
				return nil, nil
			}
			return nil, fmt.Errorf("password rejected for %s", c.User())
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	handlers := sftp.InMemHandler()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveConn(conn, cfg, handlers)
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return &testServer{
		host:    addr.IP.String(),
		port:    addr.Port,
		hostKey: string(ssh.MarshalAuthorizedKey(signer.PublicKey())),
	}
}

func serveConn(conn net.Conn, cfg *ssh.ServerConfig, handlers sftp.Handlers) {
	_, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		conn.Close()
		return
	}
	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			newCh.Reject(ssh.UnknownChannelType, "unsupported")
			continue
		}
		ch, requests, err := newCh.Accept()
		if err != nil {
			continue
		}
		go func() {
			for req := range requests {
				ok := req.Type == "subsystem" && len(req.Payload) > 4 && string(req.Payload[4:]) == "sftp"
				req.Reply(ok, nil)
				if ok {
					srv := sftp.NewRequestServer(ch, handlers)
					srv.Serve()
					srv.Close()
					ch.Close()
					return
				}
			}
		}()
	}
}

func (ts *testServer) config() storage.Config {
	cfg := storage.Config{
		Provider: storage.ProviderSFTP,
		Host:     ts.host,
		Port:     ts.port,
		User:     "carbon",
		Password: "secret",
		Path:     "/people.xml",
		HostKey:  ts.hostKey,
	}
	cfg.ApplyDefaults()
	return cfg
}

func newStorage(t *testing.T, cfg storage.Config) *Storage {
	t.Helper()
	s, err := NewStorage(cfg, nil)
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}
	return s
}

func TestUploadAndReadBack(t *testing.T) {
	ts := startServer(t)
	s := newStorage(t, ts.config())
	ctx := context.Background()

	body := strings.Repeat("<record/>", 10000)
	if err := s.Upload(ctx, "/people.xml", strings.NewReader(body)); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	sess, err := s.connect(ctx)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer sess.Close()
	f, err := sess.sftp.Open("/people.xml")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != body {
		t.Errorf("expected %d bytes back, got %d", len(body), len(got))
	}
}

func TestCheck(t *testing.T) {
	ts := startServer(t)
	if err := newStorage(t, ts.config()).Check(context.Background()); err != nil {
		t.Errorf("Check failed: %v", err)
	}
}

func TestCheckWrongPassword(t *testing.T) {
	ts := startServer(t)
	cfg := ts.config()
	cfg.Password = "wrong"

	err := newStorage(t, cfg).Check(context.Background())
	if !apperrors.HasCode(err, apperrors.ErrCodeTransferAuth) {
		t.Errorf("expected TRANSFER_AUTH, got %v", err)
	}
}

func TestCheckHostKeyMismatch(t *testing.T) {
	ts := startServer(t)
	other := startServer(t)
	cfg := ts.config()
	cfg.HostKey = other.hostKey

	err := newStorage(t, cfg).Check(context.Background())
	if err == nil {
		t.Fatal("expected host key mismatch to fail")
	}
	if apperrors.CodeOf(err) == "" {
		t.Errorf("expected a transfer error code, got %v", err)
	}
}

func TestCheckUnreachable(t *testing.T) {
	ln, _ := net.Listen("tcp", "127.0.0.1:0")
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	cfg := storage.Config{Provider: storage.ProviderSFTP, Host: "127.0.0.1", Port: port, User: "carbon"}
	cfg.ApplyDefaults()
	err := newStorage(t, cfg).Check(context.Background())
	if !apperrors.HasCode(err, apperrors.ErrCodeTransferConnection) {
		t.Errorf("expected TRANSFER_CONNECTION, got %v", err)
	}
}

func TestNewStorageBadHostKey(t *testing.T) {
	cfg := storage.Config{Host: "h", Port: 22, User: "u", HostKey: "not a key"}
	if _, err := NewStorage(cfg, nil); err == nil {
		t.Error("expected parse error for bad host key")
	}
}

func TestLocation(t *testing.T) {
	s := newStorage(t, storage.Config{Host: "sftp.example.com", Port: 22, User: "carbon"})
	if got := s.Location("/prod/people.xml"); got != "sftp://carbon@sftp.example.com:22/prod/people.xml" {
		t.Errorf("unexpected location %q", got)
	}
}
