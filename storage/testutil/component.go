package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/mitlibraries/carbon/component"
	"github.com/mitlibraries/carbon/storage"
	"github.com/mitlibraries/carbon/testutil"
)

// Sink is an in-memory transfer sink that records uploads and can be told
// to fail. It implements component.Component, testutil.TestComponent and
// storage.Storage.
type Sink struct {
	// CheckErr is returned by Check.
	CheckErr error
	// UploadErr is returned by Upload after reading FailAfter bytes.
	UploadErr error
	// FailAfter is how many bytes Upload reads before failing with UploadErr.
	FailAfter int

	files   map[string][]byte
	uploads int
	checks  int
	started bool
	mu      sync.Mutex
}

var (
	_ component.Component    = (*Sink)(nil)
	_ testutil.TestComponent = (*Sink)(nil)
	_ storage.Storage        = (*Sink)(nil)
)

// NewSink creates a started in-memory sink.
func NewSink() *Sink {
	return &Sink{files: make(map[string][]byte), started: true}
}

// --- component.Component ---

func (s *Sink) Name() string { return "sink-test" }

func (s *Sink) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	s.started = true
	return nil
}

func (s *Sink) Stop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	return nil
}

// --- testutil.TestComponent ---

func (s *Sink) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
	s.uploads = 0
	s.checks = 0
	s.CheckErr = nil
	s.UploadErr = nil
	s.FailAfter = 0
	return nil
}

// --- storage.Storage ---

func (s *Sink) Check(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks++
	if !s.started {
		return fmt.Errorf("sink not started")
	}
	return s.CheckErr
}

// Upload drains reader into memory. With UploadErr set it reads FailAfter
// bytes, stops reading and fails, the way a rejected transfer abandons the
// stream.
func (s *Sink) Upload(_ context.Context, path string, reader io.Reader) error {
	s.mu.Lock()
	s.uploads++
	failErr, failAfter := s.UploadErr, s.FailAfter
	s.mu.Unlock()

	if failErr != nil {
		io.CopyN(io.Discard, reader, int64(failAfter)) //nolint:errcheck // failing anyway
		return failErr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read upload data: %w", err)
	}

	s.mu.Lock()
	s.files[path] = data
	s.mu.Unlock()
	return nil
}

// Location returns a mem:// URL.
func (s *Sink) Location(path string) string { return "mem://" + path }

// File returns what was uploaded to path.
func (s *Sink) File(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	return data, ok
}

// Uploads returns how many uploads were attempted.
func (s *Sink) Uploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

// Checks returns how many checks were run.
func (s *Sink) Checks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checks
}
