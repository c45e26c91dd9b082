// Package testutil provides an in-memory record source for feed tests.
package testutil

import (
	"context"
	"sync"

	"github.com/mitlibraries/carbon/feed"
	"github.com/mitlibraries/carbon/pipeline"
)

// Source serves fixed records per kind.
type Source struct {
	// CheckErr is returned by Check.
	CheckErr error
	// RecordsErr is returned by Records instead of a cursor.
	RecordsErr error
	// FailAfter, when FailErr is set, makes the cursor fail after that
	// many records.
	FailAfter int
	FailErr   error

	mu      sync.Mutex
	records map[feed.Kind][]feed.Record
	opened  int
	closed  int
	checks  int
}

var _ feed.Source = (*Source)(nil)

// NewSource returns a source serving records for kind.
func NewSource(kind feed.Kind, records ...feed.Record) *Source {
	return &Source{records: map[feed.Kind][]feed.Record{kind: records}}
}

// Add appends records for kind.
func (s *Source) Add(kind feed.Kind, records ...feed.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		s.records = map[feed.Kind][]feed.Record{}
	}
	s.records[kind] = append(s.records[kind], records...)
}

// Check counts the call and returns CheckErr.
func (s *Source) Check(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks++
	return s.CheckErr
}

// Records returns a cursor over the records of kind.
func (s *Source) Records(ctx context.Context, kind feed.Kind) (pipeline.Iterator[feed.Record], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RecordsErr != nil {
		return nil, s.RecordsErr
	}
	s.opened++
	it, err := pipeline.FromSlice(s.records[kind]).Iter(ctx)
	if err != nil {
		return nil, err
	}
	return &cursor{src: s, it: it}, nil
}

// Opened returns how many cursors were opened.
func (s *Source) Opened() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

// Closed returns how many cursors were closed.
func (s *Source) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Checks returns how many times Check was called.
func (s *Source) Checks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checks
}

type cursor struct {
	src    *Source
	it     pipeline.Iterator[feed.Record]
	n      int
	closed bool
}

func (c *cursor) Next(ctx context.Context) (feed.Record, bool, error) {
	if c.src.FailErr != nil && c.n >= c.src.FailAfter {
		return nil, false, c.src.FailErr
	}
	rec, ok, err := c.it.Next(ctx)
	if ok {
		c.n++
	}
	return rec, ok, err
}

func (c *cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.src.mu.Lock()
	c.src.closed++
	c.src.mu.Unlock()
	return c.it.Close()
}
