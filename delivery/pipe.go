// Package delivery overlaps feed production with its upload through an
// in-process pipe.
package delivery

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/mitlibraries/carbon/errors"
	"github.com/mitlibraries/carbon/logger"
	"github.com/mitlibraries/carbon/observability"
)

// DefaultBufferSize bounds how far the producer may run ahead of the
// consumer.
const DefaultBufferSize = 64 * 1024

var errProducerAborted = errors.New("delivery: producer aborted")

// Producer writes the whole stream to w.
type Producer func(w io.Writer) error

// Consumer reads r until EOF or error.
type Consumer func(r io.Reader) error

// Result describes a finished delivery.
type Result struct {
	// Bytes is the number of bytes handed to the consumer.
	Bytes    int64
	Duration time.Duration
}

// Pipe connects one producer to one consumer.
type Pipe struct {
	bufferSize int
	log        *logger.Logger
}

// Option configures a Pipe.
type Option func(*Pipe)

// WithBufferSize sets the producer-side buffer size.
func WithBufferSize(n int) Option {
	return func(p *Pipe) {
		if n > 0 {
			p.bufferSize = n
		}
	}
}

// WithLogger sets the pipe logger.
func WithLogger(log *logger.Logger) Option {
	return func(p *Pipe) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPipe returns a Pipe with a DefaultBufferSize buffer.
func NewPipe(opts ...Option) *Pipe {
	p := &Pipe{bufferSize: DefaultBufferSize, log: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.WithComponent("delivery")
	return p
}

// Run starts consume on a background goroutine, runs produce on the
// calling goroutine and returns once both have finished.
//
// The write end is closed on every path. A failed producer closes it with
// its error, so the consumer never reads a clean EOF from a truncated
// stream. A failed consumer closes the read end with its error, which
// releases a producer blocked on a write.
//
// The producer's error is returned when it failed. When both sides failed
// independently, both are joined with the producer's first. A consumer
// that stops reading without an error is a PIPE_FAILURE. Run does not
// cancel either side; ctx only scopes tracing.
func (p *Pipe) Run(ctx context.Context, produce Producer, consume Consumer) (Result, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanDelivery)
	defer span.End()

	pr, pw := io.Pipe()
	defer pw.CloseWithError(errProducerAborted)

	var g errgroup.Group
	g.Go(func() error {
		err := consume(pr)
		pr.CloseWithError(err)
		return err
	})

	cw := &countingWriter{w: pw}
	bw := bufio.NewWriterSize(cw, p.bufferSize)
	perr := produce(bw)
	if perr == nil {
		perr = bw.Flush()
	}
	if perr != nil {
		pw.CloseWithError(perr)
	} else {
		pw.Close()
	}
	cerr := g.Wait()

	res := Result{Bytes: cw.n, Duration: time.Since(start)}
	observability.SetSpanAttribute(ctx, observability.AttrBytes, res.Bytes)

	err := joinErrors(perr, cerr)
	fields := logger.Fields(logger.FieldBytes, res.Bytes, logger.FieldDuration, res.Duration.Milliseconds())
	if err != nil {
		observability.SetSpanError(ctx, err)
		p.log.Debug("delivery failed", logger.MergeWithError(fields, err))
		return res, err
	}
	p.log.Debug("delivery finished", fields)
	return res, nil
}

func joinErrors(perr, cerr error) error {
	switch {
	case perr != nil && cerr != nil:
		// A producer released by a failed consumer reports the
		// consumer's error back, and vice versa.
		if errors.Is(perr, cerr) || errors.Is(cerr, perr) {
			return perr
		}
		return errors.Join(perr, cerr)
	case perr != nil:
		if errors.Is(perr, io.ErrClosedPipe) {
			return apperrors.PipeFailure(perr).WithDetail("reason", "consumer stopped reading")
		}
		return perr
	case cerr != nil:
		return cerr
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
