package feed

import (
	"context"
	"io"
	"time"

	"github.com/mitlibraries/carbon/logger"
	"github.com/mitlibraries/carbon/observability"
	"github.com/mitlibraries/carbon/pipeline"
)

// Counter is told about every record written to a feed.
type Counter interface {
	RecordWritten(ctx context.Context, feedType string)
}

// Stats summarizes one Run.
type Stats struct {
	Records  int64
	Duration time.Duration
}

// Feed streams the records of one kind as an XML document.
type Feed struct {
	kind    Kind
	layout  Layout
	source  Source
	counter Counter
	log     *logger.Logger
}

// Option configures a Feed.
type Option func(*Feed)

// WithLogger sets the feed logger.
func WithLogger(log *logger.Logger) Option {
	return func(f *Feed) {
		if log != nil {
			f.log = log
		}
	}
}

// WithCounter reports written records to c.
func WithCounter(c Counter) Option {
	return func(f *Feed) { f.counter = c }
}

// New returns a feed of kind reading from source.
func New(kind Kind, source Source, opts ...Option) (*Feed, error) {
	layout, err := LayoutFor(kind)
	if err != nil {
		return nil, err
	}
	f := &Feed{kind: kind, layout: layout, source: source, log: logger.Nop()}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.WithComponent("feed")
	return f, nil
}

// Kind returns the feed kind.
func (f *Feed) Kind() Kind { return f.kind }

// Run writes the whole document to w. On error the bytes already written
// stay written; the document is left unterminated.
func (f *Feed) Run(ctx context.Context, w io.Writer) (Stats, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanFeedRun)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrFeedType, string(f.kind))

	var stats Stats
	err := f.run(ctx, w, &stats)
	stats.Duration = time.Since(start)
	observability.SetSpanAttribute(ctx, observability.AttrRecords, stats.Records)

	fields := logger.Fields(logger.FieldFeedType, string(f.kind), logger.FieldRecords, stats.Records)
	if err != nil {
		observability.SetSpanError(ctx, err)
		f.log.Error("feed aborted", logger.MergeWithError(fields, err))
		return stats, err
	}
	// w may still buffer the tail; the caller logs delivery.
	f.log.Debug("feed rendered", fields)
	return stats, nil
}

func (f *Feed) run(ctx context.Context, w io.Writer, stats *Stats) error {
	rows, err := f.source.Records(ctx, f.kind)
	if err != nil {
		return err
	}

	xw := NewWriter(w)
	if err := xw.Open(f.layout.Root); err != nil {
		rows.Close()
		return err
	}

	elements := pipeline.Map(pipeline.From(rows), func(_ context.Context, r Record) (Element, error) {
		return f.layout.Build(r)
	})
	counted := pipeline.Tap(elements, func(ctx context.Context, _ Element) error {
		stats.Records++
		if f.counter != nil {
			f.counter.RecordWritten(ctx, string(f.kind))
		}
		return nil
	})
	if err := pipeline.Drain(counted, func(_ context.Context, e Element) error {
		return xw.WriteRecord(e)
	}).Run(ctx); err != nil {
		return err
	}
	return xw.Close()
}
