package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mitlibraries/carbon/delivery"
	apperrors "github.com/mitlibraries/carbon/errors"
	"github.com/mitlibraries/carbon/feed"
	"github.com/mitlibraries/carbon/logger"
	"github.com/mitlibraries/carbon/notify"
	"github.com/mitlibraries/carbon/observability"
	"github.com/mitlibraries/carbon/storage"
)

// Status is how a run ended.
type Status string

const (
	StatusSuccess          Status = "success"
	StatusFailure          Status = "failure"
	StatusPreflightFailure Status = "preflight_failure"
)

// Outcome summarizes one run.
type Outcome struct {
	Status   Status
	Err      error
	Records  int64
	Bytes    int64
	Duration time.Duration
	RunID    string
}

// OK reports whether the run succeeded.
func (o Outcome) OK() bool { return o.Status == StatusSuccess }

// Runner performs carbon runs.
type Runner struct {
	cfg      Config
	kind     feed.Kind
	source   feed.Source
	sink     storage.Storage
	notifier notify.Notifier
	metrics  *observability.FeedMetrics
	pipe     *delivery.Pipe
	log      *logger.Logger
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithMetrics records run metrics into m.
func WithMetrics(m *observability.FeedMetrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithPipe replaces the default delivery pipe.
func WithPipe(p *delivery.Pipe) Option {
	return func(r *Runner) {
		if p != nil {
			r.pipe = p
		}
	}
}

// New returns a runner for cfg. sink may be nil when cfg writes to a local
// file. A nil notifier disables notifications.
func New(cfg Config, source feed.Source, sink storage.Storage, notifier notify.Notifier, opts ...Option) (*Runner, error) {
	kind, err := cfg.Kind()
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("runner: source is required")
	}
	if cfg.ToSink() && sink == nil {
		return nil, fmt.Errorf("runner: sink is required without an output file")
	}
	if notifier == nil || cfg.IgnoreSNSLogging {
		notifier = notify.Nop{}
	}

	r := &Runner{
		cfg:      cfg,
		kind:     kind,
		source:   source,
		sink:     sink,
		notifier: notifier,
		log:      logger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("runner")
	if r.pipe == nil {
		r.pipe = delivery.NewPipe(delivery.WithLogger(r.log))
	}
	return r, nil
}

// Preflight checks the source and then the sink, stopping at the first
// failure. The sink is not checked when the feed goes to a local file.
func (r *Runner) Preflight(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanPreflight)
	defer span.End()

	if err := r.check(ctx, "source", r.source.Check); err != nil {
		return err
	}
	if !r.cfg.ToSink() {
		return nil
	}
	return r.check(ctx, "sink", r.sink.Check)
}

func (r *Runner) check(ctx context.Context, collaborator string, fn func(context.Context) error) error {
	fields := logger.Fields(logger.FieldCollaborator, collaborator)
	if err := fn(ctx); err != nil {
		err = apperrors.PreflightFailed(collaborator, err)
		observability.SetSpanAttribute(ctx, observability.AttrCollaborator, collaborator)
		observability.SetSpanError(ctx, err)
		r.log.Error("connection test failed", logger.MergeWithError(fields, err))
		return err
	}
	r.log.Info("connection test passed", fields)
	return nil
}

// Run performs one run. In connection test mode it only runs Preflight.
// Otherwise it announces the start, runs Preflight, delivers the feed and
// announces the outcome. Notification failures are logged and do not
// change the outcome.
func (r *Runner) Run(ctx context.Context) Outcome {
	start := r.now()
	out := Outcome{RunID: uuid.NewString()}
	log := r.log.WithRun(out.RunID, string(r.kind))

	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRunID, out.RunID)
	observability.SetSpanAttribute(ctx, observability.AttrFeedType, string(r.kind))

	if r.cfg.RunConnectionTests {
		if err := r.Preflight(ctx); err != nil {
			out.Status, out.Err = StatusPreflightFailure, err
		} else {
			out.Status = StatusSuccess
		}
		return r.finish(ctx, log, out, start)
	}

	r.announce(ctx, log, notify.StatusStart, nil)
	if err := r.Preflight(ctx); err != nil {
		out.Status, out.Err = StatusPreflightFailure, err
	} else {
		out.Records, out.Bytes, out.Err = r.deliver(ctx, log)
		out.Status = StatusSuccess
		if out.Err != nil {
			out.Status = StatusFailure
		}
	}

	if out.Err != nil {
		r.announce(ctx, log, notify.StatusFailure, out.Err)
	} else {
		r.announce(ctx, log, notify.StatusSuccess, nil)
	}
	return r.finish(ctx, log, out, start)
}

func (r *Runner) deliver(ctx context.Context, log *logger.Logger) (records, bytes int64, err error) {
	opts := []feed.Option{feed.WithLogger(log)}
	if r.metrics != nil {
		opts = append(opts, feed.WithCounter(r.metrics))
	}
	f, err := feed.New(r.kind, r.source, opts...)
	if err != nil {
		return 0, 0, err
	}

	if !r.cfg.ToSink() {
		return r.writeFile(ctx, log, f)
	}

	path := r.cfg.Transfer.Path
	dest := storage.Location(r.sink, path)
	observability.SetSpanAttribute(ctx, observability.AttrDestination, dest)

	var stats feed.Stats
	res, err := r.pipe.Run(ctx,
		func(w io.Writer) error {
			s, err := f.Run(ctx, w)
			stats = s
			return err
		},
		func(rd io.Reader) error {
			return r.sink.Upload(ctx, path, rd)
		},
	)
	if r.metrics != nil {
		r.metrics.BytesDelivered(ctx, string(r.kind), r.sink.Name(), res.Bytes)
	}

	fields := logger.Fields(
		logger.FieldDestination, dest,
		logger.FieldRecords, stats.Records,
		logger.FieldBytes, res.Bytes,
	)
	if err != nil {
		log.Error("feed delivery failed", logger.MergeWithError(fields, err))
		return stats.Records, res.Bytes, err
	}
	log.Info("feed delivered", fields)
	return stats.Records, res.Bytes, nil
}

func (r *Runner) writeFile(ctx context.Context, log *logger.Logger, f *feed.Feed) (int64, int64, error) {
	file, err := os.Create(r.cfg.OutputFile)
	if err != nil {
		return 0, 0, apperrors.Internal(fmt.Errorf("create output file: %w", err))
	}
	stats, err := f.Run(ctx, file)
	if cerr := file.Close(); err == nil && cerr != nil {
		err = apperrors.Internal(fmt.Errorf("close output file: %w", cerr))
	}

	var size int64
	if info, statErr := os.Stat(r.cfg.OutputFile); statErr == nil {
		size = info.Size()
	}
	fields := logger.Fields(
		logger.FieldDestination, r.cfg.OutputFile,
		logger.FieldRecords, stats.Records,
		logger.FieldBytes, size,
	)
	if err != nil {
		log.Error("feed file write failed", logger.MergeWithError(fields, err))
		return stats.Records, size, err
	}
	log.Info("feed file written", fields)
	return stats.Records, size, nil
}

func (r *Runner) announce(ctx context.Context, log *logger.Logger, status notify.Status, cause error) {
	err := r.notifier.Notify(ctx, notify.Event{
		Status:   status,
		FeedType: string(r.kind),
		Stage:    r.cfg.Stage(),
		Err:      cause,
		Time:     r.now(),
	})
	if err != nil {
		log.Warn("run notification failed", logger.MergeWithError(
			logger.Fields(logger.FieldStatus, string(status)), err))
	}
}

func (r *Runner) finish(ctx context.Context, log *logger.Logger, out Outcome, start time.Time) Outcome {
	out.Duration = r.now().Sub(start)
	observability.SetSpanAttribute(ctx, observability.AttrStatus, string(out.Status))
	if r.metrics != nil {
		r.metrics.RunFinished(ctx, string(r.kind), string(out.Status), out.Duration)
	}

	fields := logger.Fields(
		logger.FieldStatus, string(out.Status),
		logger.FieldRecords, out.Records,
		logger.FieldBytes, out.Bytes,
	)
	elapsed := logger.DurationFields("run", out.Duration)
	if out.Err != nil {
		observability.SetSpanError(ctx, out.Err)
		fields[logger.FieldErrorCode] = string(apperrors.CodeOf(out.Err))
		log.Error("Carbon run has failed.", logger.MergeWithError(fields, out.Err), elapsed)
		return out
	}
	log.Info("Carbon run has successfully completed.", fields, elapsed)
	return out
}
