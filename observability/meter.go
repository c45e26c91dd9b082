package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The returned provider must be shut down on exit; shutdown also pushes
// the final readings of a short-lived run.
func InitMeter(ctx context.Context, cfg Config, res Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	r, err := newResource(res)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if interval, err := time.ParseDuration(cfg.Interval); err == nil && interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(r),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricRecordsWritten = "carbon.records.written"
	MetricBytesDelivered = "carbon.bytes.delivered"
	MetricRuns           = "carbon.runs"
	MetricRunDuration    = "carbon.run.duration"
)

// FeedMetrics holds the instruments of a feed run.
type FeedMetrics struct {
	records     metric.Int64Counter
	bytes       metric.Int64Counter
	runs        metric.Int64Counter
	runDuration metric.Float64Histogram
}

// NewFeedMetrics creates the feed instruments on meter.
func NewFeedMetrics(meter metric.Meter) (*FeedMetrics, error) {
	records, err := meter.Int64Counter(MetricRecordsWritten,
		metric.WithDescription("Records written to a feed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRecordsWritten, err)
	}

	bytes, err := meter.Int64Counter(MetricBytesDelivered,
		metric.WithDescription("Feed bytes handed to the destination"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricBytesDelivered, err)
	}

	runs, err := meter.Int64Counter(MetricRuns,
		metric.WithDescription("Completed runs by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRuns, err)
	}

	runDuration, err := meter.Float64Histogram(MetricRunDuration,
		metric.WithDescription("Duration of runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRunDuration, err)
	}

	return &FeedMetrics{records: records, bytes: bytes, runs: runs, runDuration: runDuration}, nil
}

// RecordWritten counts one record written to the feed.
func (m *FeedMetrics) RecordWritten(ctx context.Context, feedType string) {
	m.records.Add(ctx, 1, metric.WithAttributes(attribute.String("feed_type", feedType)))
}

// BytesDelivered counts bytes handed to a destination.
func (m *FeedMetrics) BytesDelivered(ctx context.Context, feedType, destination string, n int64) {
	m.bytes.Add(ctx, n, metric.WithAttributes(
		attribute.String("feed_type", feedType),
		attribute.String("destination", destination),
	))
}

// RunFinished records a run outcome and its duration.
func (m *FeedMetrics) RunFinished(ctx context.Context, feedType, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("feed_type", feedType),
		attribute.String("status", status),
	)
	m.runs.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, duration.Seconds(), attrs)
}
