package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/mitlibraries/carbon/logger"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.Interval != "15s" {
		t.Errorf("expected Interval 15s, got %q", cfg.Interval)
	}
	if cfg.Enabled() {
		t.Error("expected export disabled without endpoint")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"sample rate above one", Config{SampleRate: 1.5, Interval: "15s"}},
		{"negative sample rate", Config{SampleRate: -0.1, Interval: "15s"}},
		{"bad interval", Config{SampleRate: 1, Interval: "often"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSetupDisabledIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{}, Resource{ServiceName: "carbon"}, logger.Nop())
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("expected no-op shutdown, got %v", err)
	}
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	_, err := Setup(context.Background(), Config{Endpoint: "localhost:4318", SampleRate: 2}, Resource{}, nil)
	if err == nil {
		t.Error("expected invalid sample rate to be rejected")
	}
}

func TestStartSpanRecordsAttributesAndErrors(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		tp.Shutdown(context.Background())
	})

	ctx, span := StartSpan(context.Background(), SpanFeedRun)
	SetSpanAttribute(ctx, AttrFeedType, "people")
	SetSpanAttribute(ctx, AttrRecords, int64(2))
	SetSpanAttribute(ctx, "ignored", struct{}{})
	SetSpanError(ctx, fmt.Errorf("upload rejected"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	got := spans[0]
	if got.Name != SpanFeedRun {
		t.Errorf("expected span %q, got %q", SpanFeedRun, got.Name)
	}
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range got.Attributes {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrFeedType].AsString() != "people" {
		t.Errorf("expected feed_type=people, got %v", attrs[AttrFeedType])
	}
	if attrs[AttrRecords].AsInt64() != 2 {
		t.Errorf("expected records=2, got %v", attrs[AttrRecords])
	}
	if _, ok := attrs["ignored"]; ok {
		t.Error("expected unsupported attribute type to be skipped")
	}
	if len(got.Events) != 1 || got.Events[0].Name != "exception" {
		t.Errorf("expected one exception event, got %v", got.Events)
	}
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, fmt.Errorf("no span"))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, agg metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected int64 sum, got %T", agg)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestFeedMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { mp.Shutdown(context.Background()) })

	metrics, err := NewFeedMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewFeedMetrics failed: %v", err)
	}

	ctx := context.Background()
	metrics.RecordWritten(ctx, "people")
	metrics.RecordWritten(ctx, "people")
	metrics.BytesDelivered(ctx, "people", "sftp", 4096)
	metrics.RunFinished(ctx, "people", "success", 2*time.Second)

	data := collect(t, reader)
	if got := sumOf(t, data[MetricRecordsWritten]); got != 2 {
		t.Errorf("expected 2 records, got %d", got)
	}
	if got := sumOf(t, data[MetricBytesDelivered]); got != 4096 {
		t.Errorf("expected 4096 bytes, got %d", got)
	}
	if got := sumOf(t, data[MetricRuns]); got != 1 {
		t.Errorf("expected 1 run, got %d", got)
	}
	if _, ok := data[MetricRunDuration].(metricdata.Histogram[float64]); !ok {
		t.Errorf("expected run duration histogram, got %T", data[MetricRunDuration])
	}
}
