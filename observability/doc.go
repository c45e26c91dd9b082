// Package observability wires OpenTelemetry tracing and metrics for a run.
//
//	shutdown, err := observability.Setup(ctx, cfg, "carbon", version.GetShortVersion(), log)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanFeedRun)
//	defer span.End()
//
//	metrics, err := observability.NewFeedMetrics(observability.Meter("carbon"))
//	metrics.RecordWritten(ctx, "people")
//
// Without an endpoint the global providers stay no-op, so spans and
// counters cost nothing.
package observability
