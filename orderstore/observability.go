package orderstore

import (
	"context"
	"time"
)

// Logger interface for SQL query logging, operational metrics, warnings, and
// error reporting. Args are slog-style alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic trace
// correlation. It follows the same dependency-free pattern as MetricsCollector
// and TracingCollector, so any logging backend that supports context-based
// correlation can be plugged in.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting store performance and operational
// metrics. Implementations decide how metric names and labels map onto their
// backend.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware
// variants so metric exemplars can be correlated with active traces.
// Collectors may implement it optionally; callers type-assert.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span that can be finished and
// updated with attributes.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector interface for collecting distributed tracing information
// from store operations. Dependency-free so users can integrate any tracing
// backend (OpenTelemetry, Jaeger, Zipkin, ...) by implementing it.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

// Metric names emitted by the store and the dashboard services.
const (
	MetricQueryDuration     = "orderstore_query_duration_seconds"
	MetricMutationDuration  = "orderstore_mutation_duration_seconds"
	MetricDatabaseErrors    = "orderstore_database_errors_total"
	MetricSwallowedFailures = "orderstore_swallowed_query_failures_total"
	MetricCacheHits         = "orderstore_cache_hits_total"
	MetricCacheMisses       = "orderstore_cache_misses_total"
)
