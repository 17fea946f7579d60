package oteladapters_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/tradewind-labs/orderstore-go/orderstore/oteladapters"
)

// capturingHandler records slog records for assertions.
type capturingHandler struct {
	records []slog.Record
}

func (h *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, record slog.Record) error {
	h.records = append(h.records, record)
	return nil
}

func (h *capturingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(_ string) slog.Handler { return h }

func Test_SlogBridgeLogger_ForwardsToHandler(t *testing.T) {
	handler := &capturingHandler{}
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)

	logger.InfoContext(context.Background(), "order query completed", "row_count", 10)
	logger.ErrorContext(context.Background(), "database query execution failed", "error", "boom")

	require.Len(t, handler.records, 2)
	assert.Equal(t, "order query completed", handler.records[0].Message)
	assert.Equal(t, slog.LevelInfo, handler.records[0].Level)
	assert.Equal(t, slog.LevelError, handler.records[1].Level)
}

func Test_MetricsCollector_ToleratesNoopMeter(t *testing.T) {
	collector := oteladapters.NewMetricsCollector(metricnoop.NewMeterProvider().Meter("test"))

	// The collector must not panic when instruments are noop-backed.
	collector.IncrementCounter("orderstore_database_errors_total", map[string]string{"operation": "query"})
	collector.RecordDuration("orderstore_query_duration_seconds", 0, nil)
	collector.RecordValue("orderstore_cache_hits_total", 1, nil)
}

func Test_TracingCollector_SpanLifecycle(t *testing.T) {
	collector := oteladapters.NewTracingCollector(tracenoop.NewTracerProvider().Tracer("test"))

	ctx, span := collector.StartSpan(context.Background(), "orderstore.query", map[string]string{"operation": "query"})
	require.NotNil(t, ctx)
	require.NotNil(t, span)

	span.AddAttribute("db.table", "orders")
	collector.FinishSpan(span, "success", nil)
}
