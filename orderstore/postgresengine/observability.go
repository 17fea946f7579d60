package postgresengine

import (
	"context"
	"math"
	"time"

	"github.com/tradewind-labs/orderstore-go/orderstore"
)

const (
	spanAttrOperation = "operation"
	spanAttrTable     = "db.table"
	spanAttrErrorType = "error_type"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeBuildQuery = "build_query"
	errorTypeQuery      = "query"
	errorTypeScan       = "scan"
	errorTypeExec       = "exec"
	errorTypeTx         = "transaction"
	errorTypeNotFound   = "not_found"
)

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (s *OrderStore) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, s.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (s *OrderStore) logOperation(action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (s *OrderStore) logError(message string, err error, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		s.logger.Error(message, allArgs...)
	}
}

// logErrorContext prefers the contextual logger for trace correlation and
// falls back to the plain logger.
func (s *OrderStore) logErrorContext(ctx context.Context, message string, err error, args ...any) {
	if s.contextualLogger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		s.contextualLogger.ErrorContext(ctx, message, allArgs...)

		return
	}

	s.logError(message, err, args...)
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (s *OrderStore) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordErrorMetrics records error counters if the metrics collector is configured.
func (s *OrderStore) recordErrorMetrics(operation, errorType string) {
	if s.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          statusError,
			spanAttrErrorType: errorType,
		}
		s.metricsCollector.IncrementCounter(orderstore.MetricDatabaseErrors, labels)
	}
}

// recordDurationMetrics records operation durations if the metrics collector is configured.
func (s *OrderStore) recordDurationMetrics(metricName string, duration time.Duration, operation, status string) {
	if s.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          status,
		}
		s.metricsCollector.RecordDuration(metricName, duration, labels)
	}
}

// startSpan starts a tracing span for a store operation if tracing is configured.
func (s *OrderStore) startSpan(ctx context.Context, operation string) (context.Context, orderstore.SpanContext) {
	if s.tracingCollector == nil {
		return ctx, nil
	}

	return s.tracingCollector.StartSpan(ctx, "orderstore."+operation, map[string]string{
		spanAttrOperation: operation,
		spanAttrTable:     s.ordersTableName,
	})
}

// finishSpan finishes a tracing span with a success/error status.
func (s *OrderStore) finishSpan(span orderstore.SpanContext, err error) {
	if s.tracingCollector == nil || span == nil {
		return
	}

	if err != nil {
		s.tracingCollector.FinishSpan(span, statusError, map[string]string{logAttrError: err.Error()})
		return
	}

	s.tracingCollector.FinishSpan(span, statusSuccess, nil)
}
