package postgresengine

import (
	"strings"
	"time"

	"github.com/tradewind-labs/orderstore-go/orderstore"
)

// Option defines a functional option for configuring the OrderStore.
type Option func(*OrderStore) error

// WithOrdersTableName sets a custom orders table name.
func WithOrdersTableName(name string) Option {
	return func(store *OrderStore) error {
		if strings.TrimSpace(name) == "" {
			return orderstore.ErrEmptyOrdersTableName
		}

		store.ordersTableName = name

		return nil
	}
}

// WithCustomersTableName sets a custom customers table name.
func WithCustomersTableName(name string) Option {
	return func(store *OrderStore) error {
		if strings.TrimSpace(name) == "" {
			return orderstore.ErrEmptyCustomersTableName
		}

		store.customersTableName = name

		return nil
	}
}

// WithLogger sets a logger for SQL logging, warnings, and error reporting.
func WithLogger(logger orderstore.Logger) Option {
	return func(store *OrderStore) error {
		store.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger which enables automatic
// trace correlation when combined with a tracing backend.
func WithContextualLogger(logger orderstore.ContextualLogger) Option {
	return func(store *OrderStore) error {
		store.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets a metrics collector for store performance metrics.
func WithMetrics(collector orderstore.MetricsCollector) Option {
	return func(store *OrderStore) error {
		store.metricsCollector = collector
		return nil
	}
}

// WithTracing sets a tracing collector for distributed tracing of store operations.
func WithTracing(collector orderstore.TracingCollector) Option {
	return func(store *OrderStore) error {
		store.tracingCollector = collector
		return nil
	}
}

// WithClock overrides the time source used for last_edited/updated_at stamps.
// Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(store *OrderStore) error {
		store.clock = clock
		return nil
	}
}

// WithReplacementGenerator overrides how replacement orders are generated when
// deletes must refill the fixed-size population.
func WithReplacementGenerator(generate func(serialNumber int64) orderstore.Order) Option {
	return func(store *OrderStore) error {
		store.generateOrder = generate
		return nil
	}
}
