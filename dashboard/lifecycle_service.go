package dashboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradewind-labs/orderstore-go/orderstore"
)

const (
	logMsgMutationStarted   = "order mutation started"
	logMsgMutationFailed    = "order mutation failed"
	logMsgMutationCompleted = "order mutation completed"
	logMsgInvalidateFailed  = "cache invalidation failed after mutation"

	logAttrMutationID   = "mutation_id"
	logAttrSerialNumber = "serial_number"
	logAttrTags         = "tags"
)

// LifecycleService serves the dashboard's write side: create, update, bulk
// update, and delete, each followed by tag invalidation so subsequent reads
// see fresh data. Every operation reports a MutationResult with a plain
// message on failure, never a structured error.
type LifecycleService struct {
	storage OrderStorage
	cache   orderstore.Cache
	logger  orderstore.Logger
	metrics orderstore.MetricsCollector
}

// LifecycleServiceOption configures a LifecycleService.
type LifecycleServiceOption func(*LifecycleService)

// WithLifecycleCache enables tag invalidation on the given cache.
func WithLifecycleCache(cache orderstore.Cache) LifecycleServiceOption {
	return func(s *LifecycleService) { s.cache = cache }
}

// WithLifecycleLogger sets the logger for mutation audit lines.
func WithLifecycleLogger(logger orderstore.Logger) LifecycleServiceOption {
	return func(s *LifecycleService) { s.logger = logger }
}

// WithLifecycleMetrics sets the collector for mutation counters.
func WithLifecycleMetrics(metrics orderstore.MetricsCollector) LifecycleServiceOption {
	return func(s *LifecycleService) { s.metrics = metrics }
}

// NewLifecycleService creates a LifecycleService over the given storage.
func NewLifecycleService(storage OrderStorage, options ...LifecycleServiceOption) *LifecycleService {
	service := &LifecycleService{storage: storage}

	for _, option := range options {
		option(service)
	}

	return service
}

// Create validates the input and inserts a new order. The store assigns the
// serial number and evicts the oldest order to keep the population constant,
// so the order list, the status histogram, and the customer histogram all
// change: every list/aggregate tag is invalidated.
func (s *LifecycleService) Create(ctx context.Context, input orderstore.CreateOrderInput) orderstore.MutationResult {
	mutationID := s.startMutation("create")

	if err := input.Validate(); err != nil {
		return s.failMutation(mutationID, "create", err)
	}

	created, err := s.storage.CreateOrder(ctx, input)
	if err != nil {
		return s.failMutation(mutationID, "create", err)
	}

	s.invalidate(ctx, mutationID,
		orderstore.TagOrders, orderstore.TagStatusCounts, orderstore.TagCustomerCounts, orderstore.TagPOValueRange)
	s.completeMutation(mutationID, "create", logAttrSerialNumber, created.SerialNumber)

	return orderstore.OKResult()
}

// Update validates and applies a partial update. The order list tag is always
// invalidated; the status-counts tag only when a status was requested and the
// post-write status equals it, and the customer-counts tag only when the
// customer name changed.
func (s *LifecycleService) Update(ctx context.Context, serialNumber int64, input orderstore.UpdateOrderInput) orderstore.MutationResult {
	mutationID := s.startMutation("update")

	if err := input.Validate(); err != nil {
		return s.failMutation(mutationID, "update", err)
	}

	updated, err := s.storage.UpdateOrder(ctx, serialNumber, input)
	if err != nil {
		return s.failMutation(mutationID, "update", err)
	}

	tags := []string{orderstore.TagOrders}

	if input.ChangesStatus() && updated.Status == *input.Status {
		tags = append(tags, orderstore.TagStatusCounts)
	}

	if input.Customer != nil {
		tags = append(tags, orderstore.TagCustomerCounts)
	}

	s.invalidate(ctx, mutationID, tags...)
	s.completeMutation(mutationID, "update", logAttrSerialNumber, serialNumber)

	return orderstore.OKResult()
}

// BulkUpdate applies a uniform status/flag change to many orders at once.
// When a status is part of the change, every written row carries it, so the
// status-counts tag is invalidated along with the order list.
func (s *LifecycleService) BulkUpdate(ctx context.Context, input orderstore.BulkUpdateInput) orderstore.MutationResult {
	mutationID := s.startMutation("bulk_update")

	if err := input.Validate(); err != nil {
		return s.failMutation(mutationID, "bulk_update", err)
	}

	affected, err := s.storage.BulkUpdate(ctx, input)
	if err != nil {
		return s.failMutation(mutationID, "bulk_update", err)
	}

	tags := []string{orderstore.TagOrders}
	if input.Status != nil {
		tags = append(tags, orderstore.TagStatusCounts)
	}

	s.invalidate(ctx, mutationID, tags...)
	s.completeMutation(mutationID, "bulk_update", "rows_affected", affected)

	return orderstore.OKResult()
}

// Delete removes one order; the store inserts a generated replacement, so all
// list/aggregate tags are invalidated.
func (s *LifecycleService) Delete(ctx context.Context, serialNumber int64) orderstore.MutationResult {
	return s.DeleteMany(ctx, []int64{serialNumber})
}

// DeleteMany removes a set of orders with generated replacements per deleted row.
func (s *LifecycleService) DeleteMany(ctx context.Context, serialNumbers []int64) orderstore.MutationResult {
	mutationID := s.startMutation("delete")

	deleted, err := s.storage.DeleteOrders(ctx, serialNumbers)
	if err != nil {
		return s.failMutation(mutationID, "delete", err)
	}

	s.invalidate(ctx, mutationID,
		orderstore.TagOrders, orderstore.TagStatusCounts, orderstore.TagCustomerCounts, orderstore.TagPOValueRange)
	s.completeMutation(mutationID, "delete", "rows_affected", deleted)

	return orderstore.OKResult()
}

// startMutation assigns a correlation id carried through all log lines of one mutation.
func (s *LifecycleService) startMutation(operation string) string {
	mutationID := uuid.New().String()

	if s.logger != nil {
		s.logger.Debug(logMsgMutationStarted, logAttrMutationID, mutationID, logAttrOperation, operation)
	}

	return mutationID
}

func (s *LifecycleService) failMutation(mutationID, operation string, err error) orderstore.MutationResult {
	if s.logger != nil {
		s.logger.Error(logMsgMutationFailed, logAttrMutationID, mutationID, logAttrOperation, operation, logAttrError, err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementCounter(orderstore.MetricDatabaseErrors, map[string]string{logAttrOperation: operation})
	}

	return orderstore.ErrorResult(err)
}

func (s *LifecycleService) completeMutation(mutationID, operation string, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrMutationID, mutationID, logAttrOperation, operation}
		allArgs = append(allArgs, args...)
		s.logger.Info(logMsgMutationCompleted, allArgs...)
	}
}

// invalidate drops the given tags best-effort: a failed invalidation is
// logged, not surfaced, because the write itself already committed.
func (s *LifecycleService) invalidate(ctx context.Context, mutationID string, tags ...string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Invalidate(ctx, tags...); err != nil && s.logger != nil {
		s.logger.Warn(logMsgInvalidateFailed, logAttrMutationID, mutationID, logAttrTags, tags, logAttrError, err.Error())
	}
}
