package dashboard

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/tradewind-labs/orderstore-go/orderstore"
)

//nolint:gochecknoglobals // shared codec configuration
var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	logMsgQueryFailureSwallowed = "order query failed, returning empty result"
	logMsgCacheReadFailed       = "cache read failed, querying storage"
	logMsgCacheWriteFailed      = "cache write failed, result not memoized"
	logMsgCacheDecodeFailed     = "cache entry undecodable, querying storage"

	logAttrError     = "error"
	logAttrCacheKey  = "cache_key"
	logAttrOperation = "operation"
)

// QueryService serves the dashboard's read side. List queries and aggregates
// are best-effort: any internal failure degrades to an empty result instead
// of propagating, and is logged and counted. Detail lookups keep their
// errors, because the detail view distinguishes "not found" from "empty".
type QueryService struct {
	storage OrderStorage
	memoizer
}

// QueryServiceOption configures a QueryService.
type QueryServiceOption func(*QueryService)

// WithQueryCache enables result memoization on the given cache.
func WithQueryCache(cache orderstore.Cache) QueryServiceOption {
	return func(s *QueryService) { s.cache = cache }
}

// WithQueryLogger sets the logger for swallowed failures and cache trouble.
func WithQueryLogger(logger orderstore.Logger) QueryServiceOption {
	return func(s *QueryService) { s.logger = logger }
}

// WithQueryMetrics sets the collector for swallowed-failure and cache counters.
func WithQueryMetrics(metrics orderstore.MetricsCollector) QueryServiceOption {
	return func(s *QueryService) { s.metrics = metrics }
}

// NewQueryService creates a QueryService over the given storage.
func NewQueryService(storage OrderStorage, options ...QueryServiceOption) *QueryService {
	service := &QueryService{storage: storage}

	for _, option := range options {
		option(service)
	}

	return service
}

// Orders runs one paginated, filtered order query. Validation failures and
// storage failures alike produce the empty result; the page count is derived
// from the total and the requested page size.
func (s *QueryService) Orders(ctx context.Context, req orderstore.QueryRequest) orderstore.QueryResult {
	if err := req.Validate(); err != nil {
		s.swallowFailure("orders", err)

		return orderstore.EmptyQueryResult()
	}

	cacheKey := req.CacheKey()

	var cached orderstore.QueryResult
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached
	}

	orders, total, err := s.storage.Query(ctx, req)
	if err != nil {
		s.swallowFailure("orders", err)

		return orderstore.EmptyQueryResult()
	}

	result := orderstore.QueryResult{
		Data:          orders,
		TotalMatching: total,
		PageCount:     orderstore.PageCount(total, req.PerPage),
	}

	s.cacheSet(ctx, cacheKey, result, orderstore.TTLOrderQuery, orderstore.TagOrders)

	return result
}

// OrderBySlug loads one order for the detail view. Unlike list queries, the
// error is kept: ErrOrderNotFound for missing or malformed slugs.
func (s *QueryService) OrderBySlug(ctx context.Context, slug string) (orderstore.Order, error) {
	cacheKey := orderstore.OrderSlugCacheKey(slug)

	var cached orderstore.Order
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	order, err := s.storage.GetBySlug(ctx, slug)
	if err != nil {
		return orderstore.Order{}, err
	}

	s.cacheSet(ctx, cacheKey, order, orderstore.TTLOrderSlug, orderstore.TagOrders)

	return order, nil
}

// StatusCounts returns the status histogram, memoized long-lived and
// invalidated by status-affecting writes. Failures degrade to an empty map.
func (s *QueryService) StatusCounts(ctx context.Context) orderstore.StatusCounts {
	var cached orderstore.StatusCounts
	if s.cacheGet(ctx, orderstore.KeyStatusCounts, &cached) {
		return cached
	}

	counts, err := s.storage.StatusCounts(ctx)
	if err != nil {
		s.swallowFailure("status_counts", err)

		return orderstore.StatusCounts{}
	}

	s.cacheSet(ctx, orderstore.KeyStatusCounts, counts, orderstore.TTLAggregates, orderstore.TagStatusCounts)

	return counts
}

// CustomerCounts returns the per-customer histogram. Failures degrade to an
// empty map.
func (s *QueryService) CustomerCounts(ctx context.Context) orderstore.CustomerCounts {
	var cached orderstore.CustomerCounts
	if s.cacheGet(ctx, orderstore.KeyCustomerCounts, &cached) {
		return cached
	}

	counts, err := s.storage.CustomerCounts(ctx)
	if err != nil {
		s.swallowFailure("customer_counts", err)

		return orderstore.CustomerCounts{}
	}

	s.cacheSet(ctx, orderstore.KeyCustomerCounts, counts, orderstore.TTLAggregates, orderstore.TagCustomerCounts)

	return counts
}

// POValueRange returns the [min, max] PO value across the collection for the
// filter slider. Failures degrade to {0, 0}. The memoized range drops only on
// create/delete, not on field updates, so edited PO values may read stale
// until the TTL passes.
func (s *QueryService) POValueRange(ctx context.Context) orderstore.POValueRange {
	var cached orderstore.POValueRange
	if s.cacheGet(ctx, orderstore.KeyPOValueRange, &cached) {
		return cached
	}

	valueRange, err := s.storage.POValueRange(ctx)
	if err != nil {
		s.swallowFailure("po_value_range", err)

		return orderstore.POValueRange{}
	}

	s.cacheSet(ctx, orderstore.KeyPOValueRange, valueRange, orderstore.TTLAggregates, orderstore.TagPOValueRange)

	return valueRange
}

// swallowFailure logs and counts one degraded read.
func (s *QueryService) swallowFailure(operation string, err error) {
	if s.logger != nil {
		s.logger.Warn(logMsgQueryFailureSwallowed, logAttrOperation, operation, logAttrError, err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementCounter(orderstore.MetricSwallowedFailures, map[string]string{logAttrOperation: operation})
	}
}

// memoizer bundles the cache with its logging/metrics sinks; services embed
// it for best-effort memoization.
type memoizer struct {
	cache   orderstore.Cache
	logger  orderstore.Logger
	metrics orderstore.MetricsCollector
}

// cacheGet loads and decodes a memoized value; a hit is counted and reported.
// Cache trouble never fails the read path.
func (m memoizer) cacheGet(ctx context.Context, key string, dest any) bool {
	if m.cache == nil {
		return false
	}

	raw, err := m.cache.Get(ctx, key)
	if err != nil {
		if m.metrics != nil {
			m.metrics.IncrementCounter(orderstore.MetricCacheMisses, nil)
		}

		if m.logger != nil && !isCacheMiss(err) {
			m.logger.Warn(logMsgCacheReadFailed, logAttrCacheKey, key, logAttrError, err.Error())
		}

		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		if m.logger != nil {
			m.logger.Warn(logMsgCacheDecodeFailed, logAttrCacheKey, key, logAttrError, err.Error())
		}

		return false
	}

	if m.metrics != nil {
		m.metrics.IncrementCounter(orderstore.MetricCacheHits, nil)
	}

	return true
}

// cacheSet memoizes a value best-effort.
func (m memoizer) cacheSet(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) {
	if m.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := m.cache.Set(ctx, key, raw, ttl, tags...); err != nil && m.logger != nil {
		m.logger.Warn(logMsgCacheWriteFailed, logAttrCacheKey, key, logAttrError, err.Error())
	}
}

func isCacheMiss(err error) bool {
	return errors.Is(err, orderstore.ErrCacheMiss)
}
