package orderstore

import (
	"context"
	"time"
)

// Cache tags. A write invalidates tags, which drops every key associated with
// them. The tag assignment replicates the dashboard's invalidation rules:
//   - create/delete invalidate TagOrders, TagStatusCounts, TagCustomerCounts,
//     and TagPOValueRange (the population changed)
//   - single/bulk updates invalidate TagOrders always and TagStatusCounts only
//     when the written status matches the requested one; the PO value range is
//     left alone on simple field updates
//   - customer mutations invalidate TagCustomers
const (
	TagOrders         = "orders"
	TagStatusCounts   = "order-status-counts"
	TagCustomerCounts = "order-customer-counts"
	TagPOValueRange   = "po-value-range"
	TagCustomers      = "customers"
)

// Fixed cache keys for the aggregate lookups; list-query keys come from
// QueryRequest.CacheKey and detail keys from OrderSlugCacheKey.
const (
	KeyStatusCounts   = "order-status-counts"
	KeyCustomerCounts = "order-customer-counts"
	KeyPOValueRange   = "po-value-range"
	KeyCustomersList  = "customers-list"
	KeyCustomersDrop  = "customers-dropdown"
)

// Cache TTLs. List queries are near-passthrough; aggregates change rarely and
// live for an hour; detail and customer lookups sit in between.
const (
	TTLOrderQuery = 1 * time.Second
	TTLOrderSlug  = 60 * time.Second
	TTLAggregates = 1 * time.Hour
	TTLCustomers  = 60 * time.Second
	TTLDropdown   = 5 * time.Minute
)

// Cache memoizes query and aggregate results keyed by request signature, with
// TTL-based expiry and explicit tag invalidation. Implementations must be safe
// for concurrent use; no process-wide cache state is read outside this contract.
type Cache interface {
	// Get returns the cached bytes for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl and associates it with tags.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error

	// Invalidate drops every key associated with any of the tags.
	Invalidate(ctx context.Context, tags ...string) error
}

// OrderSlugCacheKey is the memoization key for one order detail lookup.
func OrderSlugCacheKey(slug string) string {
	return "order-" + slug
}

// CustomerCacheKey is the memoization key for one customer-by-name lookup.
func CustomerCacheKey(name string) string {
	return "customer-" + name
}

// CustomerOrdersCacheKey is the memoization key for one customer's order list.
func CustomerOrdersCacheKey(name string) string {
	return "customer-orders-" + name
}
