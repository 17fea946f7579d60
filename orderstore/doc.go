// Package orderstore provides the core abstractions and types for the
// purchase-order dashboard: the order and customer entities, the declarative
// filter vocabulary, the profit derivation law, and the contracts for
// persistence engines, caches, and observability collectors.
//
// The store supports declarative querying of orders based on:
//   - text substring clauses (case-insensitive)
//   - multi-select membership clauses (empty set = no constraint)
//   - inclusive numeric and calendar-day date ranges
//   - AND/OR clause joining, in basic or advanced filter mode
//
// Key types:
//   - Order: one purchase order moving through the logistics lifecycle
//   - FilterClause / QueryRequest: criteria for querying orders
//   - QueryResult: one page of the filtered, sorted collection
//   - Cache: memoization with TTL and tag-based invalidation
//
// Common usage pattern:
//
//	req := orderstore.DefaultQueryRequest()
//	req.Basic.Customer = "TTK"
//	req.Basic.POValueMin = &minValue
//
//	if err := req.Validate(); err != nil {
//		// handle rejected request
//	}
//
//	result, err := store.Query(ctx, req)
package orderstore
