package dashboard

import (
	"context"

	"github.com/tradewind-labs/orderstore-go/orderstore"
)

const logMsgCustomerReadSwallowed = "customer read failed, returning empty result"

// CustomerService serves the customer directory: the managed list with order
// counts, the dropdown names, and per-customer order history. Directory reads
// degrade to empty results like order queries do; directory writes report
// MutationResults and invalidate the customer tag.
type CustomerService struct {
	storage CustomerStorage
	memoizer
}

// CustomerServiceOption configures a CustomerService.
type CustomerServiceOption func(*CustomerService)

// WithCustomerCache enables memoization and tag invalidation on the given cache.
func WithCustomerCache(cache orderstore.Cache) CustomerServiceOption {
	return func(s *CustomerService) { s.cache = cache }
}

// WithCustomerLogger sets the logger for swallowed failures and audit lines.
func WithCustomerLogger(logger orderstore.Logger) CustomerServiceOption {
	return func(s *CustomerService) { s.logger = logger }
}

// WithCustomerMetrics sets the collector for failure counters.
func WithCustomerMetrics(metrics orderstore.MetricsCollector) CustomerServiceOption {
	return func(s *CustomerService) { s.metrics = metrics }
}

// NewCustomerService creates a CustomerService over the given storage.
func NewCustomerService(storage CustomerStorage, options ...CustomerServiceOption) *CustomerService {
	service := &CustomerService{storage: storage}

	for _, option := range options {
		option(service)
	}

	return service
}

// List returns the directory with per-customer order counts, sorted by name.
// Failures degrade to an empty list.
func (s *CustomerService) List(ctx context.Context) []orderstore.CustomerWithOrderCount {
	var cached []orderstore.CustomerWithOrderCount
	if s.cacheGet(ctx, orderstore.KeyCustomersList, &cached) {
		return cached
	}

	customers, err := s.storage.ListCustomers(ctx)
	if err != nil {
		s.swallowFailure("customers_list", err)

		return []orderstore.CustomerWithOrderCount{}
	}

	s.cacheSet(ctx, orderstore.KeyCustomersList, customers, orderstore.TTLCustomers, orderstore.TagCustomers)

	return customers
}

// Names returns the dropdown name list. Failures degrade to an empty list.
func (s *CustomerService) Names(ctx context.Context) []string {
	var cached []string
	if s.cacheGet(ctx, orderstore.KeyCustomersDrop, &cached) {
		return cached
	}

	names, err := s.storage.CustomerNames(ctx)
	if err != nil {
		s.swallowFailure("customer_names", err)

		return []string{}
	}

	s.cacheSet(ctx, orderstore.KeyCustomersDrop, names, orderstore.TTLDropdown, orderstore.TagCustomers)

	return names
}

// ByName loads one directory entry by case-insensitive normalized name.
// The error is kept for the caller to distinguish not-found.
func (s *CustomerService) ByName(ctx context.Context, name string) (orderstore.Customer, error) {
	cacheKey := orderstore.CustomerCacheKey(orderstore.NormalizeCustomerName(name))

	var cached orderstore.Customer
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	customer, err := s.storage.GetCustomerByName(ctx, name)
	if err != nil {
		return orderstore.Customer{}, err
	}

	s.cacheSet(ctx, cacheKey, customer, orderstore.TTLCustomers, orderstore.TagCustomers)

	return customer, nil
}

// Orders returns one customer's order history, oldest purchase order first.
// Failures degrade to an empty list.
func (s *CustomerService) Orders(ctx context.Context, name string) []orderstore.Order {
	cacheKey := orderstore.CustomerOrdersCacheKey(orderstore.NormalizeCustomerName(name))

	var cached []orderstore.Order
	if s.cacheGet(ctx, cacheKey, &cached) {
		return cached
	}

	orders, err := s.storage.CustomerOrders(ctx, name)
	if err != nil {
		s.swallowFailure("customer_orders", err)

		return []orderstore.Order{}
	}

	s.cacheSet(ctx, cacheKey, orders, orderstore.TTLCustomers, orderstore.TagCustomers, orderstore.TagOrders)

	return orders
}

// Create adds a directory entry. Conflicts on the case-insensitive normalized
// name surface as the conflict message.
func (s *CustomerService) Create(ctx context.Context, name string) orderstore.MutationResult {
	if _, err := s.storage.CreateCustomer(ctx, name); err != nil {
		return orderstore.ErrorResult(err)
	}

	s.invalidateCustomers(ctx)

	return orderstore.OKResult()
}

// Rename changes a directory entry's name; existing orders keep the old
// denormalized name.
func (s *CustomerService) Rename(ctx context.Context, id int64, newName string) orderstore.MutationResult {
	if err := s.storage.RenameCustomer(ctx, id, newName); err != nil {
		return orderstore.ErrorResult(err)
	}

	s.invalidateCustomers(ctx)

	return orderstore.OKResult()
}

// Delete removes a directory entry; orders carrying its name are untouched.
func (s *CustomerService) Delete(ctx context.Context, id int64) orderstore.MutationResult {
	if err := s.storage.DeleteCustomer(ctx, id); err != nil {
		return orderstore.ErrorResult(err)
	}

	s.invalidateCustomers(ctx)

	return orderstore.OKResult()
}

func (s *CustomerService) invalidateCustomers(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Invalidate(ctx, orderstore.TagCustomers); err != nil && s.logger != nil {
		s.logger.Warn(logMsgInvalidateFailed, logAttrTags, []string{orderstore.TagCustomers}, logAttrError, err.Error())
	}
}

func (s *CustomerService) swallowFailure(operation string, err error) {
	if s.logger != nil {
		s.logger.Warn(logMsgCustomerReadSwallowed, logAttrOperation, operation, logAttrError, err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementCounter(orderstore.MetricSwallowedFailures, map[string]string{logAttrOperation: operation})
	}
}
