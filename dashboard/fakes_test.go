package dashboard_test

import (
	"context"
	"sync"
	"time"

	"github.com/tradewind-labs/orderstore-go/orderstore"
)

// fakeOrderStorage scripts the persistence contract for service tests.
type fakeOrderStorage struct {
	queryCalls  int
	queryOrders []orderstore.Order
	queryTotal  int
	queryErr    error

	getOrder orderstore.Order
	getErr   error

	statusCounts    orderstore.StatusCounts
	statusCountsErr error

	customerCounts    orderstore.CustomerCounts
	customerCountsErr error

	poValueRange    orderstore.POValueRange
	poValueRangeErr error

	created   []orderstore.CreateOrderInput
	createErr error

	updateResult orderstore.Order
	updateErr    error

	bulkAffected int64
	bulkErr      error

	deletedSerials []int64
	deleteCount    int
	deleteErr      error
}

func (f *fakeOrderStorage) Query(_ context.Context, _ orderstore.QueryRequest) ([]orderstore.Order, int, error) {
	f.queryCalls++

	if f.queryErr != nil {
		return nil, 0, f.queryErr
	}

	return f.queryOrders, f.queryTotal, nil
}

func (f *fakeOrderStorage) GetBySerial(_ context.Context, _ int64) (orderstore.Order, error) {
	return f.getOrder, f.getErr
}

func (f *fakeOrderStorage) GetBySlug(_ context.Context, slug string) (orderstore.Order, error) {
	if _, ok := orderstore.ParseOrderSlug(slug); !ok {
		return orderstore.Order{}, orderstore.ErrOrderNotFound
	}

	return f.getOrder, f.getErr
}

func (f *fakeOrderStorage) StatusCounts(_ context.Context) (orderstore.StatusCounts, error) {
	return f.statusCounts, f.statusCountsErr
}

func (f *fakeOrderStorage) CustomerCounts(_ context.Context) (orderstore.CustomerCounts, error) {
	return f.customerCounts, f.customerCountsErr
}

func (f *fakeOrderStorage) POValueRange(_ context.Context) (orderstore.POValueRange, error) {
	return f.poValueRange, f.poValueRangeErr
}

func (f *fakeOrderStorage) CreateOrder(_ context.Context, input orderstore.CreateOrderInput) (orderstore.Order, error) {
	if f.createErr != nil {
		return orderstore.Order{}, f.createErr
	}

	f.created = append(f.created, input)

	return orderstore.Order{SerialNumber: 101, Status: input.Status, Customer: input.Customer}, nil
}

func (f *fakeOrderStorage) UpdateOrder(_ context.Context, _ int64, _ orderstore.UpdateOrderInput) (orderstore.Order, error) {
	return f.updateResult, f.updateErr
}

func (f *fakeOrderStorage) BulkUpdate(_ context.Context, _ orderstore.BulkUpdateInput) (int64, error) {
	return f.bulkAffected, f.bulkErr
}

func (f *fakeOrderStorage) DeleteOrder(ctx context.Context, serialNumber int64) error {
	_, err := f.DeleteOrders(ctx, []int64{serialNumber})
	return err
}

func (f *fakeOrderStorage) DeleteOrders(_ context.Context, serialNumbers []int64) (int, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}

	f.deletedSerials = append(f.deletedSerials, serialNumbers...)
	f.deleteCount = len(serialNumbers)

	return len(serialNumbers), nil
}

// fakeCustomerStorage scripts the directory contract.
type fakeCustomerStorage struct {
	customers []orderstore.CustomerWithOrderCount
	names     []string
	orders    []orderstore.Order
	listErr   error

	createdNames []string
	createErr    error
	renameErr    error
	deleteErr    error
	deletedIDs   []int64
}

func (f *fakeCustomerStorage) ListCustomers(_ context.Context) ([]orderstore.CustomerWithOrderCount, error) {
	return f.customers, f.listErr
}

func (f *fakeCustomerStorage) CustomerNames(_ context.Context) ([]string, error) {
	return f.names, f.listErr
}

func (f *fakeCustomerStorage) GetCustomerByName(_ context.Context, name string) (orderstore.Customer, error) {
	for _, entry := range f.customers {
		if orderstore.CustomerNamesEqual(entry.Name, name) {
			return entry.Customer, nil
		}
	}

	return orderstore.Customer{}, orderstore.ErrCustomerNotFound
}

func (f *fakeCustomerStorage) CreateCustomer(_ context.Context, name string) (orderstore.Customer, error) {
	if f.createErr != nil {
		return orderstore.Customer{}, f.createErr
	}

	f.createdNames = append(f.createdNames, name)

	return orderstore.Customer{ID: 1, Name: name}, nil
}

func (f *fakeCustomerStorage) RenameCustomer(_ context.Context, _ int64, _ string) error {
	return f.renameErr
}

func (f *fakeCustomerStorage) DeleteCustomer(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}

	f.deletedIDs = append(f.deletedIDs, id)

	return nil
}

func (f *fakeCustomerStorage) CustomerOrders(_ context.Context, _ string) ([]orderstore.Order, error) {
	return f.orders, f.listErr
}

// fakeCache is an in-memory tag-aware cache; TTLs are ignored.
type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	tagged      map[string][]string
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string][]byte),
		tagged:  make(map[string][]string),
	}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.entries[key]
	if !ok {
		return nil, orderstore.ErrCacheMiss
	}

	return value, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value
	for _, tag := range tags {
		c.tagged[tag] = append(c.tagged[tag], key)
	}

	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, tags ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		c.invalidated = append(c.invalidated, tag)
		for _, key := range c.tagged[tag] {
			delete(c.entries, key)
		}
		delete(c.tagged, tag)
	}

	return nil
}

// fakeMetrics counts increments per metric name.
type fakeMetrics struct {
	mu       sync.Mutex
	counters map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{counters: make(map[string]int)}
}

func (m *fakeMetrics) RecordDuration(_ string, _ time.Duration, _ map[string]string) {}

func (m *fakeMetrics) IncrementCounter(metric string, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[metric]++
}

func (m *fakeMetrics) RecordValue(_ string, _ float64, _ map[string]string) {}

func (m *fakeMetrics) count(metric string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.counters[metric]
}
