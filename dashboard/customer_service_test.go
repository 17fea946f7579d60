package dashboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-labs/orderstore-go/dashboard"
	"github.com/tradewind-labs/orderstore-go/orderstore"
)

func Test_CustomerList_FailureDegradesToEmptyList(t *testing.T) {
	storage := &fakeCustomerStorage{listErr: assert.AnError}
	metrics := newFakeMetrics()
	service := dashboard.NewCustomerService(storage, dashboard.WithCustomerMetrics(metrics))

	customers := service.List(context.Background())

	assert.Empty(t, customers)
	assert.Equal(t, 1, metrics.count(orderstore.MetricSwallowedFailures))
}

func Test_CustomerList_MemoizedUntilCustomerTagDropped(t *testing.T) {
	storage := &fakeCustomerStorage{customers: []orderstore.CustomerWithOrderCount{
		{Customer: orderstore.Customer{ID: 1, Name: "AAL"}, OrderCount: 4},
	}}
	cache := newFakeCache()
	service := dashboard.NewCustomerService(storage, dashboard.WithCustomerCache(cache))

	first := service.List(context.Background())
	require.Len(t, first, 1)

	storage.customers = nil // storage emptied, cache still serves

	assert.Len(t, service.List(context.Background()), 1)

	require.NoError(t, cache.Invalidate(context.Background(), orderstore.TagCustomers))

	assert.Empty(t, service.List(context.Background()))
}

func Test_CustomerCreate_ConflictSurfacesAsMessage(t *testing.T) {
	storage := &fakeCustomerStorage{createErr: orderstore.ErrCustomerExists}
	service := dashboard.NewCustomerService(storage)

	result := service.Create(context.Background(), "Acme Corp")

	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "already exists")
}

func Test_CustomerCreate_InvalidatesCustomerTag(t *testing.T) {
	storage := &fakeCustomerStorage{}
	cache := newFakeCache()
	service := dashboard.NewCustomerService(storage, dashboard.WithCustomerCache(cache))

	result := service.Create(context.Background(), "Acme Corp")

	assert.Nil(t, result.Error)
	assert.Equal(t, []string{orderstore.TagCustomers}, cache.invalidated)
	assert.Equal(t, []string{"Acme Corp"}, storage.createdNames)
}

func Test_CustomerRename_InvalidatesCustomerTag(t *testing.T) {
	storage := &fakeCustomerStorage{}
	cache := newFakeCache()
	service := dashboard.NewCustomerService(storage, dashboard.WithCustomerCache(cache))

	result := service.Rename(context.Background(), 1, "New Name")

	assert.Nil(t, result.Error)
	assert.Equal(t, []string{orderstore.TagCustomers}, cache.invalidated)
}

func Test_CustomerDelete_NotFoundSurfacesAsMessage(t *testing.T) {
	storage := &fakeCustomerStorage{deleteErr: orderstore.ErrCustomerNotFound}
	service := dashboard.NewCustomerService(storage)

	result := service.Delete(context.Background(), 99)

	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "not found")
}

func Test_CustomerByName_MatchesCaseInsensitively(t *testing.T) {
	storage := &fakeCustomerStorage{customers: []orderstore.CustomerWithOrderCount{
		{Customer: orderstore.Customer{ID: 1, Name: "Acme Corp"}},
	}}
	service := dashboard.NewCustomerService(storage)

	customer, err := service.ByName(context.Background(), "  ACME   CORP ")
	require.NoError(t, err)

	assert.Equal(t, int64(1), customer.ID)
}

func Test_CustomerOrders_FailureDegradesToEmptyList(t *testing.T) {
	storage := &fakeCustomerStorage{listErr: assert.AnError}
	service := dashboard.NewCustomerService(storage)

	orders := service.Orders(context.Background(), "AAL")

	assert.Empty(t, orders)
}
