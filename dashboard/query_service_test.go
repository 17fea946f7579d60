package dashboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-labs/orderstore-go/dashboard"
	"github.com/tradewind-labs/orderstore-go/orderstore"
)

func Test_Orders_DerivesPageCountFromTotal(t *testing.T) {
	storage := &fakeOrderStorage{
		queryOrders: []orderstore.Order{{SerialNumber: 1}, {SerialNumber: 2}},
		queryTotal:  25,
	}
	service := dashboard.NewQueryService(storage)

	result := service.Orders(context.Background(), orderstore.DefaultQueryRequest())

	assert.Len(t, result.Data, 2)
	assert.Equal(t, 25, result.TotalMatching)
	assert.Equal(t, 3, result.PageCount)
}

func Test_Orders_StorageFailureDegradesToEmptyResult(t *testing.T) {
	storage := &fakeOrderStorage{queryErr: assert.AnError}
	metrics := newFakeMetrics()
	service := dashboard.NewQueryService(storage, dashboard.WithQueryMetrics(metrics))

	result := service.Orders(context.Background(), orderstore.DefaultQueryRequest())

	assert.Equal(t, orderstore.EmptyQueryResult(), result)
	assert.Equal(t, 1, metrics.count(orderstore.MetricSwallowedFailures))
}

func Test_Orders_InvalidRequestDegradesToEmptyResult(t *testing.T) {
	storage := &fakeOrderStorage{queryTotal: 10}
	service := dashboard.NewQueryService(storage)

	result := service.Orders(context.Background(), orderstore.QueryRequest{Page: 0, PerPage: 10})

	assert.Equal(t, orderstore.EmptyQueryResult(), result)
	assert.Equal(t, 0, storage.queryCalls) // rejected before storage
}

func Test_Orders_IdenticalRequestsShareOneCacheEntry(t *testing.T) {
	storage := &fakeOrderStorage{
		queryOrders: []orderstore.Order{{SerialNumber: 1}},
		queryTotal:  1,
	}
	cache := newFakeCache()
	metrics := newFakeMetrics()
	service := dashboard.NewQueryService(storage,
		dashboard.WithQueryCache(cache),
		dashboard.WithQueryMetrics(metrics),
	)

	first := service.Orders(context.Background(), orderstore.DefaultQueryRequest())
	second := service.Orders(context.Background(), orderstore.DefaultQueryRequest())

	assert.Equal(t, first, second)
	assert.Equal(t, 1, storage.queryCalls)
	assert.Equal(t, 1, metrics.count(orderstore.MetricCacheHits))
}

func Test_Orders_DifferentRequestsMissTheCache(t *testing.T) {
	storage := &fakeOrderStorage{queryTotal: 1}
	cache := newFakeCache()
	service := dashboard.NewQueryService(storage, dashboard.WithQueryCache(cache))

	service.Orders(context.Background(), orderstore.DefaultQueryRequest())

	other := orderstore.DefaultQueryRequest()
	other.Page = 2
	service.Orders(context.Background(), other)

	assert.Equal(t, 2, storage.queryCalls)
}

func Test_OrderBySlug_NotFoundIsKept(t *testing.T) {
	storage := &fakeOrderStorage{}
	service := dashboard.NewQueryService(storage)

	_, err := service.OrderBySlug(context.Background(), "garbage")

	assert.ErrorIs(t, err, orderstore.ErrOrderNotFound)
}

func Test_OrderBySlug_MemoizesHits(t *testing.T) {
	storage := &fakeOrderStorage{getOrder: orderstore.Order{SerialNumber: 7, CustPO: "PO 9001", PartNumber: "C20207000"}}
	cache := newFakeCache()
	service := dashboard.NewQueryService(storage, dashboard.WithQueryCache(cache))

	first, err := service.OrderBySlug(context.Background(), "7-PO 9001-C20207000")
	require.NoError(t, err)

	storage.getErr = assert.AnError // further storage reads would fail

	second, err := service.OrderBySlug(context.Background(), "7-PO 9001-C20207000")
	require.NoError(t, err)

	assert.Equal(t, first.SerialNumber, second.SerialNumber)
}

func Test_StatusCounts_FailureDegradesToEmptyHistogram(t *testing.T) {
	storage := &fakeOrderStorage{statusCountsErr: assert.AnError}
	service := dashboard.NewQueryService(storage)

	counts := service.StatusCounts(context.Background())

	assert.Empty(t, counts)
}

func Test_StatusCounts_InvalidatedByStatusTag(t *testing.T) {
	storage := &fakeOrderStorage{statusCounts: orderstore.StatusCounts{orderstore.StatusDelivered: 2}}
	cache := newFakeCache()
	service := dashboard.NewQueryService(storage, dashboard.WithQueryCache(cache))

	service.StatusCounts(context.Background())

	storage.statusCounts = orderstore.StatusCounts{orderstore.StatusDelivered: 3}

	// Still served from cache until the tag is dropped.
	assert.Equal(t, 2, service.StatusCounts(context.Background())[orderstore.StatusDelivered])

	require.NoError(t, cache.Invalidate(context.Background(), orderstore.TagStatusCounts))

	assert.Equal(t, 3, service.StatusCounts(context.Background())[orderstore.StatusDelivered])
}

func Test_POValueRange_SurvivesFieldUpdatesButNotPopulationChanges(t *testing.T) {
	storage := &fakeOrderStorage{poValueRange: orderstore.POValueRange{Min: 100, Max: 9000}}
	cache := newFakeCache()
	queries := dashboard.NewQueryService(storage, dashboard.WithQueryCache(cache))
	lifecycle := dashboard.NewLifecycleService(storage, dashboard.WithLifecycleCache(cache))

	first := queries.POValueRange(context.Background())
	require.InDelta(t, 9000.0, first.Max, 0.001)

	storage.poValueRange = orderstore.POValueRange{Min: 1, Max: 2} // storage moved on, cache still serves

	value := 50000.0
	storage.updateResult = orderstore.Order{SerialNumber: 7, POValue: value}
	result := lifecycle.Update(context.Background(), 7, orderstore.UpdateOrderInput{POValue: &value})
	require.Nil(t, result.Error)

	assert.InDelta(t, 9000.0, queries.POValueRange(context.Background()).Max, 0.001)

	result = lifecycle.Create(context.Background(), validCreateInput())
	require.Nil(t, result.Error)

	assert.InDelta(t, 2.0, queries.POValueRange(context.Background()).Max, 0.001)
}

func Test_POValueRange_FailureDegradesToZeroRange(t *testing.T) {
	storage := &fakeOrderStorage{poValueRangeErr: assert.AnError}
	service := dashboard.NewQueryService(storage)

	valueRange := service.POValueRange(context.Background())

	assert.Equal(t, orderstore.POValueRange{Min: 0, Max: 0}, valueRange)
}
