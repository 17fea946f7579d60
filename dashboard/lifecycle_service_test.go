package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-labs/orderstore-go/dashboard"
	"github.com/tradewind-labs/orderstore-go/orderstore"
)

func validCreateInput() orderstore.CreateOrderInput {
	day := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	return orderstore.CreateOrderInput{
		PartNumber:      "C20207000",
		Description:     "HUBCAP",
		Qty:             2,
		Customer:        "TTK",
		CustPO:          "PO 9001",
		PODate:          day,
		Term:            orderstore.TermNet30,
		Currency:        orderstore.CurrencyUSD,
		POValue:         1000,
		Costs:           600,
		Status:          orderstore.StatusYetToBeProcessed,
		PaymentReceived: orderstore.No,
		InvestorPaid:    orderstore.No,
		Supplier:        "Honeywell Aerospace",
		SupplierPO:      "PO240001",
		SupplierPODate:  day,
		Stability:       5,
	}
}

func Test_Create_RejectsInvalidInputBeforeStorage(t *testing.T) {
	storage := &fakeOrderStorage{}
	service := dashboard.NewLifecycleService(storage)

	input := validCreateInput()
	input.PartNumber = ""

	result := service.Create(context.Background(), input)

	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "PartNumber")
	assert.Empty(t, storage.created)
}

func Test_Create_RejectsUnknownStatus(t *testing.T) {
	service := dashboard.NewLifecycleService(&fakeOrderStorage{})

	input := validCreateInput()
	input.Status = "Teleported"

	result := service.Create(context.Background(), input)

	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "unknown status")
}

func Test_Create_InvalidatesAllListAndAggregateTags(t *testing.T) {
	storage := &fakeOrderStorage{}
	cache := newFakeCache()
	service := dashboard.NewLifecycleService(storage, dashboard.WithLifecycleCache(cache))

	result := service.Create(context.Background(), validCreateInput())

	assert.Nil(t, result.Error)
	assert.ElementsMatch(t,
		[]string{orderstore.TagOrders, orderstore.TagStatusCounts, orderstore.TagCustomerCounts, orderstore.TagPOValueRange},
		cache.invalidated,
	)
}

func Test_Update_StatusTagInvalidatedOnlyWhenWrittenStatusMatchesRequested(t *testing.T) {
	requested := orderstore.StatusDelivered

	t.Run("written status matches requested", func(t *testing.T) {
		storage := &fakeOrderStorage{updateResult: orderstore.Order{SerialNumber: 7, Status: requested}}
		cache := newFakeCache()
		service := dashboard.NewLifecycleService(storage, dashboard.WithLifecycleCache(cache))

		result := service.Update(context.Background(), 7, orderstore.UpdateOrderInput{Status: &requested})

		assert.Nil(t, result.Error)
		assert.Contains(t, cache.invalidated, orderstore.TagStatusCounts)
	})

	t.Run("written status differs from requested", func(t *testing.T) {
		storage := &fakeOrderStorage{updateResult: orderstore.Order{SerialNumber: 7, Status: orderstore.StatusHold}}
		cache := newFakeCache()
		service := dashboard.NewLifecycleService(storage, dashboard.WithLifecycleCache(cache))

		result := service.Update(context.Background(), 7, orderstore.UpdateOrderInput{Status: &requested})

		assert.Nil(t, result.Error)
		assert.Contains(t, cache.invalidated, orderstore.TagOrders)
		assert.NotContains(t, cache.invalidated, orderstore.TagStatusCounts)
	})

	t.Run("no status in the update", func(t *testing.T) {
		remarks := "expedite"
		storage := &fakeOrderStorage{updateResult: orderstore.Order{SerialNumber: 7, Status: orderstore.StatusHold}}
		cache := newFakeCache()
		service := dashboard.NewLifecycleService(storage, dashboard.WithLifecycleCache(cache))

		result := service.Update(context.Background(), 7, orderstore.UpdateOrderInput{Remarks: &remarks})

		assert.Nil(t, result.Error)
		assert.Equal(t, []string{orderstore.TagOrders}, cache.invalidated)
	})
}

func Test_Update_CustomerChangeInvalidatesCustomerCounts(t *testing.T) {
	customer := "AAL"
	storage := &fakeOrderStorage{updateResult: orderstore.Order{SerialNumber: 7, Customer: customer}}
	cache := newFakeCache()
	service := dashboard.NewLifecycleService(storage, dashboard.WithLifecycleCache(cache))

	result := service.Update(context.Background(), 7, orderstore.UpdateOrderInput{Customer: &customer})

	assert.Nil(t, result.Error)
	assert.Contains(t, cache.invalidated, orderstore.TagCustomerCounts)
}

func Test_Update_NotFoundSurfacesAsMessage(t *testing.T) {
	storage := &fakeOrderStorage{updateErr: orderstore.ErrOrderNotFound}
	service := dashboard.NewLifecycleService(storage)

	status := orderstore.StatusDelivered
	result := service.Update(context.Background(), 999, orderstore.UpdateOrderInput{Status: &status})

	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "not found")
}

func Test_BulkUpdate_RequiresAtLeastOneField(t *testing.T) {
	service := dashboard.NewLifecycleService(&fakeOrderStorage{})

	result := service.BulkUpdate(context.Background(), orderstore.BulkUpdateInput{SerialNumbers: []int64{1}})

	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "at least one")
}

func Test_BulkUpdate_WithStatusInvalidatesStatusCounts(t *testing.T) {
	storage := &fakeOrderStorage{bulkAffected: 3}
	cache := newFakeCache()
	service := dashboard.NewLifecycleService(storage, dashboard.WithLifecycleCache(cache))

	status := orderstore.StatusSupplierPaid
	result := service.BulkUpdate(context.Background(), orderstore.BulkUpdateInput{
		SerialNumbers: []int64{1, 2, 3},
		Status:        &status,
	})

	assert.Nil(t, result.Error)
	assert.ElementsMatch(t, []string{orderstore.TagOrders, orderstore.TagStatusCounts}, cache.invalidated)
}

func Test_BulkUpdate_FlagsOnlyLeavesStatusCountsAlone(t *testing.T) {
	storage := &fakeOrderStorage{bulkAffected: 2}
	cache := newFakeCache()
	service := dashboard.NewLifecycleService(storage, dashboard.WithLifecycleCache(cache))

	paid := orderstore.Yes
	result := service.BulkUpdate(context.Background(), orderstore.BulkUpdateInput{
		SerialNumbers:   []int64{1, 2},
		PaymentReceived: &paid,
	})

	assert.Nil(t, result.Error)
	assert.Equal(t, []string{orderstore.TagOrders}, cache.invalidated)
}

func Test_DeleteMany_InvalidatesAllListAndAggregateTags(t *testing.T) {
	storage := &fakeOrderStorage{}
	cache := newFakeCache()
	service := dashboard.NewLifecycleService(storage, dashboard.WithLifecycleCache(cache))

	result := service.DeleteMany(context.Background(), []int64{5, 9})

	assert.Nil(t, result.Error)
	assert.Equal(t, []int64{5, 9}, storage.deletedSerials)
	assert.ElementsMatch(t,
		[]string{orderstore.TagOrders, orderstore.TagStatusCounts, orderstore.TagCustomerCounts, orderstore.TagPOValueRange},
		cache.invalidated,
	)
}

func Test_Delete_StorageFailureSkipsInvalidation(t *testing.T) {
	storage := &fakeOrderStorage{deleteErr: orderstore.ErrOrderNotFound}
	cache := newFakeCache()
	service := dashboard.NewLifecycleService(storage, dashboard.WithLifecycleCache(cache))

	result := service.Delete(context.Background(), 999)

	require.NotNil(t, result.Error)
	assert.Empty(t, cache.invalidated)
}
