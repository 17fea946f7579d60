package orderstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-labs/orderstore-go/orderstore"
)

func Test_BasicFilters_Clauses_DropsNonConstrainingFields(t *testing.T) {
	filters := orderstore.BasicFilters{
		PartNumber: "C202",
		Status:     []string{orderstore.StatusDelivered},
	}

	clauses := filters.Clauses()

	require.Len(t, clauses, 2)
	assert.Equal(t, orderstore.FieldPartNumber, clauses[0].Field)
	assert.Equal(t, orderstore.FieldStatus, clauses[1].Field)
}

func Test_BasicFilters_Clauses_EmptyFiltersYieldNoClauses(t *testing.T) {
	assert.Empty(t, orderstore.BasicFilters{}.Clauses())
}

func Test_EffectiveClauses_BasicModeJoinsWithAnd(t *testing.T) {
	request := orderstore.DefaultQueryRequest()
	request.JoinOperator = orderstore.JoinOr // ignored outside advanced mode
	request.Basic.Customer = "TTK"

	clauses, join := request.EffectiveClauses()

	require.Len(t, clauses, 1)
	assert.Equal(t, orderstore.JoinAnd, join)
}

func Test_EffectiveClauses_AdvancedModeUsesClauseListAndJoin(t *testing.T) {
	request := orderstore.DefaultQueryRequest()
	request.FilterFlag = orderstore.FilterFlagAdvanced
	request.JoinOperator = orderstore.JoinOr
	request.Filters = []orderstore.FilterClause{
		orderstore.TextClause(orderstore.FieldCustomer, "TTK"),
		orderstore.TextClause(orderstore.FieldSupplier, "Honeywell"),
	}
	request.Basic.PartNumber = "ignored in advanced mode"

	clauses, join := request.EffectiveClauses()

	require.Len(t, clauses, 2)
	assert.Equal(t, orderstore.JoinOr, join)
}

func Test_EffectiveClauses_AdvancedModeDefaultsJoinToAnd(t *testing.T) {
	request := orderstore.QueryRequest{Page: 1, PerPage: 10, FilterFlag: orderstore.FilterFlagCommand}

	_, join := request.EffectiveClauses()

	assert.Equal(t, orderstore.JoinAnd, join)
}

func Test_QueryRequest_Validate_RejectsBadPagination(t *testing.T) {
	request := orderstore.DefaultQueryRequest()
	request.Page = 0

	assert.Error(t, request.Validate())

	request = orderstore.DefaultQueryRequest()
	request.PerPage = 0

	assert.Error(t, request.Validate())
}

func Test_QueryRequest_Validate_RejectsUnknownSortField(t *testing.T) {
	request := orderstore.DefaultQueryRequest()
	request.Sort = []orderstore.SortField{{Field: "warpFactor", Desc: true}}

	err := request.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort field")
}

func Test_QueryRequest_Validate_RejectsInvalidClauseInEitherMode(t *testing.T) {
	request := orderstore.DefaultQueryRequest()
	request.FilterFlag = orderstore.FilterFlagAdvanced
	request.Filters = []orderstore.FilterClause{orderstore.TextClause(orderstore.FieldPOValue, "500")}

	assert.Error(t, request.Validate())
}

func Test_QueryRequest_Validate_RejectsUnknownJoinOperator(t *testing.T) {
	request := orderstore.DefaultQueryRequest()
	request.JoinOperator = "xor"

	assert.Error(t, request.Validate())
}

func Test_QueryRequest_Offset_IsZeroBasedPageTimesPerPage(t *testing.T) {
	request := orderstore.QueryRequest{Page: 3, PerPage: 25}

	assert.Equal(t, 50, request.Offset())
}

func Test_QueryRequest_CacheKey_StableForEqualRequests(t *testing.T) {
	day := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	build := func() orderstore.QueryRequest {
		request := orderstore.DefaultQueryRequest()
		request.Basic.Customer = "TTK"
		request.Basic.PODateFrom = timePtr(day)
		request.Sort = []orderstore.SortField{{Field: orderstore.FieldPOValue, Desc: true}}

		return request
	}

	assert.Equal(t, build().CacheKey(), build().CacheKey())
}

func Test_QueryRequest_CacheKey_DiffersWhenAnyPartOfTheSignatureDiffers(t *testing.T) {
	base := orderstore.DefaultQueryRequest()

	paged := base
	paged.Page = 2

	filtered := base
	filtered.Basic.Customer = "TTK"

	sorted := base
	sorted.Sort = []orderstore.SortField{{Field: orderstore.FieldPOValue}}

	assert.NotEqual(t, base.CacheKey(), paged.CacheKey())
	assert.NotEqual(t, base.CacheKey(), filtered.CacheKey())
	assert.NotEqual(t, base.CacheKey(), sorted.CacheKey())
}

func Test_PageCount_RoundsUpPartialPages(t *testing.T) {
	assert.Equal(t, 3, orderstore.PageCount(25, 10))
	assert.Equal(t, 1, orderstore.PageCount(10, 10))
	assert.Equal(t, 0, orderstore.PageCount(0, 10))
	assert.Equal(t, 0, orderstore.PageCount(10, 0))
}

func Test_BuildOrderSlug_ComposesSerialCustPOAndPartNumber(t *testing.T) {
	assert.Equal(t, "7-PO 9001-C20207000", orderstore.BuildOrderSlug(7, "PO 9001", "C20207000"))
}

func Test_ParseOrderSlug(t *testing.T) {
	t.Run("extracts the leading serial number", func(t *testing.T) {
		serialNumber, ok := orderstore.ParseOrderSlug("7-PO 9001-C20207000")

		require.True(t, ok)
		assert.Equal(t, int64(7), serialNumber)
	})

	t.Run("tolerates extra dashes inside the trailing parts", func(t *testing.T) {
		serialNumber, ok := orderstore.ParseOrderSlug("42-PO-9001-C202-07000")

		require.True(t, ok)
		assert.Equal(t, int64(42), serialNumber)
	})

	t.Run("rejects too few parts", func(t *testing.T) {
		_, ok := orderstore.ParseOrderSlug("7-PO9001")

		assert.False(t, ok)
	})

	t.Run("rejects a non-numeric serial part", func(t *testing.T) {
		_, ok := orderstore.ParseOrderSlug("seven-PO 9001-C20207000")

		assert.False(t, ok)
	})
}

func Test_EmptyQueryResult_IsZeroButNotNil(t *testing.T) {
	result := orderstore.EmptyQueryResult()

	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Data)
	assert.Zero(t, result.TotalMatching)
	assert.Zero(t, result.PageCount)
}
