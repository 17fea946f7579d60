package orderstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-labs/orderstore-go/orderstore"
)

func timePtr(v time.Time) *time.Time {
	return &v
}

func Test_FilterClause_Validate_AcceptsMatchingVariants(t *testing.T) {
	day := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	clauses := []orderstore.FilterClause{
		orderstore.TextClause(orderstore.FieldPartNumber, "C202"),
		orderstore.MultiSelectClause(orderstore.FieldStatus, string(orderstore.StatusDelivered)),
		orderstore.NumberRangeClause(orderstore.FieldPOValue, floatPtr(100), nil),
		orderstore.DateRangeClause(orderstore.FieldPODate, timePtr(day), nil),
	}

	for _, clause := range clauses {
		assert.NoError(t, clause.Validate(), "clause on %s", clause.Field)
	}
}

func Test_FilterClause_Validate_RejectsUnknownField(t *testing.T) {
	err := orderstore.TextClause("warpFactor", "9").Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown filter field")
}

func Test_FilterClause_Validate_RejectsVariantFieldKindMismatch(t *testing.T) {
	cases := map[string]orderstore.FilterClause{
		"text on number field":    orderstore.TextClause(orderstore.FieldPOValue, "500"),
		"multiSelect on text":     orderstore.MultiSelectClause(orderstore.FieldPartNumber, "a"),
		"numberRange on enum":     orderstore.NumberRangeClause(orderstore.FieldStatus, floatPtr(1), nil),
		"dateRange on text field": orderstore.DateRangeClause(orderstore.FieldCustomer, nil, nil),
	}

	for name, clause := range cases {
		t.Run(name, func(t *testing.T) {
			err := clause.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), "does not apply")
		})
	}
}

func Test_FilterClause_Validate_RejectsUnknownVariant(t *testing.T) {
	clause := orderstore.FilterClause{Field: orderstore.FieldPartNumber, Variant: "regex"}

	err := clause.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown filter variant")
}

func Test_FilterClause_IsConstraining_EmptyValuesDoNotConstrain(t *testing.T) {
	assert.False(t, orderstore.TextClause(orderstore.FieldPartNumber, "").IsConstraining())
	assert.False(t, orderstore.MultiSelectClause(orderstore.FieldStatus).IsConstraining())
	assert.False(t, orderstore.NumberRangeClause(orderstore.FieldPOValue, nil, nil).IsConstraining())
	assert.False(t, orderstore.DateRangeClause(orderstore.FieldPODate, nil, nil).IsConstraining())
}

func Test_FilterClause_IsConstraining_AnyBoundConstrains(t *testing.T) {
	day := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, orderstore.TextClause(orderstore.FieldPartNumber, "C").IsConstraining())
	assert.True(t, orderstore.MultiSelectClause(orderstore.FieldStatus, "Hold").IsConstraining())
	assert.True(t, orderstore.NumberRangeClause(orderstore.FieldPOValue, nil, floatPtr(900)).IsConstraining())
	assert.True(t, orderstore.DateRangeClause(orderstore.FieldPODate, nil, timePtr(day)).IsConstraining())
}
