package orderstore_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewind-labs/orderstore-go/orderstore"
)

func Test_GenerateRandomOrder_CarriesTheGivenSerialNumber(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	order := orderstore.GenerateRandomOrder(4711, rng)

	assert.Equal(t, int64(4711), order.SerialNumber)
}

func Test_GenerateRandomOrder_ProfitFieldsObeyTheDerivationLaw(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for range 50 {
		order := orderstore.GenerateRandomOrder(1, rng)

		expected := orderstore.DeriveProfit(order.POValue, order.Costs, order.CustomsDuty, order.FreightCost)

		require.NotNil(t, order.GrossProfit)
		require.NotNil(t, order.NetProfit)
		assert.InDelta(t, expected.GrossProfit, *order.GrossProfit, 0.001)
		assert.InDelta(t, expected.NetProfit, *order.NetProfit, 0.001)
		assert.InDelta(t, expected.ProfitPercent, *order.ProfitPercent, 0.001)
		assert.InDelta(t, expected.ProfitPercentAfterCost, *order.ProfitPercentAfterCost, 0.001)
	}
}

func Test_GenerateRandomOrder_ValuesStayInsideTheClosedEnumerations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for range 50 {
		order := orderstore.GenerateRandomOrder(1, rng)

		assert.True(t, orderstore.IsValidStatus(order.Status))
		assert.True(t, orderstore.IsValidTerm(order.Term))
		assert.True(t, orderstore.IsValidCurrency(order.Currency))
		assert.True(t, orderstore.IsValidYesNo(order.PaymentReceived))
		assert.True(t, orderstore.IsValidYesNo(order.InvestorPaid))
		assert.Positive(t, order.Qty)
		assert.GreaterOrEqual(t, order.Stability, 1.0)
		assert.LessOrEqual(t, order.Stability, 10.0)
	}
}

func Test_GenerateRandomOrder_DeterministicForAFixedSeed(t *testing.T) {
	first := orderstore.GenerateRandomOrder(1, rand.New(rand.NewSource(99)))
	second := orderstore.GenerateRandomOrder(1, rand.New(rand.NewSource(99)))

	assert.Equal(t, first.PartNumber, second.PartNumber)
	assert.Equal(t, first.Customer, second.Customer)
	assert.InDelta(t, first.POValue, second.POValue, 0.001)
	assert.Equal(t, first.Status, second.Status)
}
