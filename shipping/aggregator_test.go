package shipping

import (
	"testing"

	"github.com/princinho/storefront-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCart() []CartItem {
	return []CartItem{
		{ProductID: "a", Quantity: 2, Shipping: models.ProductShipping{Weight: 1, Class: models.ShippingClassStandard}},
		{ProductID: "b", Quantity: 1, Shipping: models.ProductShipping{Weight: 3, Class: models.ShippingClassFragile}},
		{ProductID: "c", Quantity: 5, Shipping: models.ProductShipping{FreeShipping: true}},
	}
}

func TestQuoteCartSumsBreakdown(t *testing.T) {
	q, err := QuoteCart(testCart(), "ghn", "standard")
	require.NoError(t, err)

	require.Len(t, q.Breakdown, 3)
	var sum int64
	for i, entry := range q.Breakdown {
		want, err := Fee(testCart()[i].Shipping, testCart()[i].Quantity, "ghn", "standard")
		require.NoError(t, err)
		assert.Equal(t, want, entry.Fee)
		sum += entry.Fee
	}
	assert.Equal(t, sum, q.Total)
	assert.Equal(t, "3-5 days", q.EstimatedDelivery)

	// The free-shipping line contributes nothing.
	assert.Zero(t, q.Breakdown[2].Fee)
}

func TestQuoteCartUnknownCombination(t *testing.T) {
	_, err := QuoteCart(testCart(), "pigeon", "standard")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = QuoteCart(testCart(), "ghn", "economy")
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestCheapestOptionIsMinimumOverAllCombinations(t *testing.T) {
	best, err := CheapestOption(testCart())
	require.NoError(t, err)

	for _, opt := range Options() {
		q, err := QuoteCart(testCart(), opt.Provider, opt.Service)
		require.NoError(t, err)
		assert.LessOrEqual(t, best.Total, q.Total)
	}
}

func TestCheapestOptionEmptyCart(t *testing.T) {
	best, err := CheapestOption(nil)
	require.NoError(t, err)
	assert.Zero(t, best.Total)
	assert.NotEmpty(t, best.Provider)
}

func TestOptionsStableOrder(t *testing.T) {
	a := Options()
	b := Options()
	assert.Equal(t, a, b)
	assert.Equal(t, 6, len(a))
}
