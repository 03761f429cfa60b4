package shipping

import (
	"testing"

	"github.com/princinho/storefront-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeeFreeShippingAlwaysZero(t *testing.T) {
	attrs := models.ProductShipping{Weight: 12.5, FreeShipping: true, Class: models.ShippingClassBulky}

	for _, opt := range Options() {
		for _, qty := range []int{1, 3, 100} {
			fee, err := Fee(attrs, qty, opt.Provider, opt.Service)
			require.NoError(t, err)
			assert.Zero(t, fee)
		}
	}

	// Free shipping short-circuits before the provider lookup.
	fee, err := Fee(attrs, 1, "no-such-provider", "standard")
	require.NoError(t, err)
	assert.Zero(t, fee)
}

func TestFeeFormula(t *testing.T) {
	attrs := models.ProductShipping{Weight: 1, Class: models.ShippingClassStandard}

	for _, opt := range Options() {
		rate, err := Lookup(opt.Provider, opt.Service)
		require.NoError(t, err)

		fee, err := Fee(attrs, 2, opt.Provider, opt.Service)
		require.NoError(t, err)

		raw := rate.BaseFee + 2*rate.PerKg
		want := ((raw + 999) / 1000) * 1000
		assert.Equal(t, want, fee, "%s/%s", opt.Provider, opt.Service)
	}
}

func TestFeeUnknownProviderOrService(t *testing.T) {
	attrs := models.ProductShipping{Weight: 1, Class: models.ShippingClassStandard}

	_, err := Fee(attrs, 1, "pigeon", "standard")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = Fee(attrs, 1, "ghn", "teleport")
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestFeeInvalidQuantity(t *testing.T) {
	attrs := models.ProductShipping{Weight: 1, Class: models.ShippingClassStandard}

	for _, qty := range []int{0, -2} {
		_, err := Fee(attrs, qty, "ghn", "standard")
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
}

func TestClassMultipliers(t *testing.T) {
	base := 10000.0
	assert.Equal(t, 12000.0, base*classMultiplier[models.ShippingClassFragile])
	assert.Equal(t, 15000.0, base*classMultiplier[models.ShippingClassBulky])
	assert.Equal(t, 13000.0, base*classMultiplier[models.ShippingClassExpress])
	assert.Equal(t, 10000.0, base*classMultiplier[models.ShippingClassStandard])
}

func TestFeeAppliesClassSurchargeThenRoundsUp(t *testing.T) {
	// viettel_post economy: base 12000, perKg 1800.
	// 0.5kg x 1 -> 12900 raw, fragile x1.2 -> 15480, rounded up -> 16000.
	attrs := models.ProductShipping{Weight: 0.5, Class: models.ShippingClassFragile}
	fee, err := Fee(attrs, 1, "viettel_post", "economy")
	require.NoError(t, err)
	assert.Equal(t, int64(16000), fee)
}

func TestFeeUnknownClassFallsBackToStandard(t *testing.T) {
	known := models.ProductShipping{Weight: 2, Class: models.ShippingClassStandard}
	unknown := models.ProductShipping{Weight: 2, Class: models.ShippingClass("mystery")}

	a, err := Fee(known, 1, "ghtk", "standard")
	require.NoError(t, err)
	b, err := Fee(unknown, 1, "ghtk", "standard")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRoundUpToThousand(t *testing.T) {
	assert.Equal(t, int64(0), roundUpToThousand(0))
	assert.Equal(t, int64(1000), roundUpToThousand(1))
	assert.Equal(t, int64(21000), roundUpToThousand(21000))
	assert.Equal(t, int64(22000), roundUpToThousand(21000.01))
}
