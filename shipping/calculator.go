package shipping

import (
	"errors"
	"math"

	"github.com/princinho/storefront-backend/models"
)

var (
	ErrUnknownProvider = errors.New("invalid shipping provider")
	ErrUnknownService  = errors.New("invalid shipping service")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Fee computes the shipping fee for one product line. Free-shipping products
// cost 0 regardless of provider or service. Otherwise:
//
//	fee = base + weight * quantity * perKg
//
// scaled by the product's shipping-class multiplier and rounded up to the
// nearest 1000 currency units.
func Fee(attrs models.ProductShipping, quantity int, provider, service string) (int64, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	if attrs.FreeShipping {
		return 0, nil
	}

	rate, err := Lookup(provider, service)
	if err != nil {
		return 0, err
	}

	fee := float64(rate.BaseFee) + attrs.Weight*float64(quantity)*float64(rate.PerKg)

	mult, ok := classMultiplier[attrs.Class]
	if !ok {
		mult = classMultiplier[models.ShippingClassStandard]
	}
	fee *= mult

	return roundUpToThousand(fee), nil
}

func roundUpToThousand(fee float64) int64 {
	return int64(math.Ceil(fee/1000)) * 1000
}
