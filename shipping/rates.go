// Package shipping computes delivery fees from static per-provider rate
// tables. Everything in here is deterministic and side-effect free.
package shipping

import (
	"sort"

	"github.com/princinho/storefront-backend/models"
)

// ServiceRate is the rate card for one service of one provider. Fees are in
// the smallest currency unit, PerKg applies to weight multiplied by quantity.
type ServiceRate struct {
	BaseFee           int64  `json:"baseFee"`
	PerKg             int64  `json:"perKg"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

var providers = map[string]map[string]ServiceRate{
	"ghn": {
		"standard": {BaseFee: 16000, PerKg: 2500, EstimatedDelivery: "3-5 days"},
		"express":  {BaseFee: 31000, PerKg: 4000, EstimatedDelivery: "1-2 days"},
	},
	"ghtk": {
		"standard": {BaseFee: 15000, PerKg: 2000, EstimatedDelivery: "4-6 days"},
		"express":  {BaseFee: 29000, PerKg: 3500, EstimatedDelivery: "2-3 days"},
	},
	"viettel_post": {
		"economy":  {BaseFee: 12000, PerKg: 1800, EstimatedDelivery: "5-7 days"},
		"standard": {BaseFee: 18000, PerKg: 2200, EstimatedDelivery: "3-5 days"},
	},
}

// classMultiplier scales the fee by the product's shipping class.
var classMultiplier = map[models.ShippingClass]float64{
	models.ShippingClassStandard: 1.0,
	models.ShippingClassFragile:  1.2,
	models.ShippingClassExpress:  1.3,
	models.ShippingClassBulky:    1.5,
}

// ProviderService names one selectable provider/service combination.
type ProviderService struct {
	Provider          string `json:"provider"`
	Service           string `json:"service"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// Options lists every provider/service combination in stable order.
func Options() []ProviderService {
	out := make([]ProviderService, 0)
	for _, p := range sortedKeys(providers) {
		for _, s := range sortedKeys(providers[p]) {
			out = append(out, ProviderService{
				Provider:          p,
				Service:           s,
				EstimatedDelivery: providers[p][s].EstimatedDelivery,
			})
		}
	}
	return out
}

// Lookup returns the rate card for a provider/service pair.
func Lookup(provider, service string) (ServiceRate, error) {
	services, ok := providers[provider]
	if !ok {
		return ServiceRate{}, ErrUnknownProvider
	}
	rate, ok := services[service]
	if !ok {
		return ServiceRate{}, ErrUnknownService
	}
	return rate, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
