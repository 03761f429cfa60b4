package shipping

import "github.com/princinho/storefront-backend/models"

// CartItem carries the shipping-relevant attributes of one cart line.
type CartItem struct {
	ProductID string
	Quantity  int
	Shipping  models.ProductShipping
}

// ItemFee is the per-line entry of a cart quote breakdown.
type ItemFee struct {
	ProductID string `json:"productId"`
	Fee       int64  `json:"fee"`
}

// Quote is the total fee for a cart under one provider/service combination.
type Quote struct {
	Provider          string    `json:"provider"`
	Service           string    `json:"service"`
	Total             int64     `json:"total"`
	EstimatedDelivery string    `json:"estimatedDelivery"`
	Breakdown         []ItemFee `json:"breakdown"`
}

// QuoteCart prices every line with Fee and sums the results.
func QuoteCart(items []CartItem, provider, service string) (Quote, error) {
	rate, err := Lookup(provider, service)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		Provider:          provider,
		Service:           service,
		EstimatedDelivery: rate.EstimatedDelivery,
		Breakdown:         make([]ItemFee, 0, len(items)),
	}
	for _, item := range items {
		fee, err := Fee(item.Shipping, item.Quantity, provider, service)
		if err != nil {
			return Quote{}, err
		}
		q.Breakdown = append(q.Breakdown, ItemFee{ProductID: item.ProductID, Fee: fee})
		q.Total += fee
	}
	return q, nil
}

// CheapestOption scans every provider/service combination and returns the
// one with the lowest total. The table is small and static, a linear scan
// is fine. Ties go to the first combination in stable (sorted) order.
func CheapestOption(items []CartItem) (Quote, error) {
	var best Quote
	found := false
	for _, opt := range Options() {
		q, err := QuoteCart(items, opt.Provider, opt.Service)
		if err != nil {
			return Quote{}, err
		}
		if !found || q.Total < best.Total {
			best = q
			found = true
		}
	}
	if !found {
		return Quote{}, ErrUnknownProvider
	}
	return best, nil
}
