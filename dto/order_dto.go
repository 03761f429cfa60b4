package dto

type OrderItemDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type ShippingSelectionDTO struct {
	Provider string `json:"provider" binding:"required"`
	Service  string `json:"service" binding:"required"`
}

type CreateOrderDTO struct {
	Items         []OrderItemDTO       `json:"items"`
	Amount        float64              `json:"amount"`
	Address       AddressInput         `json:"address"`
	Shipping      ShippingSelectionDTO `json:"shipping" binding:"required"`
	PaymentMethod string               `json:"paymentMethod" binding:"required"`
}

type UpdateOrderStatusDTO struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusDTO struct {
	Status string `json:"status" binding:"required"`
}

type CreateDeliveryDTO struct {
	ItemIDs      []string `json:"itemIds" binding:"required,min=1"`
	TrackingCode string   `json:"trackingCode"`
}

// QuoteCartDTO asks for a shipping quote without creating anything.
type QuoteCartDTO struct {
	Items    []OrderItemDTO `json:"items" binding:"required,min=1,dive"`
	Provider string         `json:"provider"`
	Service  string         `json:"service"`
}
