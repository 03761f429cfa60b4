package dto

// UpdateCartItemDTO sets the quantity of one cart line; quantity 0 removes it.
type UpdateCartItemDTO struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
}
