package dto

// CreateProductDTO is parsed from the "data" multipart field (JSON); images
// arrive as multipart files alongside it.
type CreateProductDTO struct {
	Name            string  `json:"name" binding:"required,min=3"`
	Price           float64 `json:"price" binding:"required,gt=0"`
	DiscountPercent float64 `json:"discountPercent" binding:"gte=0,lte=100"`
	Stock           int     `json:"stock" binding:"gte=0"`
	Category        string  `json:"category" binding:"required"`
	Brand           string  `json:"brand"`
	Description     string  `json:"description"`

	Weight       float64 `json:"weight" binding:"gte=0"`
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	FreeShipping bool    `json:"freeShipping"`
	ShippingClass string `json:"shippingClass"`
}

// UpdateProductDTO — all fields are optional pointers
type UpdateProductDTO struct {
	Name            *string  `json:"name,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	DiscountPercent *float64 `json:"discountPercent,omitempty"`
	Stock           *int     `json:"stock,omitempty"`
	Category        *string  `json:"category,omitempty"`
	Brand           *string  `json:"brand,omitempty"`
	Description     *string  `json:"description,omitempty"`

	Weight        *float64 `json:"weight,omitempty"`
	Length        *float64 `json:"length,omitempty"`
	Width         *float64 `json:"width,omitempty"`
	Height        *float64 `json:"height,omitempty"`
	FreeShipping  *bool    `json:"freeShipping,omitempty"`
	ShippingClass *string  `json:"shippingClass,omitempty"`

	RemovedImageUrls []string `json:"removedImageUrls,omitempty"`
}
