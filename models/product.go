package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ShippingClass string

const (
	ShippingClassStandard ShippingClass = "standard"
	ShippingClassExpress  ShippingClass = "express"
	ShippingClassFragile  ShippingClass = "fragile"
	ShippingClassBulky    ShippingClass = "bulky"
)

func (c ShippingClass) Valid() bool {
	switch c {
	case ShippingClassStandard, ShippingClassExpress, ShippingClassFragile, ShippingClassBulky:
		return true
	}
	return false
}

// ProductShipping is the shipping sub-document embedded in every product.
// Weight is in kilograms, dimensions in centimeters.
type ProductShipping struct {
	Weight       float64       `bson:"weight" json:"weight"`
	Length       float64       `bson:"length,omitempty" json:"length,omitempty"`
	Width        float64       `bson:"width,omitempty" json:"width,omitempty"`
	Height       float64       `bson:"height,omitempty" json:"height,omitempty"`
	FreeShipping bool          `bson:"freeShipping" json:"freeShipping"`
	Class        ShippingClass `bson:"shippingClass" json:"shippingClass"`
}

type Product struct {
	Id              bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name            string          `bson:"name" json:"name"`
	Slug            string          `bson:"slug" json:"slug"`
	Images          []string        `bson:"images" json:"images"`
	Price           float64         `bson:"price" json:"price"`
	DiscountPercent float64         `bson:"discountPercent" json:"discountPercent"`
	Stock           int             `bson:"stock" json:"stock"`
	SoldQuantity    int             `bson:"soldQuantity" json:"soldQuantity"`
	Category        string          `bson:"category" json:"category"`
	Brand           string          `bson:"brand,omitempty" json:"brand,omitempty"`
	Description     string          `bson:"description,omitempty" json:"description,omitempty"`
	IsAvailable     bool            `bson:"isAvailable" json:"isAvailable"`
	Shipping        ProductShipping `bson:"shipping" json:"shipping"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// FinalPrice applies the discount percentage.
func (p Product) FinalPrice() float64 {
	if p.DiscountPercent <= 0 {
		return p.Price
	}
	return p.Price * (100 - p.DiscountPercent) / 100
}
