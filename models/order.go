package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "pending"
	OrderStatusConfirmed        OrderStatus = "confirmed"
	OrderStatusShipped          OrderStatus = "shipped"
	OrderStatusPartiallyShipped OrderStatus = "partially-shipped"
	OrderStatusDelivered        OrderStatus = "delivered"
	OrderStatusCancelled        OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusPartiallyShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "cod"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodQRCode       PaymentMethod = "qr_code"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodBankTransfer, PaymentMethodQRCode:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

type OrderItem struct {
	ItemID      bson.ObjectID `bson:"itemId" json:"itemId"`
	ProductID   bson.ObjectID `bson:"productId" json:"productId"`
	Name        string        `bson:"name" json:"name"`
	Price       float64       `bson:"price" json:"price"`
	Quantity    int           `bson:"quantity" json:"quantity"`
	Image       string        `bson:"image,omitempty" json:"image,omitempty"`
	ShippingFee int64         `bson:"shippingFee,omitempty" json:"shippingFee,omitempty"`
	Delivered   bool          `bson:"delivered" json:"delivered"`
}

type ShippingMethod struct {
	Provider          string `bson:"provider" json:"provider"`
	Service           string `bson:"service" json:"service"`
	Fee               int64  `bson:"fee" json:"fee"`
	EstimatedDelivery string `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`
}

// OrderAddress is the canonical shipping address. Request payloads with
// alternative field spellings are normalized into this shape before an
// order is created.
type OrderAddress struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Zipcode   string `bson:"zipcode" json:"zipcode"`
	Country   string `bson:"country" json:"country"`
	Phone     string `bson:"phone" json:"phone"`
}

// BankTransfer tracks the manual verification step for bank_transfer and
// qr_code orders.
type BankTransfer struct {
	TransactionCode string     `bson:"transactionCode" json:"transactionCode"`
	Verified        bool       `bson:"verified" json:"verified"`
	VerifiedAt      *time.Time `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
}

// Delivery is a partial shipment covering a subset of the order's items.
type Delivery struct {
	ID           bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	ItemIDs      []bson.ObjectID `bson:"itemIds" json:"itemIds"`
	TrackingCode string          `bson:"trackingCode,omitempty" json:"trackingCode,omitempty"`
	CreatedAt    time.Time       `bson:"createdAt" json:"createdAt"`
}

type Order struct {
	ID            bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        bson.ObjectID  `bson:"userId" json:"userId"`
	Items         []OrderItem    `bson:"items" json:"items"`
	Amount        float64        `bson:"amount" json:"amount"`
	Shipping      ShippingMethod `bson:"shippingMethod" json:"shippingMethod"`
	Address       OrderAddress   `bson:"address" json:"address"`
	Status        OrderStatus    `bson:"status" json:"status"`
	PaymentMethod PaymentMethod  `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus PaymentStatus  `bson:"paymentStatus" json:"paymentStatus"`
	BankTransfer  *BankTransfer  `bson:"bankTransfer,omitempty" json:"bankTransfer,omitempty"`
	Deliveries    []Delivery     `bson:"deliveries,omitempty" json:"deliveries,omitempty"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// DeliveredStatus recomputes the order status from its items: delivered when
// every item has shipped in some delivery, partially-shipped otherwise.
func (o Order) DeliveredStatus() OrderStatus {
	for _, item := range o.Items {
		if !item.Delivered {
			return OrderStatusPartiallyShipped
		}
	}
	return OrderStatusDelivered
}
