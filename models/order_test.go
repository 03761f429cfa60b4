package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveredStatus(t *testing.T) {
	order := Order{Items: []OrderItem{
		{Delivered: true},
		{Delivered: false},
	}}
	assert.Equal(t, OrderStatusPartiallyShipped, order.DeliveredStatus())

	order.Items[1].Delivered = true
	assert.Equal(t, OrderStatusDelivered, order.DeliveredStatus())
}

func TestStatusEnums(t *testing.T) {
	assert.True(t, OrderStatusPartiallyShipped.Valid())
	assert.False(t, OrderStatus("shipped-partially").Valid())

	assert.True(t, PaymentMethodQRCode.Valid())
	assert.False(t, PaymentMethod("paypal").Valid())

	assert.True(t, PaymentStatusRefunded.Valid())
	assert.False(t, PaymentStatus("done").Valid())
}
