package controllers

import (
	"testing"

	"github.com/princinho/storefront-backend/dto"
	"github.com/princinho/storefront-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func productWithStock(stock int) models.Product {
	return models.Product{Id: bson.NewObjectID(), Stock: stock, IsAvailable: stock > 0}
}

func TestCheckStockAllValid(t *testing.T) {
	a := productWithStock(10)
	b := productWithStock(3)
	products := map[string]models.Product{a.Id.Hex(): a, b.Id.Hex(): b}

	errs := checkStock([]dto.OrderItemDTO{
		{ProductID: a.Id.Hex(), Quantity: 10},
		{ProductID: b.Id.Hex(), Quantity: 1},
	}, products)

	assert.Empty(t, errs)
}

func TestCheckStockReportsEveryViolation(t *testing.T) {
	a := productWithStock(2)
	b := productWithStock(0)
	products := map[string]models.Product{a.Id.Hex(): a, b.Id.Hex(): b}

	missing := bson.NewObjectID().Hex()
	errs := checkStock([]dto.OrderItemDTO{
		{ProductID: a.Id.Hex(), Quantity: 5},
		{ProductID: b.Id.Hex(), Quantity: 1},
		{ProductID: missing, Quantity: 1},
		{ProductID: a.Id.Hex(), Quantity: 0},
	}, products)

	require.Len(t, errs, 4)
	assert.Equal(t, "insufficient stock", errs[0].Reason)
	assert.Equal(t, 5, errs[0].Requested)
	assert.Equal(t, 2, errs[0].Available)
	assert.Equal(t, "insufficient stock", errs[1].Reason)
	assert.Equal(t, "product not found", errs[2].Reason)
	assert.Equal(t, missing, errs[2].ProductID)
	assert.Equal(t, "quantity must be positive", errs[3].Reason)
}

func TestCheckStockExactStockAllowed(t *testing.T) {
	p := productWithStock(4)
	products := map[string]models.Product{p.Id.Hex(): p}

	errs := checkStock([]dto.OrderItemDTO{{ProductID: p.Id.Hex(), Quantity: 4}}, products)
	assert.Empty(t, errs)
}

func twoItemOrder() models.Order {
	return models.Order{
		Items: []models.OrderItem{
			{ItemID: bson.NewObjectID(), Quantity: 1},
			{ItemID: bson.NewObjectID(), Quantity: 2},
		},
		Status: models.OrderStatusConfirmed,
	}
}

func TestApplyDeliveryPartial(t *testing.T) {
	order := twoItemOrder()

	items, status, err := applyDelivery(order, []bson.ObjectID{order.Items[0].ItemID})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPartiallyShipped, status)
	assert.True(t, items[0].Delivered)
	assert.False(t, items[1].Delivered)
	// input order untouched
	assert.False(t, order.Items[0].Delivered)
}

func TestApplyDeliveryCompletes(t *testing.T) {
	order := twoItemOrder()

	items, status, err := applyDelivery(order, []bson.ObjectID{
		order.Items[0].ItemID,
		order.Items[1].ItemID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, status)
	for _, item := range items {
		assert.True(t, item.Delivered)
	}
}

func TestApplyDeliverySecondShipmentCompletes(t *testing.T) {
	order := twoItemOrder()
	order.Items[0].Delivered = true
	order.Status = models.OrderStatusPartiallyShipped

	_, status, err := applyDelivery(order, []bson.ObjectID{order.Items[1].ItemID})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, status)
}

func TestApplyDeliveryRejectsUnknownItem(t *testing.T) {
	order := twoItemOrder()

	items, _, err := applyDelivery(order, []bson.ObjectID{bson.NewObjectID()})
	assert.Error(t, err)
	assert.Nil(t, items)
}

func TestApplyDeliveryRejectsAlreadyDelivered(t *testing.T) {
	order := twoItemOrder()
	order.Items[1].Delivered = true

	items, _, err := applyDelivery(order, []bson.ObjectID{order.Items[1].ItemID})
	assert.Error(t, err)
	assert.Nil(t, items)
	assert.Contains(t, err.Error(), "already delivered")
}

func TestApplyDeliveryMixedBatchRejectedWhole(t *testing.T) {
	order := twoItemOrder()

	items, _, err := applyDelivery(order, []bson.ObjectID{
		order.Items[0].ItemID,
		bson.NewObjectID(),
	})
	assert.Error(t, err)
	assert.Nil(t, items)
	assert.False(t, order.Items[0].Delivered)
}
