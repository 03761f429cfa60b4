package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront-backend/database"
	"github.com/princinho/storefront-backend/dto"
	"github.com/princinho/storefront-backend/models"
	"github.com/princinho/storefront-backend/shipping"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// GET /shipping/options lists every provider/service pair with its base rates.
func ListShippingOptions(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "options": shipping.Options()})
	}
}

// quoteItems resolves the requested products and builds the cart the fee
// aggregator works on. Unknown products are reported, not skipped.
func quoteItems(c *gin.Context, items []dto.OrderItemDTO) ([]shipping.CartItem, bool) {
	ids := make([]bson.ObjectID, 0, len(items))
	for _, item := range items {
		id, err := bson.ObjectIDFromHex(item.ProductID)
		if err != nil {
			fail(c, http.StatusBadRequest, "item without a valid product id")
			return nil, false
		}
		ids = append(ids, id)
	}

	ctx := c.Request.Context()
	productsCol := database.OpenCollection("products")
	cursor, err := productsCol.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	fetched := make([]models.Product, 0, len(ids))
	if err := cursor.All(ctx, &fetched); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	byID := make(map[string]models.Product, len(fetched))
	for _, p := range fetched {
		byID[p.Id.Hex()] = p
	}

	cart := make([]shipping.CartItem, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			fail(c, http.StatusBadRequest, "unknown product "+item.ProductID)
			return nil, false
		}
		cart = append(cart, shipping.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Shipping:  product.Shipping,
		})
	}
	return cart, true
}

// POST /shipping/quote prices a cart for one provider/service, or finds the
// cheapest combination when none is named.
func QuoteShipping(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.QuoteCartDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		cart, ok := quoteItems(c, body.Items)
		if !ok {
			return
		}

		var (
			quote shipping.Quote
			err   error
		)
		if body.Provider == "" && body.Service == "" {
			quote, err = shipping.CheapestOption(cart)
		} else {
			quote, err = shipping.QuoteCart(cart, body.Provider, body.Service)
		}
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "quote": quote})
	}
}
