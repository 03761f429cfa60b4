package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront-backend/database"
	"github.com/princinho/storefront-backend/dto"
	"github.com/princinho/storefront-backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// GetCart returns the embedded cart map plus the hydrated product documents.
func GetCart(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")

		var user models.User
		if err := usersCol.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			fail(c, http.StatusNotFound, "user not found")
			return
		}

		productIDs := make([]bson.ObjectID, 0, len(user.Cart))
		for hex := range user.Cart {
			if id, err := bson.ObjectIDFromHex(hex); err == nil {
				productIDs = append(productIDs, id)
			}
		}

		products := make([]models.Product, 0)
		if len(productIDs) > 0 {
			productsCol := database.OpenCollection("products")
			cursor, err := productsCol.Find(ctx, bson.M{"_id": bson.M{"$in": productIDs}})
			if err != nil {
				fail(c, http.StatusInternalServerError, err.Error())
				return
			}
			defer cursor.Close(ctx)
			if err := cursor.All(ctx, &products); err != nil {
				fail(c, http.StatusInternalServerError, err.Error())
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"cart":     user.Cart,
			"products": products,
		})
	}
}

// UpdateCartItem sets the quantity for one product; quantity 0 removes the
// line. The product must exist and be available to be added.
func UpdateCartItem(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		var body dto.UpdateCartItemDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		prodID, err := bson.ObjectIDFromHex(body.ProductID)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid product id")
			return
		}

		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")

		var update bson.M
		if body.Quantity == 0 {
			update = bson.M{
				"$unset": bson.M{"cart." + prodID.Hex(): ""},
				"$set":   bson.M{"updatedAt": time.Now().UTC()},
			}
		} else {
			productsCol := database.OpenCollection("products")
			var product models.Product
			if err := productsCol.FindOne(ctx, bson.M{"_id": prodID}).Decode(&product); err != nil {
				fail(c, http.StatusNotFound, "product not found")
				return
			}
			if !product.IsAvailable {
				fail(c, http.StatusBadRequest, "product is not available")
				return
			}
			update = bson.M{
				"$set": bson.M{
					"cart." + prodID.Hex(): body.Quantity,
					"updatedAt":            time.Now().UTC(),
				},
			}
		}

		res, err := usersCol.UpdateByID(ctx, userID, update)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.MatchedCount == 0 {
			fail(c, http.StatusNotFound, "user not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func ClearCart(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		usersCol := database.OpenCollection("users")
		_, err := usersCol.UpdateByID(c.Request.Context(), userID, bson.M{
			"$set": bson.M{"cart": bson.M{}, "updatedAt": time.Now().UTC()},
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
