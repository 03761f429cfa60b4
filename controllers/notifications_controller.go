package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront-backend/database"
	"github.com/princinho/storefront-backend/models"
	"github.com/princinho/storefront-backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// createOrderNotification writes an ORDER_CREATED entry addressed to every
// active admin. Runs on the background worker after order placement.
func createOrderNotification(ctx context.Context, order models.Order) error {
	usersCol := database.OpenCollection("users")
	cursor, err := usersCol.Find(ctx, bson.M{"role": models.RoleAdmin, "isActive": true})
	if err != nil {
		return err
	}
	var admins []models.User
	if err := cursor.All(ctx, &admins); err != nil {
		return err
	}

	recipients := make([]models.NotificationRecipient, 0, len(admins))
	for _, admin := range admins {
		recipients = append(recipients, models.NotificationRecipient{UserID: admin.ID})
	}

	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}

	notifCol := database.OpenCollection("notifications")
	_, err = notifCol.InsertOne(ctx, models.Notification{
		ID:      bson.NewObjectID(),
		Type:    models.NotificationTypeOrderCreated,
		Title:   "New order placed",
		Message: fmt.Sprintf("Order %s: %d item(s), %.0f total", order.ID.Hex(), itemCount, order.Amount),
		Data: bson.M{
			"orderId":       order.ID,
			"userId":        order.UserID,
			"amount":        order.Amount,
			"paymentMethod": order.PaymentMethod,
		},
		Recipients: recipients,
		Priority:   models.NotificationPriorityNormal,
		CreatedAt:  time.Now().UTC(),
	})
	return err
}

// GET /admin/notifications
func ListNotifications(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "unauthenticated")
			return
		}

		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), 20)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 20
		}
		if limit > 100 {
			limit = 100
		}

		filter := bson.M{"$or": []bson.M{
			{"global": true},
			{"recipients.userId": userID},
		}}
		if unread, err := utils.ParseBoolQuery(c.Query("unread")); err == nil && unread != nil && *unread {
			filter = bson.M{"recipients": bson.M{"$elemMatch": bson.M{
				"userId": userID,
				"read":   false,
			}}}
		}

		ctx := c.Request.Context()
		notifCol := database.OpenCollection("notifications")

		opts := options.Find().
			SetSkip(int64((page - 1) * limit)).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := notifCol.Find(ctx, filter, opts)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.Notification, 0)
		if err := cursor.All(ctx, &items); err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		total, err := notifCol.CountDocuments(ctx, filter)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"items":   items,
			"page":    page,
			"limit":   limit,
			"total":   total,
		})
	}
}

// GET /admin/notifications/unread-count
func UnreadNotificationCount(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "unauthenticated")
			return
		}

		notifCol := database.OpenCollection("notifications")
		count, err := notifCol.CountDocuments(c.Request.Context(), bson.M{
			"recipients": bson.M{"$elemMatch": bson.M{
				"userId": userID,
				"read":   false,
			}},
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
	}
}

// PATCH /admin/notifications/:id/read
func MarkNotificationRead(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "unauthenticated")
			return
		}

		notifID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid notification id")
			return
		}

		now := time.Now().UTC()
		notifCol := database.OpenCollection("notifications")
		res, err := notifCol.UpdateOne(c.Request.Context(),
			bson.M{"_id": notifID, "recipients.userId": userID},
			bson.M{"$set": bson.M{
				"recipients.$.read":   true,
				"recipients.$.readAt": now,
			}},
		)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.MatchedCount == 0 {
			fail(c, http.StatusNotFound, "notification not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// PATCH /admin/notifications/read-all
func MarkAllNotificationsRead(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "unauthenticated")
			return
		}

		now := time.Now().UTC()
		notifCol := database.OpenCollection("notifications")
		res, err := notifCol.UpdateMany(c.Request.Context(),
			bson.M{"recipients": bson.M{"$elemMatch": bson.M{
				"userId": userID,
				"read":   false,
			}}},
			bson.M{"$set": bson.M{
				"recipients.$[r].read":   true,
				"recipients.$[r].readAt": now,
			}},
			options.UpdateMany().SetArrayFilters([]interface{}{
				bson.M{"r.userId": userID, "r.read": false},
			}),
		)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "updated": res.ModifiedCount})
	}
}
