package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront-backend/database"
	"github.com/princinho/storefront-backend/dto"
	"github.com/princinho/storefront-backend/models"
	"github.com/princinho/storefront-backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func GetProfile(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		var user models.User
		usersCol := database.OpenCollection("users")
		if err := usersCol.FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&user); err != nil {
			fail(c, http.StatusNotFound, "user not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

func UpdateProfile(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		var body dto.UpdateProfileDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		set := bson.M{}
		if body.Name != nil {
			v := strings.TrimSpace(*body.Name)
			if v == "" {
				fail(c, http.StatusBadRequest, "name cannot be empty")
				return
			}
			set["name"] = v
		}
		if body.Avatar != nil {
			set["avatar"] = *body.Avatar
		}
		if body.OrderEmails != nil {
			set["notificationPrefs.orderEmails"] = *body.OrderEmails
		}
		if body.PromoEmails != nil {
			set["notificationPrefs.promoEmails"] = *body.PromoEmails
		}

		if len(set) == 0 {
			fail(c, http.StatusBadRequest, "no updates provided")
			return
		}
		set["updatedAt"] = time.Now().UTC()

		usersCol := database.OpenCollection("users")
		res, err := usersCol.UpdateByID(c.Request.Context(), userID, bson.M{"$set": set})
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

func ChangeMyPassword(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ChangeMyPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		usersCol := database.OpenCollection("users")

		var user models.User
		if err := usersCol.FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&user); err != nil {
			fail(c, http.StatusUnauthorized, "invalid user")
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.CurrentPassword); err != nil {
			fail(c, http.StatusUnauthorized, "current password is incorrect")
			return
		}

		newHash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to hash password")
			return
		}

		now := time.Now().UTC()
		_, err = usersCol.UpdateByID(c.Request.Context(), userID, bson.M{
			"$set": bson.M{"passwordHash": newHash, "updatedAt": now},
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		_ = RevokeAllRefreshTokens(c, userID)
		utils.ClearRefreshCookie(c, app.Cfg.Env == "production", "")

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// AddAddress appends a saved address. Setting isDefault unsets every other
// default so at most one address carries the flag.
func AddAddress(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		var body dto.CreateAddressDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")

		addr := models.Address{
			ID:        bson.NewObjectID(),
			Label:     strings.TrimSpace(body.Label),
			Street:    strings.TrimSpace(body.Street),
			City:      strings.TrimSpace(body.City),
			State:     strings.TrimSpace(body.State),
			ZipCode:   strings.TrimSpace(body.ZipCode),
			Country:   strings.TrimSpace(body.Country),
			Phone:     strings.TrimSpace(body.Phone),
			IsDefault: body.IsDefault,
		}

		if addr.IsDefault {
			_, err := usersCol.UpdateByID(ctx, userID, bson.M{
				"$set": bson.M{"addresses.$[].isDefault": false},
			})
			if err != nil {
				fail(c, http.StatusInternalServerError, err.Error())
				return
			}
		}

		res, err := usersCol.UpdateByID(ctx, userID, bson.M{
			"$push": bson.M{"addresses": addr},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.MatchedCount == 0 {
			fail(c, http.StatusNotFound, "user not found")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "address": addr})
	}
}

func UpdateAddress(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		addrID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid address id")
			return
		}

		var body dto.UpdateAddressDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		set := bson.M{}
		if body.Label != nil {
			set["addresses.$.label"] = strings.TrimSpace(*body.Label)
		}
		if body.Street != nil {
			set["addresses.$.street"] = strings.TrimSpace(*body.Street)
		}
		if body.City != nil {
			set["addresses.$.city"] = strings.TrimSpace(*body.City)
		}
		if body.State != nil {
			set["addresses.$.state"] = strings.TrimSpace(*body.State)
		}
		if body.ZipCode != nil {
			set["addresses.$.zipCode"] = strings.TrimSpace(*body.ZipCode)
		}
		if body.Country != nil {
			set["addresses.$.country"] = strings.TrimSpace(*body.Country)
		}
		if body.Phone != nil {
			set["addresses.$.phone"] = strings.TrimSpace(*body.Phone)
		}
		if body.IsDefault != nil {
			set["addresses.$.isDefault"] = *body.IsDefault
		}

		if len(set) == 0 {
			fail(c, http.StatusBadRequest, "no updates provided")
			return
		}
		set["updatedAt"] = time.Now().UTC()

		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")

		// Unset other defaults first; the positional update below then marks
		// the target, keeping the single-default invariant.
		if body.IsDefault != nil && *body.IsDefault {
			_, err := usersCol.UpdateByID(ctx, userID, bson.M{
				"$set": bson.M{"addresses.$[].isDefault": false},
			})
			if err != nil {
				fail(c, http.StatusInternalServerError, err.Error())
				return
			}
		}

		res, err := usersCol.UpdateOne(ctx,
			bson.M{"_id": userID, "addresses._id": addrID},
			bson.M{"$set": set},
		)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.MatchedCount == 0 {
			fail(c, http.StatusNotFound, "address not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func DeleteAddress(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "missing auth context")
			return
		}

		addrID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid address id")
			return
		}

		usersCol := database.OpenCollection("users")
		res, err := usersCol.UpdateByID(c.Request.Context(), userID, bson.M{
			"$pull": bson.M{"addresses": bson.M{"_id": addrID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.ModifiedCount == 0 {
			fail(c, http.StatusNotFound, "address not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// GET /admin/users
func ListUsers(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")

		page := utils.ParseIntDefault(c.Query("page"), 1)
		limit := utils.ParseIntDefault(c.Query("limit"), 50)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 50
		}
		if limit > 200 {
			limit = 200
		}
		skip := int64((page - 1) * limit)

		filter := bson.M{}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["email"] = bson.M{"$regex": q, "$options": "i"}
		}

		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := usersCol.Find(ctx, filter, opts)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer cursor.Close(ctx)

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		total, err := usersCol.CountDocuments(ctx, filter)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"items":   users,
			"page":    page,
			"limit":   limit,
			"total":   total,
		})
	}
}

// PATCH /admin/users/:id/active
func SetUserActive(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid user id")
			return
		}

		var body struct {
			IsActive *bool `json:"isActive" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		usersCol := database.OpenCollection("users")
		res, err := usersCol.UpdateByID(c.Request.Context(), userID, bson.M{
			"$set": bson.M{"isActive": *body.IsActive, "updatedAt": time.Now().UTC()},
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.MatchedCount == 0 {
			fail(c, http.StatusNotFound, "user not found")
			return
		}

		if !*body.IsActive {
			_ = RevokeAllRefreshTokens(c, userID)
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
