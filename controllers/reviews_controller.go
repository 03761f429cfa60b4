package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront-backend/database"
	"github.com/princinho/storefront-backend/dto"
	"github.com/princinho/storefront-backend/models"
	"github.com/princinho/storefront-backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const maxReviewImages = 5

// POST /reviews — multipart: "data" carries the JSON payload, "images" up
// to five files. A user gets one review per product per order; the unique
// compound index backs that up.
func CreateReview(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "unauthenticated")
			return
		}

		raw := c.PostForm("data")
		if raw == "" {
			fail(c, http.StatusBadRequest, "missing review data")
			return
		}
		var body dto.CreateReviewDTO
		if err := json.Unmarshal([]byte(raw), &body); err != nil {
			fail(c, http.StatusBadRequest, "malformed review data")
			return
		}
		if body.Rating < 1 || body.Rating > 5 {
			fail(c, http.StatusBadRequest, "rating must be between 1 and 5")
			return
		}

		productID, err := bson.ObjectIDFromHex(body.ProductID)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid product id")
			return
		}
		orderID, err := bson.ObjectIDFromHex(body.OrderID)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid order id")
			return
		}

		ctx := c.Request.Context()

		// The order must belong to the reviewer and contain the product.
		var order models.Order
		ordersCol := database.OpenCollection("orders")
		if err := ordersCol.FindOne(ctx, bson.M{"_id": orderID, "userId": userID}).Decode(&order); err != nil {
			fail(c, http.StatusForbidden, "no matching order for this review")
			return
		}
		found := false
		for _, item := range order.Items {
			if item.ProductID == productID {
				found = true
				break
			}
		}
		if !found {
			fail(c, http.StatusForbidden, "product is not part of this order")
			return
		}

		var imageUrls []string
		if form, err := c.MultipartForm(); err == nil {
			files := form.File["images"]
			if len(files) > maxReviewImages {
				fail(c, http.StatusBadRequest, "too many images")
				return
			}
			if len(files) > 0 {
				validator := utils.NewImageValidator(5)
				for _, fh := range files {
					if _, err := validator.ValidateFile(fh); err != nil {
						fail(c, http.StatusBadRequest, err.Error())
						return
					}
				}
				gcs, err := utils.NewGCSClient(ctx, app.Cfg.CredentialsFile)
				if err != nil {
					fail(c, http.StatusInternalServerError, "failed to create storage client")
					return
				}
				defer gcs.Close()
				imageUrls, err = utils.UploadImagesToGCS(ctx, gcs, app.Cfg.GCSBucket,
					"reviews/"+productID.Hex(), files, maxReviewImages)
				if err != nil {
					fail(c, http.StatusBadRequest, err.Error())
					return
				}
			}
		}

		now := time.Now().UTC()
		review := models.Review{
			ID:        bson.NewObjectID(),
			ProductID: productID,
			UserID:    userID,
			OrderID:   orderID,
			Rating:    body.Rating,
			Comment:   body.Comment,
			Images:    imageUrls,
			CreatedAt: now,
			UpdatedAt: now,
		}

		reviewsCol := database.OpenCollection("reviews")
		if _, err := reviewsCol.InsertOne(ctx, review); err != nil {
			if utils.IsDuplicateKey(err) {
				fail(c, http.StatusConflict, "you already reviewed this product for this order")
				return
			}
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
	}
}

// GET /product/:id/reviews returns approved reviews only.
func ListProductReviews(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid product id")
			return
		}

		ctx := c.Request.Context()
		reviewsCol := database.OpenCollection("reviews")

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := reviewsCol.Find(ctx, bson.M{"productId": productID, "approved": true}, opts)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer cursor.Close(ctx)

		reviews := make([]models.Review, 0)
		if err := cursor.All(ctx, &reviews); err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		var average float64
		if len(reviews) > 0 {
			average = float64(sum) / float64(len(reviews))
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"items":         reviews,
			"count":         len(reviews),
			"averageRating": average,
		})
	}
}

// GET /admin/reviews
func ListReviews(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		filter := bson.M{}
		if approved, err := utils.ParseBoolQuery(c.Query("approved")); err == nil && approved != nil {
			filter["approved"] = *approved
		}

		ctx := c.Request.Context()
		reviewsCol := database.OpenCollection("reviews")

		opts := options.Find().
			SetSkip(int64((page - 1) * limit)).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := reviewsCol.Find(ctx, filter, opts)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer cursor.Close(ctx)

		reviews := make([]models.Review, 0)
		if err := cursor.All(ctx, &reviews); err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		total, err := reviewsCol.CountDocuments(ctx, filter)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"items":   reviews,
			"page":    page,
			"limit":   limit,
			"total":   total,
		})
	}
}

// PATCH /admin/reviews/:id/approval
func SetReviewApproval(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid review id")
			return
		}

		var body dto.SetReviewApprovalDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		reviewsCol := database.OpenCollection("reviews")
		res, err := reviewsCol.UpdateByID(c.Request.Context(), reviewID, bson.M{
			"$set": bson.M{"approved": body.Approved, "updatedAt": time.Now().UTC()},
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.MatchedCount == 0 {
			fail(c, http.StatusNotFound, "review not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
