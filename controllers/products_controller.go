package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/princinho/storefront-backend/database"
	"github.com/princinho/storefront-backend/dto"
	"github.com/princinho/storefront-backend/models"
	"github.com/princinho/storefront-backend/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func GetProducts(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

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
		skip := int64((page - 1) * limit)

		sortParam := strings.TrimSpace(c.Query("sort"))
		sortDoc := bson.D{{Key: "createdAt", Value: -1}}
		switch sortParam {
		case "price_asc":
			sortDoc = bson.D{{Key: "price", Value: 1}}
		case "price_desc":
			sortDoc = bson.D{{Key: "price", Value: -1}}
		case "best_selling":
			sortDoc = bson.D{{Key: "soldQuantity", Value: -1}}
		case "name":
			sortDoc = bson.D{{Key: "name", Value: 1}}
		}

		filter := bson.M{}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = category
		}
		if brand := strings.TrimSpace(c.Query("brand")); brand != "" {
			filter["brand"] = brand
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["name"] = bson.M{"$regex": q, "$options": "i"}
		}
		// Storefront sees available products only unless asked otherwise.
		filter["isAvailable"] = true
		if b, err := utils.ParseBoolQuery(c.Query("isAvailable")); err == nil && b != nil {
			filter["isAvailable"] = *b
		}

		productsCol := database.OpenCollection("products")

		findOpts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(sortDoc)

		cursor, err := productsCol.Find(ctx, filter, findOpts)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		total, err := productsCol.CountDocuments(ctx, filter)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"items":   products,
			"page":    page,
			"limit":   limit,
			"total":   total,
			"sort":    sortParam,
		})
	}
}

func GetProduct(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		productsCol := database.OpenCollection("products")

		idOrSlug := strings.TrimSpace(c.Param("id"))
		if idOrSlug == "" {
			fail(c, http.StatusBadRequest, "no id or slug provided")
			return
		}

		filter := bson.M{"slug": idOrSlug}
		if id, err := bson.ObjectIDFromHex(idOrSlug); err == nil {
			filter = bson.M{"_id": id}
		}

		var product models.Product
		if err := productsCol.FindOne(ctx, filter).Decode(&product); err != nil {
			fail(c, http.StatusNotFound, "product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}

// GetCategories lists the distinct category names in the catalog.
func GetCategories(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		productsCol := database.OpenCollection("products")

		var categories []string
		if err := productsCol.Distinct(ctx, "category", bson.M{}).Decode(&categories); err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
	}
}

func productFromCreateDTO(body dto.CreateProductDTO, slug string, imageUrls []string) models.Product {
	class := models.ShippingClass(body.ShippingClass)
	if !class.Valid() {
		class = models.ShippingClassStandard
	}
	now := time.Now().UTC()
	return models.Product{
		Name:            strings.TrimSpace(body.Name),
		Slug:            slug,
		Images:          imageUrls,
		Price:           body.Price,
		DiscountPercent: body.DiscountPercent,
		Stock:           body.Stock,
		Category:        strings.TrimSpace(body.Category),
		Brand:           strings.TrimSpace(body.Brand),
		Description:     body.Description,
		IsAvailable:     body.Stock > 0,
		Shipping: models.ProductShipping{
			Weight:       body.Weight,
			Length:       body.Length,
			Width:        body.Width,
			Height:       body.Height,
			FreeShipping: body.FreeShipping,
			Class:        class,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func AddProduct(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		collection := database.OpenCollection("products")

		jsonData := c.PostForm("data")
		if jsonData == "" {
			fail(c, http.StatusBadRequest, "missing data")
			return
		}

		var body dto.CreateProductDTO
		if err := json.Unmarshal([]byte(jsonData), &body); err != nil {
			fail(c, http.StatusBadRequest, "invalid data json")
			return
		}
		slug := utils.GenerateSlug(body.Name)

		form, err := c.MultipartForm()
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid multipart form")
			return
		}
		files := form.File["images"]

		validator := utils.NewImageValidator(5)
		for _, fh := range files {
			if _, err := validator.ValidateFile(fh); err != nil {
				fail(c, http.StatusBadRequest, err.Error())
				return
			}
		}

		gcs, err := utils.NewGCSClient(c.Request.Context(), app.Cfg.CredentialsFile)
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to create storage client")
			return
		}
		defer gcs.Close()

		imageUrls, err := utils.UploadImagesToGCS(
			c.Request.Context(), gcs, app.Cfg.GCSBucket,
			"products/"+slug, files, app.Cfg.MaxProdImages)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		product := productFromCreateDTO(body, slug, imageUrls)

		res, err := collection.InsertOne(c.Request.Context(), product)
		if err != nil {
			if utils.IsDuplicateKey(err) {
				c.JSON(http.StatusConflict, gin.H{"success": false, "message": "slug already exists", "field": "slug"})
				return
			}
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		product.Id = res.InsertedID.(bson.ObjectID)

		c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
	}
}

func UpdateProduct(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		prodID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid product id")
			return
		}
		collection := database.OpenCollection("products")

		dataStr := c.PostForm("data")
		if dataStr == "" {
			fail(c, http.StatusBadRequest, "missing data")
			return
		}

		var body dto.UpdateProductDTO
		if err := json.Unmarshal([]byte(dataStr), &body); err != nil {
			fail(c, http.StatusBadRequest, "invalid data json")
			return
		}

		ctx := c.Request.Context()

		// Load product first, the image merge needs the current urls.
		var product models.Product
		if err := collection.FindOne(ctx, bson.M{"_id": prodID}).Decode(&product); err != nil {
			fail(c, http.StatusNotFound, "product not found")
			return
		}

		imagesToDelete := utils.IntersectStrings(body.RemovedImageUrls, product.Images)

		var newFiles []*multipart.FileHeader
		if form, err := c.MultipartForm(); err == nil && form != nil {
			newFiles = form.File["images"]
		}

		totalImageCount := len(product.Images) - len(imagesToDelete) + len(newFiles)
		if totalImageCount > app.Cfg.MaxProdImages {
			fail(c, http.StatusBadRequest, "too many images")
			return
		}

		var gcs *storage.Client
		var newImageUrls []string
		var newObjectNames []string // for cleanup if the db update fails
		if len(newFiles) > 0 || len(imagesToDelete) > 0 {
			client, err := utils.NewGCSClient(ctx, app.Cfg.CredentialsFile)
			if err != nil {
				fail(c, http.StatusInternalServerError, "failed to create storage client")
				return
			}
			defer client.Close()
			gcs = client
		}

		if len(newFiles) > 0 {
			urls, err := utils.UploadImagesToGCS(ctx, gcs, app.Cfg.GCSBucket,
				"products/"+product.Slug, newFiles, app.Cfg.MaxProdImages)
			if err != nil {
				fail(c, http.StatusBadRequest, err.Error())
				return
			}
			newImageUrls = urls
			for _, u := range urls {
				if objName, err := utils.ObjectNameFromGCSPublicURL(app.Cfg.GCSBucket, u); err == nil {
					newObjectNames = append(newObjectNames, objName)
				}
			}
		}

		set := bson.M{}
		if body.Name != nil {
			set["name"] = *body.Name
		}
		if body.Price != nil {
			set["price"] = *body.Price
		}
		if body.DiscountPercent != nil {
			set["discountPercent"] = *body.DiscountPercent
		}
		if body.Stock != nil {
			if *body.Stock < 0 {
				fail(c, http.StatusBadRequest, "stock cannot be negative")
				return
			}
			set["stock"] = *body.Stock
			set["isAvailable"] = *body.Stock > 0
		}
		if body.Category != nil {
			set["category"] = *body.Category
		}
		if body.Brand != nil {
			set["brand"] = *body.Brand
		}
		if body.Description != nil {
			set["description"] = *body.Description
		}
		if body.Weight != nil {
			set["shipping.weight"] = *body.Weight
		}
		if body.Length != nil {
			set["shipping.length"] = *body.Length
		}
		if body.Width != nil {
			set["shipping.width"] = *body.Width
		}
		if body.Height != nil {
			set["shipping.height"] = *body.Height
		}
		if body.FreeShipping != nil {
			set["shipping.freeShipping"] = *body.FreeShipping
		}
		if body.ShippingClass != nil {
			class := models.ShippingClass(*body.ShippingClass)
			if !class.Valid() {
				fail(c, http.StatusBadRequest, "invalid shipping class")
				return
			}
			set["shipping.shippingClass"] = class
		}

		if len(imagesToDelete) > 0 || len(newImageUrls) > 0 {
			set["images"] = utils.MergeImageUrls(product.Images, imagesToDelete, newImageUrls)
		}

		if len(set) == 0 {
			fail(c, http.StatusBadRequest, "no updates provided")
			return
		}
		set["updatedAt"] = time.Now().UTC()

		_, err = collection.UpdateByID(ctx, prodID, bson.M{"$set": set})
		if err != nil {
			// db update failed, drop the images we just uploaded
			if len(newObjectNames) > 0 {
				_ = utils.DeleteGCSObjects(ctx, gcs, app.Cfg.GCSBucket, newObjectNames)
			}
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		// db update went fine, remove the replaced images from storage
		if len(imagesToDelete) > 0 {
			objectNames := make([]string, 0, len(imagesToDelete))
			for _, u := range imagesToDelete {
				if obj, err := utils.ObjectNameFromGCSPublicURL(app.Cfg.GCSBucket, u); err == nil {
					objectNames = append(objectNames, obj)
				}
			}
			_ = utils.DeleteGCSObjects(ctx, gcs, app.Cfg.GCSBucket, objectNames)
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// DeleteProduct disables a product rather than removing the document, so
// existing orders keep a valid reference.
func DeleteProduct(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		prodID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid product id")
			return
		}

		collection := database.OpenCollection("products")
		res, err := collection.UpdateByID(c.Request.Context(), prodID, bson.M{
			"$set": bson.M{"isAvailable": false, "stock": 0, "updatedAt": time.Now().UTC()},
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.MatchedCount == 0 {
			fail(c, http.StatusNotFound, "product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
