package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/princinho/storefront-backend/database"
	"github.com/princinho/storefront-backend/dto"
	"github.com/princinho/storefront-backend/models"
	"github.com/princinho/storefront-backend/shipping"
	"github.com/princinho/storefront-backend/utils"
	"github.com/princinho/storefront-backend/worker"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// StockError is one entry in the itemized stock-validation report.
type StockError struct {
	ProductID string `json:"productId"`
	Reason    string `json:"reason"`
	Requested int    `json:"requested,omitempty"`
	Available int    `json:"available,omitempty"`
}

// checkStock validates every requested line against the fetched products
// and returns the full list of violations. It never stops at the first
// error: the caller gets everything wrong with the request in one pass.
func checkStock(items []dto.OrderItemDTO, products map[string]models.Product) []StockError {
	var errs []StockError
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			errs = append(errs, StockError{ProductID: item.ProductID, Reason: "product not found"})
			continue
		}
		if item.Quantity <= 0 {
			errs = append(errs, StockError{ProductID: item.ProductID, Reason: "quantity must be positive", Requested: item.Quantity})
			continue
		}
		if item.Quantity > product.Stock {
			errs = append(errs, StockError{
				ProductID: item.ProductID,
				Reason:    "insufficient stock",
				Requested: item.Quantity,
				Available: product.Stock,
			})
		}
	}
	return errs
}

// applyDelivery marks the named items delivered and returns the updated
// items plus the recomputed order status. It rejects ids that are missing
// from the order or already delivered without changing anything.
func applyDelivery(order models.Order, itemIDs []bson.ObjectID) ([]models.OrderItem, models.OrderStatus, error) {
	byID := make(map[bson.ObjectID]int, len(order.Items))
	for i, item := range order.Items {
		byID[item.ItemID] = i
	}

	items := make([]models.OrderItem, len(order.Items))
	copy(items, order.Items)

	for _, id := range itemIDs {
		idx, ok := byID[id]
		if !ok {
			return nil, "", fmt.Errorf("item %s is not part of this order", id.Hex())
		}
		if items[idx].Delivered {
			return nil, "", fmt.Errorf("item %s is already delivered", id.Hex())
		}
		items[idx].Delivered = true
	}

	updated := order
	updated.Items = items
	return items, updated.DeliveredStatus(), nil
}

func newTransactionCode() string {
	return "BT-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}

func CreateOrder(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "unauthenticated")
			return
		}

		var body dto.CreateOrderDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		if len(body.Items) == 0 {
			fail(c, http.StatusBadRequest, "order has no items")
			return
		}
		if body.Amount <= 0 {
			fail(c, http.StatusBadRequest, "order amount must be positive")
			return
		}

		address, missing := body.Address.Normalize()
		if len(missing) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success":       false,
				"message":       "missing address fields: " + strings.Join(missing, ", "),
				"missingFields": missing,
			})
			return
		}

		paymentMethod := models.PaymentMethod(body.PaymentMethod)
		if !paymentMethod.Valid() {
			fail(c, http.StatusBadRequest, "invalid payment method")
			return
		}

		// Every item must carry an identifiable product reference.
		productIDs := make([]bson.ObjectID, 0, len(body.Items))
		for _, item := range body.Items {
			id, err := bson.ObjectIDFromHex(item.ProductID)
			if err != nil {
				fail(c, http.StatusBadRequest, "item without a valid product id")
				return
			}
			productIDs = append(productIDs, id)
		}

		ctx := c.Request.Context()
		productsCol := database.OpenCollection("products")

		cursor, err := productsCol.Find(ctx, bson.M{"_id": bson.M{"$in": productIDs}})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		fetched := make([]models.Product, 0, len(productIDs))
		if err := cursor.All(ctx, &fetched); err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		products := make(map[string]models.Product, len(fetched))
		for _, p := range fetched {
			products[p.Id.Hex()] = p
		}

		// Validate all, fail all, report all.
		if stockErrs := checkStock(body.Items, products); len(stockErrs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "stock validation failed",
				"errors":  stockErrs,
			})
			return
		}

		// Price the shipping for the chosen provider/service.
		cartItems := make([]shipping.CartItem, 0, len(body.Items))
		for _, item := range body.Items {
			cartItems = append(cartItems, shipping.CartItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Shipping:  products[item.ProductID].Shipping,
			})
		}
		quote, err := shipping.QuoteCart(cartItems, body.Shipping.Provider, body.Shipping.Service)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		feeByProduct := make(map[string]int64, len(quote.Breakdown))
		for _, entry := range quote.Breakdown {
			feeByProduct[entry.ProductID] = entry.Fee
		}

		now := time.Now().UTC()
		order := models.Order{
			ID:     bson.NewObjectID(),
			UserID: userID,
			Amount: body.Amount,
			Shipping: models.ShippingMethod{
				Provider:          quote.Provider,
				Service:           quote.Service,
				Fee:               quote.Total,
				EstimatedDelivery: quote.EstimatedDelivery,
			},
			Address:       address,
			Status:        models.OrderStatusPending,
			PaymentMethod: paymentMethod,
			PaymentStatus: models.PaymentStatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, item := range body.Items {
			product := products[item.ProductID]
			image := ""
			if len(product.Images) > 0 {
				image = product.Images[0]
			}
			order.Items = append(order.Items, models.OrderItem{
				ItemID:      bson.NewObjectID(),
				ProductID:   product.Id,
				Name:        product.Name,
				Price:       product.FinalPrice(),
				Quantity:    item.Quantity,
				Image:       image,
				ShippingFee: feeByProduct[item.ProductID],
			})
		}
		if paymentMethod != models.PaymentMethodCOD {
			order.BankTransfer = &models.BankTransfer{
				TransactionCode: newTransactionCode(),
				CreatedAt:       now,
			}
		}

		ordersCol := database.OpenCollection("orders")
		if _, err := ordersCol.InsertOne(ctx, order); err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		// Append the order reference to the user record.
		usersCol := database.OpenCollection("users")
		if _, err := usersCol.UpdateByID(ctx, userID, bson.M{
			"$push": bson.M{"orders": order.ID},
			"$set":  bson.M{"updatedAt": now},
		}); err != nil {
			app.Log.Error("append order to user", zap.String("order", order.ID.Hex()), zap.Error(err))
		}

		// Per-item stock mutation. Updates are independent and not wrapped in
		// a transaction; a failure leaves the persisted order as-is.
		for _, item := range order.Items {
			after := options.FindOneAndUpdate().SetReturnDocument(options.After)
			var updated models.Product
			err := productsCol.FindOneAndUpdate(ctx,
				bson.M{"_id": item.ProductID},
				bson.M{
					"$inc": bson.M{"stock": -item.Quantity, "soldQuantity": item.Quantity},
					"$set": bson.M{"updatedAt": now},
				},
				after,
			).Decode(&updated)
			if err != nil {
				app.Log.Error("stock decrement failed",
					zap.String("order", order.ID.Hex()),
					zap.String("product", item.ProductID.Hex()),
					zap.Error(err))
				continue
			}
			if updated.Stock <= 0 && updated.IsAvailable {
				if _, err := productsCol.UpdateByID(ctx, item.ProductID,
					bson.M{"$set": bson.M{"isAvailable": false}}); err != nil {
					app.Log.Error("availability update failed",
						zap.String("product", item.ProductID.Hex()), zap.Error(err))
				}
			}
		}

		// Fire-and-forget side effects: admin notification and confirmation
		// mail. Failures stay in the worker's log.
		submitOrderNotification(app, order)

		resp := gin.H{"success": true, "order": order}
		if paymentMethod == models.PaymentMethodQRCode || paymentMethod == models.PaymentMethodBankTransfer {
			resp["bankAccount"] = app.Cfg.BankAccount
			resp["transactionCode"] = order.BankTransfer.TransactionCode
		}
		c.JSON(http.StatusCreated, resp)
	}
}

func ListMyOrders(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "unauthenticated")
			return
		}

		ctx := c.Request.Context()
		ordersCol := database.OpenCollection("orders")

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := ordersCol.Find(ctx, bson.M{"userId": userID}, opts)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "items": orders})
	}
}

func GetOrder(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			fail(c, http.StatusUnauthorized, "unauthenticated")
			return
		}

		orderID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid order id")
			return
		}

		var order models.Order
		ordersCol := database.OpenCollection("orders")
		if err := ordersCol.FindOne(c.Request.Context(), bson.M{"_id": orderID}).Decode(&order); err != nil {
			fail(c, http.StatusNotFound, "order not found")
			return
		}

		role, _ := c.Get("role")
		if order.UserID != userID && role != string(models.RoleAdmin) {
			fail(c, http.StatusForbidden, "not your order")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

// GET /admin/orders
func ListAllOrders(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ordersCol := database.OpenCollection("orders")

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

		filter := bson.M{}
		if status := models.OrderStatus(c.Query("status")); status != "" {
			if !status.Valid() {
				fail(c, http.StatusBadRequest, "invalid status filter")
				return
			}
			filter["status"] = status
		}
		if pm := models.PaymentMethod(c.Query("paymentMethod")); pm != "" {
			if !pm.Valid() {
				fail(c, http.StatusBadRequest, "invalid payment method filter")
				return
			}
			filter["paymentMethod"] = pm
		}

		opts := options.Find().
			SetSkip(skip).
			SetLimit(int64(limit)).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := ordersCol.Find(ctx, filter, opts)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		total, err := ordersCol.CountDocuments(ctx, filter)
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"items":   orders,
			"page":    page,
			"limit":   limit,
			"total":   total,
		})
	}
}

// PATCH /admin/orders/:id/status
func UpdateOrderStatus(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid order id")
			return
		}

		var body dto.UpdateOrderStatusDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		status := models.OrderStatus(body.Status)
		if !status.Valid() {
			fail(c, http.StatusBadRequest, "invalid order status")
			return
		}

		ctx := c.Request.Context()
		ordersCol := database.OpenCollection("orders")

		var order models.Order
		if err := ordersCol.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			fail(c, http.StatusNotFound, "order not found")
			return
		}

		set := bson.M{"status": status, "updatedAt": time.Now().UTC()}
		// COD settles on delivery.
		if status == models.OrderStatusDelivered &&
			order.PaymentMethod == models.PaymentMethodCOD &&
			order.PaymentStatus == models.PaymentStatusPending {
			set["paymentStatus"] = models.PaymentStatusPaid
		}

		if _, err := ordersCol.UpdateByID(ctx, orderID, bson.M{"$set": set}); err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// PATCH /admin/orders/:id/payment
func UpdatePaymentStatus(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid order id")
			return
		}

		var body dto.UpdatePaymentStatusDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		status := models.PaymentStatus(body.Status)
		if !status.Valid() {
			fail(c, http.StatusBadRequest, "invalid payment status")
			return
		}

		ordersCol := database.OpenCollection("orders")
		res, err := ordersCol.UpdateByID(c.Request.Context(), orderID, bson.M{
			"$set": bson.M{"paymentStatus": status, "updatedAt": time.Now().UTC()},
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		if res.MatchedCount == 0 {
			fail(c, http.StatusNotFound, "order not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// POST /admin/orders/:id/verify-transfer flips a pending bank-transfer or
// QR order to paid after the admin matched the incoming transfer.
func VerifyBankTransfer(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid order id")
			return
		}

		ctx := c.Request.Context()
		ordersCol := database.OpenCollection("orders")

		var order models.Order
		if err := ordersCol.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			fail(c, http.StatusNotFound, "order not found")
			return
		}
		if order.BankTransfer == nil {
			fail(c, http.StatusBadRequest, "order has no bank transfer to verify")
			return
		}
		if order.BankTransfer.Verified {
			fail(c, http.StatusConflict, "transfer already verified")
			return
		}

		now := time.Now().UTC()
		_, err = ordersCol.UpdateByID(ctx, orderID, bson.M{"$set": bson.M{
			"bankTransfer.verified":   true,
			"bankTransfer.verifiedAt": now,
			"paymentStatus":           models.PaymentStatusPaid,
			"updatedAt":               now,
		}})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// POST /admin/orders/:id/deliveries splits out a partial shipment.
func CreateDelivery(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid order id")
			return
		}

		var body dto.CreateDeliveryDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		itemIDs, err := utils.StringsToObjectIDs(body.ItemIDs)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid item id")
			return
		}

		ctx := c.Request.Context()
		ordersCol := database.OpenCollection("orders")

		var order models.Order
		if err := ordersCol.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			fail(c, http.StatusNotFound, "order not found")
			return
		}

		items, status, err := applyDelivery(order, itemIDs)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		now := time.Now().UTC()
		delivery := models.Delivery{
			ID:           bson.NewObjectID(),
			ItemIDs:      itemIDs,
			TrackingCode: strings.TrimSpace(body.TrackingCode),
			CreatedAt:    now,
		}

		set := bson.M{
			"items":     items,
			"status":    status,
			"updatedAt": now,
		}
		// COD settles when the last delivery completes.
		if status == models.OrderStatusDelivered &&
			order.PaymentMethod == models.PaymentMethodCOD &&
			order.PaymentStatus == models.PaymentStatusPending {
			set["paymentStatus"] = models.PaymentStatusPaid
		}

		_, err = ordersCol.UpdateByID(ctx, orderID, bson.M{
			"$set":  set,
			"$push": bson.M{"deliveries": delivery},
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":  true,
			"delivery": delivery,
			"status":   status,
		})
	}
}

// submitOrderNotification queues the post-order side effects: a notification
// record addressed to every admin, and a confirmation email when the buyer
// opted into order mail.
func submitOrderNotification(app *App, order models.Order) {
	mailer := app.Mailer
	log := app.Log

	app.Worker.Submit(worker.Task{
		Name: "order-notification",
		Run: func(ctx context.Context) error {
			return createOrderNotification(ctx, order)
		},
	})

	app.Worker.Submit(worker.Task{
		Name: "order-confirmation-email",
		Run: func(ctx context.Context) error {
			usersCol := database.OpenCollection("users")
			var user models.User
			if err := usersCol.FindOne(ctx, bson.M{"_id": order.UserID}).Decode(&user); err != nil {
				return err
			}
			if !user.NotificationPrefs.OrderEmails {
				return nil
			}
			err := mailer.Send(order.Address.Email,
				"Order received",
				fmt.Sprintf("Thanks for your order. Reference: %s. Total: %.0f plus %d shipping.",
					order.ID.Hex(), order.Amount, order.Shipping.Fee))
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			notifCol := database.OpenCollection("notifications")
			_, updErr := notifCol.UpdateOne(ctx,
				bson.M{"type": models.NotificationTypeOrderCreated, "data.orderId": order.ID},
				bson.M{"$set": bson.M{"emailSent": true, "emailSentAt": now}},
			)
			if updErr != nil {
				log.Warn("mark notification email sent", zap.Error(updErr))
			}
			return nil
		},
	})
}
