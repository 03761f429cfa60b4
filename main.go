package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/princinho/storefront-backend/config"
	"github.com/princinho/storefront-backend/controllers"
	"github.com/princinho/storefront-backend/database"
	"github.com/princinho/storefront-backend/logger"
	"github.com/princinho/storefront-backend/middleware"
	"github.com/princinho/storefront-backend/utils"
	"github.com/princinho/storefront-backend/worker"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := database.Connect(ctx, cfg.MongoURI, cfg.DatabaseName); err != nil {
		cancel()
		zlog.Fatal("mongodb connect", zap.Error(err))
	}
	if err := database.EnsureIndexes(ctx); err != nil {
		cancel()
		zlog.Fatal("ensure indexes", zap.Error(err))
	}

	created, err := utils.SeedAdminUser(ctx, database.OpenCollection("users"), cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		cancel()
		zlog.Fatal("seed admin user", zap.Error(err))
	}
	cancel()
	if created {
		zlog.Info("admin user seeded", zap.String("email", cfg.AdminEmail))
	}

	bg := worker.New(zlog.Named("worker"), 256)
	bg.Start(2)

	app := &controllers.App{
		Cfg:    cfg,
		Log:    zlog,
		Worker: bg,
		Mailer: utils.NewMailer(cfg.SMTP),
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	allowedOrigins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(logger.RequestLogger(zlog))
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register(app))
		auth.POST("/login", controllers.Login(app))
		auth.POST("/refresh", controllers.Refresh(app))
		auth.POST("/logout", controllers.Logout(app))
		auth.GET("/google", controllers.GoogleLogin(app))
		auth.GET("/google/callback", controllers.GoogleCallback(app))
		auth.POST("/forgot-password", controllers.ForgotPassword(app))
		auth.POST("/reset-password", controllers.ResetPassword(app))
	}

	api.GET("/product", controllers.GetProducts(app))
	api.GET("/product/categories", controllers.GetCategories(app))
	api.GET("/product/:id", controllers.GetProduct(app))
	api.GET("/product/:id/reviews", controllers.ListProductReviews(app))

	shippingGroup := api.Group("/shipping")
	{
		shippingGroup.GET("/options", controllers.ListShippingOptions(app))
		shippingGroup.POST("/quote", controllers.QuoteShipping(app))
	}

	user := api.Group("/user")
	user.Use(middleware.AuthMiddleware(cfg))
	{
		user.GET("/profile", controllers.GetProfile(app))
		user.PATCH("/profile", controllers.UpdateProfile(app))
		user.POST("/password", controllers.ChangeMyPassword(app))
		user.GET("/cart", controllers.GetCart(app))
		user.PATCH("/cart", controllers.UpdateCartItem(app))
		user.DELETE("/cart", controllers.ClearCart(app))
		user.POST("/addresses", controllers.AddAddress(app))
		user.PATCH("/addresses/:id", controllers.UpdateAddress(app))
		user.DELETE("/addresses/:id", controllers.DeleteAddress(app))
	}

	order := api.Group("/order")
	order.Use(middleware.AuthMiddleware(cfg))
	{
		order.POST("", controllers.CreateOrder(app))
		order.GET("", controllers.ListMyOrders(app))
		order.GET("/:id", controllers.GetOrder(app))
	}

	api.POST("/reviews", middleware.AuthMiddleware(cfg), controllers.CreateReview(app))

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	{
		admin.POST("/products/add", controllers.AddProduct(app))
		admin.PATCH("/products/update/:id", controllers.UpdateProduct(app))
		admin.DELETE("/products/:id", controllers.DeleteProduct(app))

		admin.GET("/orders", controllers.ListAllOrders(app))
		admin.PATCH("/orders/:id/status", controllers.UpdateOrderStatus(app))
		admin.PATCH("/orders/:id/payment", controllers.UpdatePaymentStatus(app))
		admin.POST("/orders/:id/verify-transfer", controllers.VerifyBankTransfer(app))
		admin.POST("/orders/:id/deliveries", controllers.CreateDelivery(app))

		admin.GET("/users", controllers.ListUsers(app))
		admin.PATCH("/users/:id/active", controllers.SetUserActive(app))

		admin.GET("/reviews", controllers.ListReviews(app))
		admin.PATCH("/reviews/:id/approval", controllers.SetReviewApproval(app))

		admin.GET("/notifications", controllers.ListNotifications(app))
		admin.GET("/notifications/unread-count", controllers.UnreadNotificationCount(app))
		admin.PATCH("/notifications/read-all", controllers.MarkAllNotificationsRead(app))
		admin.PATCH("/notifications/:id/read", controllers.MarkNotificationRead(app))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown", zap.Error(err))
	}
	if err := bg.Stop(shutdownCtx); err != nil {
		zlog.Error("worker shutdown", zap.Error(err))
	}
	if err := database.Disconnect(shutdownCtx); err != nil {
		zlog.Error("mongodb disconnect", zap.Error(err))
	}
}
