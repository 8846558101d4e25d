package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"greenova/internal/config"
	"greenova/internal/database"
	"greenova/internal/handlers"
	"greenova/internal/middleware"
	"greenova/internal/storage"
	"greenova/internal/taxonomy"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureBusinessIndexes(db); err != nil {
		log.Printf("business index warning: %v", err)
	}
	if err := database.EnsureServiceIndexes(db); err != nil {
		log.Printf("service index warning: %v", err)
	}
	if err := database.EnsureListingIndexes(db); err != nil {
		log.Printf("listing index warning: %v", err)
	}
	if err := database.EnsureBookingIndexes(db); err != nil {
		log.Printf("booking index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	store, err := storage.NewImageStore(storage.Options{
		Endpoint:  config.AppEnv.MinioEndpoint,
		AccessKey: config.AppEnv.MinioAccessKey,
		SecretKey: config.AppEnv.MinioSecretKey,
		Bucket:    config.AppEnv.MinioBucket,
		UseSSL:    config.AppEnv.MinioUseSSL,
		PublicURL: config.AppEnv.MinioPublicURL,
	})
	if err != nil {
		log.Fatal(err)
	}

	registry := taxonomy.New(db)

	secret := config.AppEnv.JWTSecret
	ttl := config.AppEnv.AccessTokenTTL

	r := gin.Default()

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", handlers.Register(db, store, secret, ttl))
		auth.POST("/login", handlers.Login(db, secret, ttl))
		auth.POST("/logout", handlers.Logout())
		auth.GET("/me", middleware.UserAuth(secret), handlers.Me(db))
		auth.POST("/edit", middleware.UserAuth(secret), handlers.EditProfile(db, store))
		auth.PUT("/change-password", middleware.UserAuth(secret), handlers.ChangePassword(db))
	}

	business := r.Group("/api/business")
	{
		business.GET("", handlers.SearchBusinesses(db))
		business.GET("/nearBy", handlers.NearByBusinesses(db))
		business.POST("", middleware.ProviderAuth(secret), handlers.CreateBusiness(db, store, registry))
		business.GET("/profile", middleware.ProviderAuth(secret), handlers.BusinessProfile(db))
		business.PUT("", middleware.ProviderAuth(secret), handlers.UpdateBusiness(db, registry))
		business.DELETE("", middleware.ProviderAuth(secret), handlers.DeleteBusiness(db))
	}

	service := r.Group("/api/service")
	{
		service.GET("", handlers.SearchServices(db))
		service.GET("/allServices", middleware.ProviderAuth(secret), handlers.MyServices(db))
		service.GET("/:id", handlers.GetService(db))
		service.POST("", middleware.ProviderAuth(secret), handlers.CreateService(db, store, registry))
		service.PUT("/:id", middleware.ProviderAuth(secret), handlers.UpdateService(db, registry))
		service.DELETE("/:id", middleware.ProviderAuth(secret), handlers.DeleteService(db))
	}

	machinery := r.Group("/api/machinery")
	{
		machinery.GET("", handlers.SearchMachinery(db))
		machinery.GET("/allMachines", middleware.ProviderAuth(secret), handlers.MyMachines(db))
		machinery.GET("/:id", handlers.GetMachinery(db))
		machinery.POST("", middleware.ProviderAuth(secret), handlers.CreateMachinery(db, store, registry))
		machinery.PUT("/:id", middleware.ProviderAuth(secret), handlers.UpdateMachinery(db))
		machinery.DELETE("/:id", middleware.ProviderAuth(secret), handlers.DeleteMachinery(db))
	}

	spareParts := r.Group("/api/spare-parts")
	{
		spareParts.GET("", handlers.SearchSpareParts(db))
		spareParts.GET("/allSpareParts", middleware.ProviderAuth(secret), handlers.MySpareParts(db))
		spareParts.GET("/:id", handlers.GetSparePart(db))
		spareParts.POST("", middleware.ProviderAuth(secret), handlers.CreateSparePart(db, store, registry))
		spareParts.PUT("/:id", middleware.ProviderAuth(secret), handlers.UpdateSparePart(db))
		spareParts.DELETE("/:id", middleware.ProviderAuth(secret), handlers.DeleteSparePart(db))
	}

	rawMaterial := r.Group("/api/raw-material")
	{
		rawMaterial.GET("", handlers.SearchRawMaterials(db))
		rawMaterial.GET("/allRawMaterial", middleware.ProviderAuth(secret), handlers.MyRawMaterials(db))
		rawMaterial.GET("/:id", handlers.GetRawMaterial(db))
		rawMaterial.POST("", middleware.ProviderAuth(secret), handlers.CreateRawMaterial(db, store, registry))
		rawMaterial.PUT("/:id", middleware.ProviderAuth(secret), handlers.UpdateRawMaterial(db))
		rawMaterial.DELETE("/:id", middleware.ProviderAuth(secret), handlers.DeleteRawMaterial(db))
	}

	booking := r.Group("/api/booking")
	booking.Use(middleware.UserAuth(secret))
	{
		booking.POST("", handlers.CreateBooking(db))
		booking.GET("", handlers.MyBookings(db))
		booking.PUT("/:id/cancel", handlers.CancelBooking(db))
	}

	order := r.Group("/api/order")
	order.Use(middleware.UserAuth(secret))
	{
		order.POST("", handlers.PlaceOrder(db))
		order.GET("", handlers.MyOrders(db))
	}

	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminAuth(secret))
	{
		admin.GET("/pending-services", handlers.PendingServices(db))
		admin.PUT("/approve-service/:id", handlers.ApproveService(db))
		admin.PUT("/reject-service/:id", handlers.RejectService(db))
		admin.GET("/pending-machinery", handlers.PendingMachinery(db))
		admin.PUT("/approve-machinery/:id", handlers.ApproveMachinery(db))
		admin.PUT("/reject-machinery/:id", handlers.RejectMachinery(db))
	}

	r.GET("/api/dynamic-fields", handlers.GetDynamicFields(registry))

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
