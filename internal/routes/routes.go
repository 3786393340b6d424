package routes

import (
	"github.com/gin-gonic/gin"

	"velora_back_end/internal/handlers"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/orders"
)

func RegisterRoutes(r *gin.Engine, service *orders.Service) {
	handlers.OrderService = service

	// Routes publiques
	r.GET("/api/products", handlers.GetProducts)
	r.GET("/api/products/:id", handlers.GetProductByID)
	r.GET("/api/products/:id/reviews", handlers.GetProductReviews)
	r.GET("/api/banners", handlers.GetBanners)

	// Routes authentifiées
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		api.GET("/me", handlers.GetMe)
		api.PUT("/me", handlers.UpdateMe)

		api.POST("/orders", handlers.CreateOrder)
		api.GET("/orders", handlers.GetMyOrders)
		api.GET("/orders/:id", handlers.GetOrderByID)
		api.POST("/orders/:id/cancel", handlers.CancelOrder)
		api.GET("/orders/:id/invoice", handlers.GetOrderInvoice)
		api.GET("/orders/:id/payment-qr", handlers.GetOrderPaymentQR)

		api.POST("/products/:id/reviews", handlers.UpsertReview)
		api.DELETE("/products/:id/reviews", handlers.DeleteReview)

		api.GET("/wishlist", handlers.GetWishlist)
		api.POST("/wishlist", handlers.AddToWishlist)
		api.DELETE("/wishlist/:productId", handlers.RemoveFromWishlist)

		api.GET("/addresses", handlers.GetAddresses)
		api.POST("/addresses", handlers.CreateAddress)
		api.PUT("/addresses/:id", handlers.UpdateAddress)
		api.DELETE("/addresses/:id", handlers.DeleteAddress)

		api.GET("/cart", handlers.GetCart)
		api.PUT("/cart", handlers.SyncCart)
		api.DELETE("/cart", handlers.ClearCart)
	}

	// Routes admin
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		admin.GET("/orders", handlers.AdminListOrders)
		admin.GET("/orders/:id", handlers.AdminGetOrder)
		admin.PUT("/orders/:id", handlers.AdminUpdateOrder)

		admin.POST("/products", handlers.AdminCreateProduct)
		admin.PUT("/products/:id", handlers.AdminUpdateProduct)
		admin.DELETE("/products/:id", handlers.AdminDeleteProduct)
		admin.POST("/products/:id/images", handlers.AdminUploadProductImage)

		admin.POST("/banners/slides", handlers.AdminCreateHeroSlide)
		admin.PUT("/banners/slides/:id", handlers.AdminUpdateHeroSlide)
		admin.DELETE("/banners/slides/:id", handlers.AdminDeleteHeroSlide)
		admin.PUT("/banners/message", handlers.AdminSetBannerMessage)
	}
}
