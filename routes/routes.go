package routes

import (
	"github.com/georgmattin/kristlinilehekulg/controllers"
	"github.com/georgmattin/kristlinilehekulg/middleware"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Checkout     *controllers.CheckoutController
	Webhook      *controllers.WebhookController
	Download     *controllers.DownloadController
	FreeDownload *controllers.FreeDownloadController
	Product      *controllers.ProductController
	Site         *controllers.SiteController
}

func RegisterRoutes(r *gin.Engine, c Controllers, adminAPIKey string) {
	// Fulfillment workflow
	r.POST("/checkout-session", c.Checkout.CreateCheckoutSession)
	r.POST("/webhook", c.Webhook.HandleWebhook)
	r.GET("/download/:sessionId", c.Download.RedeemDownload)
	r.POST("/free-download", c.FreeDownload.RequestFreeDownload)

	// Catalog
	r.GET("/products", c.Product.ListProducts)
	r.GET("/products/:id", c.Product.GetProduct)

	// Site extras
	r.POST("/newsletter", c.Site.Subscribe)
	r.GET("/social-links", c.Site.GetSocialLinks)

	// Admin content management
	admin := r.Group("/admin")
	admin.Use(middleware.AdminAuth(adminAPIKey))
	admin.POST("/products", c.Product.CreateProduct)
	admin.PUT("/products/:id", c.Product.UpdateProduct)
	admin.DELETE("/products/:id", c.Product.DeleteProduct)
}
