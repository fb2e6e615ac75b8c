package main

import (
	"log"

	"github.com/georgmattin/kristlinilehekulg/config"
	"github.com/georgmattin/kristlinilehekulg/controllers"
	"github.com/georgmattin/kristlinilehekulg/database"
	"github.com/georgmattin/kristlinilehekulg/logger"
	"github.com/georgmattin/kristlinilehekulg/models"
	"github.com/georgmattin/kristlinilehekulg/repository"
	"github.com/georgmattin/kristlinilehekulg/routes"
	"github.com/georgmattin/kristlinilehekulg/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[Storefront] Failed to load config:", err)
	}

	zapLogger, err := logger.Initialize(cfg.Env)
	if err != nil {
		log.Fatal("[Storefront] Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	db, err := database.ConnectPostgres(cfg, zapLogger,
		&models.Product{},
		&models.Purchase{},
		&models.FreeDownload{},
	)
	if err != nil {
		log.Fatal("[Storefront] Failed to connect to DB:", err)
	}
	defer database.Close(db)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	productRepo := repository.NewGormProductRepo(db)
	purchaseRepo := repository.NewGormPurchaseRepo(db)
	siteRepo := repository.NewGormSiteRepo(db)

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)
	mailer, err := services.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	if err != nil {
		log.Fatal("[Storefront] Failed to configure SMTP sender:", err)
	}

	fulfillment := services.NewFulfillmentService(productRepo, purchaseRepo, mailer, zapLogger, cfg.SiteURL)
	cache := controllers.NewCacheManager(redisClient, zapLogger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zapLogger))

	routes.RegisterRoutes(r, routes.Controllers{
		Checkout: &controllers.CheckoutController{
			Products: productRepo,
			Stripe:   stripeSvc,
			Logger:   zapLogger,
			SiteURL:  cfg.SiteURL,
		},
		Webhook: &controllers.WebhookController{
			Stripe:      stripeSvc,
			Fulfillment: fulfillment,
			Logger:      zapLogger,
		},
		Download: &controllers.DownloadController{
			Purchases: purchaseRepo,
			Logger:    zapLogger,
		},
		FreeDownload: &controllers.FreeDownloadController{
			Products: productRepo,
			Site:     siteRepo,
			Mailer:   mailer,
			Logger:   zapLogger,
		},
		Product: controllers.NewProductController(productRepo, cache, zapLogger),
		Site:    controllers.NewSiteController(siteRepo, zapLogger),
	}, cfg.AdminAPIKey)

	log.Println("[Storefront] Running on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[Storefront] Server failed:", err)
	}
}
