package controllers

import (
	"fmt"
	"net/http"

	"github.com/georgmattin/kristlinilehekulg/repository"
	"github.com/georgmattin/kristlinilehekulg/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutController struct {
	Products repository.ProductRepository
	Stripe   services.CheckoutCreator
	Logger   *zap.Logger
	SiteURL  string
}

type checkoutRequest struct {
	ProductID     string `json:"productId" binding:"required"`
	CustomerEmail string `json:"customerEmail" binding:"required,email"`
	CustomerName  string `json:"customerName"`
}

// CreateCheckoutSession validates a purchase request and asks Stripe for a
// hosted payment session. No purchase record exists until the webhook
// confirms completion.
func (cc *CheckoutController) CreateCheckoutSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, cc.Logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondError(c, cc.Logger, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	product, err := cc.Products.GetActiveByID(c.Request.Context(), productID)
	if err != nil {
		respondRepoError(c, cc.Logger, err, "Product not found")
		return
	}

	if product.IsFree {
		respondError(c, cc.Logger, http.StatusBadRequest, "Cannot create checkout for free product", nil)
		return
	}

	if !product.Price.IsPositive() {
		respondError(c, cc.Logger, http.StatusBadRequest, "Invalid product price", nil)
		return
	}

	sessionID, err := cc.Stripe.CreateCheckoutSession(c.Request.Context(), services.CheckoutSessionInput{
		ProductID:     product.ID.String(),
		ProductTitle:  product.Title,
		Description:   product.Description,
		ImageURL:      product.ImageURL,
		UnitAmount:    services.ToMinorUnits(product.Price),
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		SuccessURL:    cc.SiteURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     fmt.Sprintf("%s/checkout?product=%s", cc.SiteURL, product.ID),
	})
	if err != nil {
		cc.Logger.Error("Stripe session creation failed",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Payment session creation failed",
			"details": err.Error(),
		})
		return
	}

	cc.Logger.Info("Checkout session created",
		zap.String("session_id", sessionID),
		zap.String("product_id", product.ID.String()),
	)
	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
}
