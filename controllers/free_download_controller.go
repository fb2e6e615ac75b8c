package controllers

import (
	"net/http"
	"time"

	"github.com/georgmattin/kristlinilehekulg/models"
	"github.com/georgmattin/kristlinilehekulg/repository"
	"github.com/georgmattin/kristlinilehekulg/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FreeDownloadController fulfills free items. This path never touches
// Stripe; paid items are rejected here the same way free items are rejected
// at checkout.
type FreeDownloadController struct {
	Products repository.ProductRepository
	Site     repository.SiteRepository
	Mailer   services.EmailSender
	Logger   *zap.Logger
}

type freeDownloadRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

func (fc *FreeDownloadController) RequestFreeDownload(c *gin.Context) {
	var req freeDownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fc.Logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondError(c, fc.Logger, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	product, err := fc.Products.GetActiveByID(c.Request.Context(), productID)
	if err != nil {
		respondRepoError(c, fc.Logger, err, "Product not found")
		return
	}

	if !product.IsFree {
		respondError(c, fc.Logger, http.StatusBadRequest, "Product is not free", nil)
		return
	}

	if product.DownloadFileURL == "" {
		respondError(c, fc.Logger, http.StatusNotFound, "Download file not available", nil)
		return
	}

	record := &models.FreeDownload{
		ProductID:    product.ID,
		Email:        req.Email,
		DownloadLink: product.DownloadFileURL,
		ExpiresAt:    time.Now().Add(models.DownloadLinkTTL),
	}
	if err := fc.Site.CreateFreeDownload(c.Request.Context(), record); err != nil {
		respondRepoError(c, fc.Logger, err, "Download unavailable")
		return
	}

	subject, body := services.FreeDownloadEmail(product.Title, product.DownloadFileURL)
	if _, err := fc.Mailer.SendEmail(c.Request.Context(), req.Email, subject, body); err != nil {
		fc.Logger.Error("Failed to send free download email",
			zap.String("email", req.Email),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"downloadUrl": product.DownloadFileURL,
		"expiresAt":   record.ExpiresAt,
	})
}
