package controllers

import (
	"context"
	"net/http"

	"github.com/georgmattin/kristlinilehekulg/models"
	"github.com/georgmattin/kristlinilehekulg/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventHandler applies a verified payment event.
type EventHandler interface {
	HandleEvent(ctx context.Context, event models.WebhookEvent) error
}

type WebhookController struct {
	Stripe      *services.StripeService
	Fulfillment EventHandler
	Logger      *zap.Logger
}

// HandleWebhook receives Stripe event deliveries. Signature verification is
// the authentication mechanism for this endpoint; once it passes, the
// delivery is always acknowledged — a handler failure is logged, never
// surfaced, because a non-2xx would trigger Stripe's redelivery storm.
func (wc *WebhookController) HandleWebhook(c *gin.Context) {
	event, err := wc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		wc.Logger.Warn("Webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	wc.Logger.Info("Processing webhook event",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	parsed, err := models.ParseWebhookEvent(event)
	if err != nil {
		wc.Logger.Error("Failed to parse webhook payload",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if parsed == nil {
		// Stripe may introduce new event kinds at any time.
		wc.Logger.Info("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)),
		)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := wc.Fulfillment.HandleEvent(c.Request.Context(), parsed); err != nil {
		wc.Logger.Error("Webhook handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
