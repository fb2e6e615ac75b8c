package services

import (
	"context"
	"fmt"
	"time"

	"github.com/georgmattin/kristlinilehekulg/models"
	"github.com/georgmattin/kristlinilehekulg/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FulfillmentService applies verified payment events to purchase records.
// Every handler is idempotent: Stripe redelivers events and does not order
// them across kinds, so "not found" and "already applied" are no-ops.
type FulfillmentService struct {
	products  repository.ProductRepository
	purchases repository.PurchaseRepository
	mailer    EmailSender
	logger    *zap.Logger
	siteURL   string
	now       func() time.Time
}

func NewFulfillmentService(
	products repository.ProductRepository,
	purchases repository.PurchaseRepository,
	mailer EmailSender,
	logger *zap.Logger,
	siteURL string,
) *FulfillmentService {
	return &FulfillmentService{
		products:  products,
		purchases: purchases,
		mailer:    mailer,
		logger:    logger,
		siteURL:   siteURL,
		now:       time.Now,
	}
}

// HandleEvent routes a typed webhook event to its handler.
func (s *FulfillmentService) HandleEvent(ctx context.Context, event models.WebhookEvent) error {
	switch ev := event.(type) {
	case models.CheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, ev)
	case models.PaymentSucceeded:
		return s.handlePaymentStatus(ctx, ev.PaymentIntentID, models.PurchaseStatusPaymentConfirmed)
	case models.PaymentFailed:
		return s.handlePaymentStatus(ctx, ev.PaymentIntentID, models.PurchaseStatusPaymentFailed)
	case models.ChargeDisputed:
		return s.handleChargeDisputed(ctx, ev)
	default:
		return fmt.Errorf("unhandled event kind %q", event.Kind())
	}
}

func (s *FulfillmentService) handleCheckoutCompleted(ctx context.Context, ev models.CheckoutCompleted) error {
	productID, err := uuid.Parse(ev.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product id in session metadata %q: %w", ev.ProductID, err)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		// A Purchase must never be created for an unknown product.
		return fmt.Errorf("product lookup for session %s: %w", ev.SessionID, err)
	}

	purchase := &models.Purchase{
		ProductID:             product.ID,
		CustomerEmail:         ev.CustomerEmail,
		StripeSessionID:       ev.SessionID,
		StripePaymentIntentID: ev.PaymentIntentID,
		AmountPaid:            FromMinorUnits(ev.AmountTotal),
		Status:                models.PurchaseStatusCompleted,
		DownloadExpiresAt:     s.now().Add(models.DownloadLinkTTL),
		MaxDownloads:          models.DefaultMaxDownloads,
	}

	created, err := s.purchases.CreateIfAbsent(ctx, purchase)
	if err != nil {
		return fmt.Errorf("create purchase for session %s: %w", ev.SessionID, err)
	}
	if !created {
		// Redelivered event; the first delivery already did the work.
		s.logger.Info("Skipping duplicate checkout event",
			zap.String("session_id", ev.SessionID),
		)
		return nil
	}

	if err := s.products.IncrementDownloads(ctx, product.ID); err != nil {
		s.logger.Error("Failed to increment product download counter",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}

	s.sendPurchaseEmail(ctx, ev.CustomerEmail, product.Title, ev.SessionID)

	s.logger.Info("Purchase completed",
		zap.String("session_id", ev.SessionID),
		zap.String("product_id", product.ID.String()),
		zap.String("customer_email", ev.CustomerEmail),
	)
	return nil
}

func (s *FulfillmentService) handlePaymentStatus(ctx context.Context, paymentIntentID, toStatus string) error {
	if paymentIntentID == "" {
		return fmt.Errorf("payment event without payment intent id")
	}

	updated, err := s.purchases.TransitionByPaymentIntent(ctx, paymentIntentID, toStatus)
	if err != nil {
		return fmt.Errorf("transition purchase for intent %s: %w", paymentIntentID, err)
	}
	if !updated {
		// Events may arrive before or without a completed-checkout event.
		s.logger.Info("No transitionable purchase for payment intent",
			zap.String("payment_intent_id", paymentIntentID),
			zap.String("target_status", toStatus),
		)
		return nil
	}

	s.logger.Info("Purchase status updated",
		zap.String("payment_intent_id", paymentIntentID),
		zap.String("status", toStatus),
	)
	return nil
}

func (s *FulfillmentService) handleChargeDisputed(ctx context.Context, ev models.ChargeDisputed) error {
	if ev.ChargeID == "" {
		return fmt.Errorf("dispute event without charge id")
	}

	updated, err := s.purchases.MarkDisputedBySession(ctx, ev.ChargeID)
	if err != nil {
		return fmt.Errorf("mark disputed for charge %s: %w", ev.ChargeID, err)
	}
	if !updated {
		s.logger.Info("No purchase found for disputed charge",
			zap.String("charge_id", ev.ChargeID),
		)
		return nil
	}

	s.logger.Warn("Purchase disputed", zap.String("charge_id", ev.ChargeID))
	return nil
}

func (s *FulfillmentService) sendPurchaseEmail(ctx context.Context, customerEmail, productTitle, sessionID string) {
	if customerEmail == "" {
		s.logger.Warn("Checkout session has no customer email, skipping fulfillment email",
			zap.String("session_id", sessionID),
		)
		return
	}

	downloadURL := fmt.Sprintf("%s/download/%s", s.siteURL, sessionID)
	subject, body := PurchaseEmail(productTitle, downloadURL, models.DefaultMaxDownloads)

	if _, err := s.mailer.SendEmail(ctx, customerEmail, subject, body); err != nil {
		// Best-effort: mail failures never roll back the purchase.
		s.logger.Error("Failed to send purchase email",
			zap.String("customer_email", customerEmail),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Purchase email sent",
		zap.String("customer_email", customerEmail),
		zap.String("session_id", sessionID),
	)
}
