package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// Webhook payloads are small; anything larger is not a Stripe event.
const maxWebhookBody = 1 << 20

// CheckoutSessionInput describes one paid line item for a hosted checkout.
type CheckoutSessionInput struct {
	ProductID     string
	ProductTitle  string
	Description   string
	ImageURL      string
	UnitAmount    int64 // minor units
	CustomerEmail string
	CustomerName  string
	SuccessURL    string
	CancelURL     string
}

// CheckoutCreator is what the checkout controller needs from Stripe.
type CheckoutCreator interface {
	CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (string, error)
}

type StripeService struct {
	SecretKey  string
	WebhookKey string
}

func NewStripeService(secretKey, webhookKey string) *StripeService {
	stripe.Key = secretKey
	stripe.SetHTTPClient(&http.Client{Timeout: 20 * time.Second})
	return &StripeService{SecretKey: secretKey, WebhookKey: webhookKey}
}

// CreateCheckoutSession asks Stripe for a hosted payment session and returns
// its opaque identifier. Nothing is persisted locally at this stage.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (string, error) {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(input.ProductTitle),
	}
	if input.Description != "" {
		productData.Description = stripe.String(input.Description)
	}
	if input.ImageURL != "" {
		productData.Images = stripe.StringSlice([]string{input.ImageURL})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(string(stripe.CurrencyUSD)),
					ProductData: productData,
					UnitAmount:  stripe.Int64(input.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:               stripe.String(input.SuccessURL),
		CancelURL:                stripe.String(input.CancelURL),
		CustomerEmail:            stripe.String(input.CustomerEmail),
		AllowPromotionCodes:      stripe.Bool(true),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
	}
	params.Context = ctx
	params.AddMetadata("product_id", input.ProductID)
	params.AddMetadata("product_title", input.ProductTitle)
	params.AddMetadata("customer_name", input.CustomerName)

	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}

// ParseWebhook verifies the Stripe signature over the exact raw body and
// returns the decoded event. The body is restored for any later reader.
// Only signature failure is fatal: accounts pin arbitrary API versions on
// their webhook endpoints, so version drift must not reject the event.
func (s *StripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))
	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEventWithOptions(payload, sigHeader, s.WebhookKey, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

// ToMinorUnits converts a decimal price into Stripe's integer minor-unit
// representation (price * 100, rounded).
func ToMinorUnits(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromMinorUnits converts a Stripe amount back into decimal currency units.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(100))
}
