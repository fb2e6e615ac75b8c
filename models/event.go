package models

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v80"
)

// Stripe event types the fulfillment workflow reacts to. Anything else is
// acknowledged and ignored.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventPaymentSucceeded  = "payment_intent.succeeded"
	EventPaymentFailed     = "payment_intent.payment_failed"
	EventChargeDisputed    = "charge.dispute.created"
)

// WebhookEvent is the parsed, typed form of a verified Stripe event. It is
// built once at the boundary; handlers never touch the raw payload.
type WebhookEvent interface {
	Kind() string
}

// CheckoutCompleted carries the fields needed to create a Purchase.
type CheckoutCompleted struct {
	SessionID       string
	PaymentIntentID string
	CustomerEmail   string
	ProductID       string
	ProductTitle    string
	CustomerName    string
	AmountTotal     int64 // minor units
}

func (CheckoutCompleted) Kind() string { return EventCheckoutCompleted }

// PaymentSucceeded confirms an earlier checkout.
type PaymentSucceeded struct {
	PaymentIntentID string
}

func (PaymentSucceeded) Kind() string { return EventPaymentSucceeded }

// PaymentFailed marks an earlier checkout as failed.
type PaymentFailed struct {
	PaymentIntentID string
}

func (PaymentFailed) Kind() string { return EventPaymentFailed }

// ChargeDisputed marks a purchase as disputed.
type ChargeDisputed struct {
	ChargeID string
}

func (ChargeDisputed) Kind() string { return EventChargeDisputed }

// ParseWebhookEvent converts a verified Stripe event into its typed form.
// It returns (nil, nil) for event types the workflow does not handle.
func ParseWebhookEvent(event stripe.Event) (WebhookEvent, error) {
	if event.Data == nil {
		return nil, fmt.Errorf("event %s has no data object", event.ID)
	}

	switch event.Type {
	case EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("unmarshal checkout session: %w", err)
		}
		ev := CheckoutCompleted{
			SessionID:     sess.ID,
			CustomerEmail: sess.CustomerEmail,
			ProductID:     sess.Metadata["product_id"],
			ProductTitle:  sess.Metadata["product_title"],
			CustomerName:  sess.Metadata["customer_name"],
			AmountTotal:   sess.AmountTotal,
		}
		if sess.PaymentIntent != nil {
			ev.PaymentIntentID = sess.PaymentIntent.ID
		}
		if ev.CustomerEmail == "" && sess.CustomerDetails != nil {
			ev.CustomerEmail = sess.CustomerDetails.Email
		}
		return ev, nil

	case EventPaymentSucceeded, EventPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("unmarshal payment intent: %w", err)
		}
		if event.Type == EventPaymentSucceeded {
			return PaymentSucceeded{PaymentIntentID: pi.ID}, nil
		}
		return PaymentFailed{PaymentIntentID: pi.ID}, nil

	case EventChargeDisputed:
		var dispute stripe.Dispute
		if err := json.Unmarshal(event.Data.Raw, &dispute); err != nil {
			return nil, fmt.Errorf("unmarshal dispute: %w", err)
		}
		ev := ChargeDisputed{}
		if dispute.Charge != nil {
			ev.ChargeID = dispute.Charge.ID
		}
		return ev, nil
	}

	return nil, nil
}
