package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
)

func stripeEvent(t *testing.T, eventType, objectJSON string) stripe.Event {
	t.Helper()
	return stripe.Event{
		ID:   "evt_test",
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: json.RawMessage(objectJSON)},
	}
}

func TestParseWebhookEvent_CheckoutCompleted(t *testing.T) {
	ev, err := ParseWebhookEvent(stripeEvent(t, EventCheckoutCompleted, `{
		"id": "cs_123",
		"payment_intent": "pi_123",
		"customer_email": "a@b.com",
		"amount_total": 2000,
		"metadata": {"product_id": "p1", "product_title": "Budget Planner", "customer_name": "Anu"}
	}`))
	require.NoError(t, err)

	completed, ok := ev.(CheckoutCompleted)
	require.True(t, ok)
	assert.Equal(t, "cs_123", completed.SessionID)
	assert.Equal(t, "pi_123", completed.PaymentIntentID)
	assert.Equal(t, "a@b.com", completed.CustomerEmail)
	assert.Equal(t, "p1", completed.ProductID)
	assert.Equal(t, "Budget Planner", completed.ProductTitle)
	assert.Equal(t, "Anu", completed.CustomerName)
	assert.Equal(t, int64(2000), completed.AmountTotal)
}

func TestParseWebhookEvent_CheckoutCompletedEmailFallback(t *testing.T) {
	ev, err := ParseWebhookEvent(stripeEvent(t, EventCheckoutCompleted, `{
		"id": "cs_123",
		"customer_details": {"email": "fallback@b.com"},
		"metadata": {"product_id": "p1"}
	}`))
	require.NoError(t, err)

	completed := ev.(CheckoutCompleted)
	assert.Equal(t, "fallback@b.com", completed.CustomerEmail)
}

func TestParseWebhookEvent_PaymentIntents(t *testing.T) {
	ev, err := ParseWebhookEvent(stripeEvent(t, EventPaymentSucceeded, `{"id": "pi_123"}`))
	require.NoError(t, err)
	assert.Equal(t, PaymentSucceeded{PaymentIntentID: "pi_123"}, ev)

	ev, err = ParseWebhookEvent(stripeEvent(t, EventPaymentFailed, `{"id": "pi_456"}`))
	require.NoError(t, err)
	assert.Equal(t, PaymentFailed{PaymentIntentID: "pi_456"}, ev)
}

func TestParseWebhookEvent_Dispute(t *testing.T) {
	ev, err := ParseWebhookEvent(stripeEvent(t, EventChargeDisputed, `{"id": "dp_1", "charge": "ch_123"}`))
	require.NoError(t, err)
	assert.Equal(t, ChargeDisputed{ChargeID: "ch_123"}, ev)
}

func TestParseWebhookEvent_UnknownKindIgnored(t *testing.T) {
	ev, err := ParseWebhookEvent(stripeEvent(t, "customer.created", `{"id": "cus_1"}`))
	assert.NoError(t, err)
	assert.Nil(t, ev)
}

func TestParseWebhookEvent_MalformedPayload(t *testing.T) {
	_, err := ParseWebhookEvent(stripeEvent(t, EventCheckoutCompleted, `{not json`))
	assert.Error(t, err)
}
