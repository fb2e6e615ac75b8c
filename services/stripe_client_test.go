package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		price string
		want  int64
	}{
		{"20.00", 2000},
		{"0.99", 99},
		{"19.999", 2000},
		{"10", 1000},
		{"0", 0},
	}

	for _, tc := range cases {
		price, err := decimal.NewFromString(tc.price)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, ToMinorUnits(price), "price %s", tc.price)
	}
}

func TestFromMinorUnits(t *testing.T) {
	assert.True(t, FromMinorUnits(2000).Equal(decimal.NewFromFloat(20.00)))
	assert.True(t, FromMinorUnits(99).Equal(decimal.NewFromFloat(0.99)))
	assert.True(t, FromMinorUnits(0).IsZero())
}

func TestPurchaseEmailContainsDownloadLink(t *testing.T) {
	subject, body := PurchaseEmail("Budget Planner", "https://shop.example.com/download/cs_123", 5)
	assert.Contains(t, subject, "Budget Planner")
	assert.Contains(t, body, "https://shop.example.com/download/cs_123")
	assert.Contains(t, body, "up to 5 times")
}
