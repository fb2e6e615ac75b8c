package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase status state machine:
//
//	completed -> payment_confirmed | payment_failed
//	completed | payment_confirmed -> disputed
//
// disputed and payment_failed are terminal.
const (
	PurchaseStatusCompleted        = "completed"
	PurchaseStatusPaymentConfirmed = "payment_confirmed"
	PurchaseStatusPaymentFailed    = "payment_failed"
	PurchaseStatusDisputed         = "disputed"
)

// DefaultMaxDownloads is how many times a buyer may redeem one purchase.
const DefaultMaxDownloads = 5

// DownloadLinkTTL is how long a purchase download link stays valid.
const DownloadLinkTTL = 30 * 24 * time.Hour

// Purchase is one record per completed checkout. Created only once a
// verified checkout-completed event arrives, never speculatively.
type Purchase struct {
	ID                    uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID             uuid.UUID       `gorm:"type:uuid;index;not null" json:"product_id"`
	Product               *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CustomerEmail         string          `gorm:"type:varchar(255);not null" json:"customer_email"`
	StripeSessionID       string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"stripe_session_id"`
	StripePaymentIntentID string          `gorm:"type:varchar(255);index" json:"stripe_payment_intent_id"`
	AmountPaid            decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount_paid"`
	Status                string          `gorm:"type:varchar(32);not null" json:"status"`
	DownloadExpiresAt     time.Time       `gorm:"not null" json:"download_expires_at"`
	DownloadCount         int             `gorm:"default:0" json:"download_count"`
	MaxDownloads          int             `gorm:"default:5" json:"max_downloads"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Expired reports whether the download window has elapsed at the given time.
func (p *Purchase) Expired(now time.Time) bool {
	return now.After(p.DownloadExpiresAt)
}

// Exhausted reports whether the buyer has used up the download allowance.
func (p *Purchase) Exhausted() bool {
	return p.DownloadCount >= p.MaxDownloads
}
