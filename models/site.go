package models

import (
	"time"

	"github.com/google/uuid"
)

// FreeDownload records an issued free-item download link. Free items are
// fulfilled through this unpaid path, never through Stripe checkout.
type FreeDownload struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"product_id"`
	Email        string     `gorm:"type:varchar(255);not null" json:"email"`
	DownloadLink string     `gorm:"type:varchar(1024);not null" json:"download_link"`
	ExpiresAt    time.Time  `gorm:"not null" json:"expires_at"`
	DownloadedAt *time.Time `json:"downloaded_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// NewsletterSubscriber lives in an optional table; a missing relation is
// treated as the feature being disabled.
type NewsletterSubscriber struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Status       string    `gorm:"type:varchar(20);not null;default:subscribed" json:"status"`
	SubscribedAt time.Time `gorm:"autoCreateTime" json:"subscribed_at"`
}

// SocialMediaLink also lives in an optional table.
type SocialMediaLink struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Platform  string    `gorm:"type:varchar(50);not null" json:"platform"`
	URL       string    `gorm:"type:varchar(1024);not null" json:"url"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
