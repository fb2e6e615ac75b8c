package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product is a sellable (or free) digital item.
type Product struct {
	ID                  uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title               string           `gorm:"type:varchar(255);not null" json:"title"`
	Description         string           `gorm:"type:text" json:"description"`
	Price               decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"price"`
	OriginalPrice       *decimal.Decimal `gorm:"type:numeric(10,2)" json:"original_price,omitempty"`
	Category            string           `gorm:"type:varchar(100);index" json:"category"`
	ImageURL            string           `gorm:"type:varchar(1024)" json:"image_url,omitempty"`
	StripePriceID       string           `gorm:"type:varchar(255)" json:"stripe_price_id,omitempty"`
	CustomLink          string           `gorm:"type:varchar(1024)" json:"custom_link,omitempty"`
	Featured            bool             `gorm:"default:false;index" json:"featured"`
	Status              string           `gorm:"type:varchar(20);not null;default:active;index" json:"status"`
	Rating              float64          `gorm:"default:0" json:"rating"`
	Downloads           int              `gorm:"default:0" json:"downloads"`
	IsFree              bool             `gorm:"default:false" json:"is_free"`
	DownloadFileURL     string           `gorm:"type:varchar(1024)" json:"download_file_url,omitempty"`
	DownloadFileURLPaid string           `gorm:"type:varchar(1024)" json:"download_file_url_paid,omitempty"`
	CreatedAt           time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt   `gorm:"index" json:"-"`
}

// FileURL returns the file reference a buyer should receive, preferring the
// paid-tier file over the public one.
func (p *Product) FileURL() string {
	if p.DownloadFileURLPaid != "" {
		return p.DownloadFileURLPaid
	}
	return p.DownloadFileURL
}
