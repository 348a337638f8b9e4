package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // needed for pq.StringArray
	"gorm.io/gorm"
)

// Product is a catalog listing. The bargaining core treats it as a read-only
// price/title source; listings are written only through seeding and the
// admin CLI.
type Product struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	SellerID    string         `gorm:"not null;index" json:"seller_id"`
	Title       string         `gorm:"type:text;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	// Price is the listed price and the reference price captured into new
	// bargain sessions. Always > 0.
	Price     float64        `gorm:"not null" json:"price"`
	Tags      pq.StringArray `gorm:"type:text[]" json:"tags"`
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// BeforeCreate generates a UUID for the product if the ID is not set yet.
func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
