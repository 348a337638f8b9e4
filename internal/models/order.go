package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is the record handed to the checkout pipeline when a seller accepts
// a negotiation. FinalPrice is the session's CurrentPrice at acceptance time.
// One order per session, enforced by the unique index.
type Order struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	SessionID  string    `gorm:"type:uuid;uniqueIndex;not null" json:"session_id"`
	ProductID  string    `gorm:"type:uuid;not null" json:"product_id"`
	BuyerID    string    `gorm:"not null;index" json:"buyer_id"`
	SellerID   string    `gorm:"not null;index" json:"seller_id"`
	FinalPrice float64   `gorm:"not null" json:"final_price"`
	Status     string    `gorm:"type:text;not null;default:'pending'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID for the order if the ID is not set yet.
func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}
