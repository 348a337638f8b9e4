package models

import "time"

// BargainMessage is one entry of a session's negotiation log. Messages are
// append-only and never mutated or reordered; insertion order is the
// authoritative chronological order.
type BargainMessage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SessionID string `gorm:"type:uuid;not null;index:idx_session_msg" json:"session_id"`
	// Sender is resolved server-side from the authenticated principal,
	// never taken from the client payload.
	Sender Role   `gorm:"type:text;not null" json:"sender"`
	Text   string `gorm:"type:text;not null" json:"text"`
	// IsOffer marks messages that carry a price proposal. OfferAmount is
	// set iff IsOffer is true.
	IsOffer     bool      `gorm:"not null;default:false" json:"is_offer"`
	OfferAmount *float64  `json:"offer_amount,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
