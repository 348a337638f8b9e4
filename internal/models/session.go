package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionStatus is the lifecycle state of a bargain session. The status is
// monotonic: once it leaves StatusActive it never changes again.
type SessionStatus string

const (
	StatusActive   SessionStatus = "active"
	StatusAccepted SessionStatus = "accepted"
	StatusRejected SessionStatus = "rejected"
	StatusExpired  SessionStatus = "expired"
)

// BargainSession represents one buyer-seller-product negotiation with a
// bounded number of turns per participant.
type BargainSession struct {
	// ID is the unique identifier of the session (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// ProductID, BuyerID and SellerID are fixed at creation time.
	ProductID string `gorm:"type:uuid;not null;index:idx_buyer_product" json:"product_id"`
	BuyerID   string `gorm:"not null;index:idx_buyer_product" json:"buyer_id"`
	SellerID  string `gorm:"not null;index" json:"seller_id"`
	// InitialPrice is the catalog price captured at creation. All offer
	// validation is anchored to it, never to later counter-offers.
	InitialPrice float64 `gorm:"not null" json:"initial_price"`
	// CurrentPrice is the amount of the most recent offer message, or
	// InitialPrice while no offer has been made.
	CurrentPrice float64       `gorm:"not null" json:"current_price"`
	Status       SessionStatus `gorm:"type:text;not null;index" json:"status"`
	// ExpiresAt is CreatedAt plus the session TTL. An active session read
	// after this instant is treated as expired.
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages is the append-only negotiation log in chronological order.
	Messages []BargainMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// BeforeCreate generates a UUID for the session if the ID is not set yet.
func (s *BargainSession) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

// RoleOf resolves the principal's role within this session. It is the single
// place participant authorization is derived from; callers must not compare
// ids ad hoc.
func (s *BargainSession) RoleOf(principalID string) Role {
	switch principalID {
	case s.BuyerID:
		return RoleBuyer
	case s.SellerID:
		return RoleSeller
	default:
		return RoleNone
	}
}

// IsOverdue reports whether the session is still marked active even though
// its ExpiresAt has passed.
func (s *BargainSession) IsOverdue(now time.Time) bool {
	return s.Status == StatusActive && now.After(s.ExpiresAt)
}

// CountMessagesBy returns how many messages the given role has contributed.
// Derived from the log on demand; the log is already loaded for validation.
func (s *BargainSession) CountMessagesBy(role Role) int {
	n := 0
	for _, m := range s.Messages {
		if m.Sender == role {
			n++
		}
	}
	return n
}
