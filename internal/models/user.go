package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies which side of a negotiation a principal is on.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	// RoleNone means the principal is not a participant of the session.
	RoleNone Role = ""
)

// User is the minimal principal record the marketplace keeps locally.
// Credentials live in the external identity provider; we only need an id,
// a role and an optional Telegram chat for seller notifications.
type User struct {
	ID             string `gorm:"primaryKey" json:"id"`
	Username       string `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Role           Role   `gorm:"type:text;not null" json:"role"`
	TelegramChatID *int64 `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID for the user if the ID is not set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
