package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is a single-use, time-boxed credential for the email
// reset flow. Stored hashed, same scheme as RefreshToken. Expiry is checked
// at validation time; there is no reaper.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	TokenHash string    `gorm:"size:128;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"default:false"`
}

// Usable reports whether the token can still redeem a password reset.
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}
