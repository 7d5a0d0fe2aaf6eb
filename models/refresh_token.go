package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken stores a hashed refresh token for session rotation and revocation.
// Only the sha256 of the raw token ever touches the database.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	TokenHash string    `gorm:"size:128;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"default:false"`
}
