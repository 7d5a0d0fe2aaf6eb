package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the authentication identity. Email doubles as the login name.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Email          string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FirstName      string    `gorm:"size:150" json:"first_name"`
	LastName       string    `gorm:"size:150" json:"last_name"`
	HashedPassword []byte    `gorm:"not null" json:"-"`

	Business     *Business     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Transactions []Transaction `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
