package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Receipt is a file attached to a transaction (scans, photos of paper
// receipts). The file lives on disk under the upload base dir; ThumbPath is
// empty when the upload was not a decodable image.
type Receipt struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	TransactionID uuid.UUID `gorm:"type:uuid;index;not null" json:"transaction_id"`
	FileName      string    `gorm:"size:255;not null" json:"file_name"`
	StorePath     string    `gorm:"size:512;not null" json:"store_path"`
	ThumbPath     string    `gorm:"size:512" json:"thumb_path,omitempty"`
	ContentType   string    `gorm:"size:128" json:"content_type"`
	Size          int64     `json:"size"`
}

func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
