package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionItem is a single line item. Amount must be strictly positive;
// the write path validates this before rows are inserted.
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	Description   string          `gorm:"size:255;not null" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Category      string          `gorm:"size:100;index" json:"category"`
	Position      int             `gorm:"not null;default:0" json:"-"`
}

func (i *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
