package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType discriminates income from expense entries.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a bookkeeping entry made of one or more line items.
// TotalAmount is derived from the items and never taken from a client.
// IDs are UUIDs so clients can mint them offline before syncing.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_tx_user_date;index:idx_tx_user_deleted" json:"user_id"`
	BusinessID  *uuid.UUID      `gorm:"type:uuid;index" json:"business_id,omitempty"`
	Type        TransactionType `gorm:"size:10;not null;index" json:"transaction_type"`
	Date        time.Time       `gorm:"not null;index:idx_tx_user_date" json:"date"`
	Description string          `json:"description"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	IsDeleted   bool            `gorm:"not null;default:false;index:idx_tx_user_deleted" json:"is_deleted"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
