package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Invoice amounts are stored in cents. Date is set on insert and never updated.
type Invoice struct {
	ID         string    `gorm:"type:text;primaryKey" json:"id"`
	CustomerID string    `gorm:"type:text;not null;index" json:"customer_id"`
	Amount     int64     `gorm:"not null" json:"amount"`
	Status     string    `gorm:"type:text;not null;index" json:"status"`
	Date       time.Time `gorm:"not null" json:"date"`
}

// BeforeCreate assigns the identifier when the caller left it empty.
func (inv *Invoice) BeforeCreate(tx *gorm.DB) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	return nil
}
