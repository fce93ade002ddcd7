package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stars transaction statuses. A purchase writes a "completed" row for the
// charge and a "returned" row for the loyalty rebate.
const (
	StarsStatusCompleted = "completed"
	StarsStatusReturned  = "returned"
)

// StarsTransaction is the audit trail for the Telegram Stars payment branch.
type StarsTransaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index;not null" json:"order_id"`
	UserID      int64           `gorm:"index;not null" json:"user_id"`
	StarsAmount int64           `gorm:"not null" json:"stars_amount"`
	AmountFiat  decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount_fiat"`
	Status      string          `gorm:"type:varchar(20)" json:"status"`
	ChargeID    string          `json:"charge_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (StarsTransaction) TableName() string { return "stars_transactions" }
