// Package domain contains the treasury payment model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Payment is one official-receipt payment applied against a billing record.
type Payment struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	BillingRecordID snowflake.ID `json:"billing_record_id" gorm:"not null;index"`
	ClientID        snowflake.ID `json:"client_id" gorm:"not null;index"`
	ORNumber        string       `json:"or_number" gorm:"type:text;not null;uniqueIndex:ux_payments_or_number"`
	Amount          float64      `json:"amount" gorm:"not null"`
	Cashier         string       `json:"cashier" gorm:"type:text"`
	PaidAt          time.Time    `json:"paid_at" gorm:"not null"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }
