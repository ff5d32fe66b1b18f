// Package domain contains the billing record model and the bill calculator.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Record is one client's water bill for one period. The (client_id, period)
// pair is the natural key; the unique index backs the generator's
// once-per-period guarantee.
type Record struct {
	ID               snowflake.ID `json:"id" gorm:"primaryKey"`
	ClientID         snowflake.ID `json:"client_id" gorm:"not null;uniqueIndex:ux_billing_records_client_period,priority:1"`
	Period           string       `json:"period" gorm:"type:text;not null;uniqueIndex:ux_billing_records_client_period,priority:2;index"`
	PreviousReading  float64      `json:"previous_reading" gorm:"not null"`
	CurrentReading   float64      `json:"current_reading" gorm:"not null"`
	Consumption      float64      `json:"consumption" gorm:"not null"`
	FreeCubic        float64      `json:"free_cubic" gorm:"not null"`
	Minimum          float64      `json:"minimum" gorm:"not null"`
	PerCubic         float64      `json:"per_cubic" gorm:"not null"`
	Discount         float64      `json:"discount" gorm:"not null"`
	LessAmount       float64      `json:"less_amount" gorm:"not null"`
	CurrentBilling   float64      `json:"current_billing" gorm:"not null"`
	PaidAmount       float64      `json:"paid_amount" gorm:"not null"`
	RemainingBalance float64      `json:"remaining_balance" gorm:"not null"`
	MeterReader      string       `json:"meter_reader" gorm:"type:text"`
	CreatedAt        time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "billing_records" }
