// Package domain contains the miscellaneous fee model.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type FeeStatus string

const (
	FeeStatusUnpaid FeeStatus = "unpaid"
	FeeStatusPaid   FeeStatus = "paid"
)

// Fee is a one-off charge outside the metered bill: reconnection, meter
// replacement, service connection, and the like.
type Fee struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	ClientID    snowflake.ID `json:"client_id" gorm:"not null;index"`
	Description string       `json:"description" gorm:"type:text;not null"`
	Amount      float64      `json:"amount" gorm:"not null"`
	Status      FeeStatus    `json:"status" gorm:"type:text;not null"`
	ORNumber    string       `json:"or_number" gorm:"type:text"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Fee) TableName() string { return "fees" }

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Fee, error)
	ListByClient(ctx context.Context, clientID string) ([]Fee, error)
	// Update corrects the description or amount of an unpaid fee.
	Update(ctx context.Context, req UpdateRequest) (*Fee, error)
	// MarkPaid closes the fee with the treasury receipt number.
	MarkPaid(ctx context.Context, id string, orNumber string) (*Fee, error)
}

type CreateRequest struct {
	ClientID    string  `json:"client_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type UpdateRequest struct {
	ID          string   `json:"-"`
	Description *string  `json:"description"`
	Amount      *float64 `json:"amount"`
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrNotFound           = errors.New("not_found")
	ErrAlreadyPaid        = errors.New("already_paid")
)
