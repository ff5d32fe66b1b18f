// Package domain contains the inter-office message model.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Message is one line of inter-office chat. Delivery is pull-based: clients
// poll with the last ID they have seen.
type Message struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	FromOffice string       `json:"from_office" gorm:"type:text;not null"`
	ToOffice   string       `json:"to_office" gorm:"type:text;not null;index"`
	Body       string       `json:"body" gorm:"type:text;not null"`
	CreatedAt  time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Message) TableName() string { return "messages" }

type Service interface {
	Send(ctx context.Context, req SendRequest) (*Message, error)
	// Poll returns messages addressed to the office with ID greater than
	// afterID, oldest first. Snowflake IDs are time ordered.
	Poll(ctx context.Context, office string, afterID string) ([]Message, error)
}

type SendRequest struct {
	FromOffice string `json:"from_office"`
	ToOffice   string `json:"to_office"`
	Body       string `json:"body"`
}

var (
	ErrInvalidOffice  = errors.New("invalid_office")
	ErrEmptyBody      = errors.New("empty_body")
	ErrInvalidAfterID = errors.New("invalid_after_id")
)
