package domain

import (
	"context"
	"errors"
	"time"

	billingdomain "github.com/tubigan/waterworks/internal/billing/domain"
)

type Service interface {
	// Record applies a payment to a billing record and returns both the
	// receipt and the record with its recomputed balance.
	Record(ctx context.Context, req RecordRequest) (*Receipt, error)
	ListByClient(ctx context.Context, clientID string) ([]Payment, error)
	// ListByDateRange returns payments with PaidAt in [from, to), oldest
	// first. Used by the treasury daily collection report.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Payment, error)
}

type RecordRequest struct {
	BillingRecordID string  `json:"billing_record_id"`
	Amount          float64 `json:"amount"`
	// ORNumber is the manually issued official receipt number. When blank a
	// ULID is assigned so every payment stays traceable.
	ORNumber string `json:"or_number"`
	Cashier  string `json:"cashier"`
}

type Receipt struct {
	Payment Payment              `json:"payment"`
	Record  billingdomain.Record `json:"record"`
}

var (
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidRange   = errors.New("invalid_date_range")
	ErrDuplicateOR    = errors.New("duplicate_or_number")
	ErrRecordNotFound = errors.New("billing_record_not_found")
)
