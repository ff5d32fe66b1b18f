package domain

import (
	"context"
	"errors"
	"regexp"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Service interface {
	// Generate creates one billing record per active client for the period,
	// skipping clients that already have one. Safe to re-run.
	Generate(ctx context.Context, req GenerateRequest) (*Summary, error)
	ManualCreate(ctx context.Context, req ManualCreateRequest) (*Record, error)
	GetByID(ctx context.Context, id string) (*Record, error)
	ListByPeriod(ctx context.Context, period string) ([]Record, error)
	ListByClient(ctx context.Context, clientID string) ([]Record, error)
	// ApplyPayment adds amount to the record's paid total and recomputes the
	// remaining balance. Used by the treasury payment flow.
	ApplyPayment(ctx context.Context, recordID snowflake.ID, amount float64) (*Record, error)
	// ApplyPaymentTx is ApplyPayment running inside the caller's transaction,
	// so the balance mutation commits together with the caller's writes.
	ApplyPaymentTx(ctx context.Context, tx *gorm.DB, recordID snowflake.ID, amount float64) (*Record, error)
}

type GenerateRequest struct {
	Period string
	// Readings maps client code to the current meter reading captured by the
	// reader. Clients without an entry are billed at their previous reading,
	// which yields a minimum-only bill until the reading is corrected.
	Readings map[string]float64
}

type ItemError struct {
	ClientCode string `json:"client_code"`
	Message    string `json:"message"`
}

type Summary struct {
	Period    string      `json:"period"`
	Generated int         `json:"generated"`
	Skipped   int         `json:"skipped"`
	Errors    []ItemError `json:"errors,omitempty"`
}

type ManualCreateRequest struct {
	ClientID        string   `json:"client_id"`
	Period          string   `json:"period"`
	CurrentReading  float64  `json:"current_reading"`
	PreviousReading *float64 `json:"previous_reading,omitempty"`
	FreeCubic       *float64 `json:"free_cubic,omitempty"`
	Minimum         float64  `json:"minimum,omitempty"`
	PerCubic        float64  `json:"per_cubic,omitempty"`
	Discount        float64  `json:"discount,omitempty"`
	LessAmount      float64  `json:"less_amount,omitempty"`
	PaidAmount      float64  `json:"paid_amount,omitempty"`
}

var (
	ErrInvalidPeriod        = errors.New("invalid_period")
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrNotFound             = errors.New("not_found")
	ErrDuplicatePeriod      = errors.New("duplicate_period")
	ErrMissingRate          = errors.New("missing_rate")
	ErrConfigurationMissing = errors.New("configuration_missing")
	ErrGenerationInProgress = errors.New("generation_in_progress")
	ErrClientNotFound       = errors.New("client_not_found")
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidPeriod reports whether value is a YYYY-MM billing month.
func ValidPeriod(value string) bool {
	return periodPattern.MatchString(value)
}
