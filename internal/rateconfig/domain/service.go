package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Current returns the active configuration snapshot. A deployment that
	// has never been configured yields a snapshot with Found=false; callers
	// decide whether that degrades to zero rates or fails.
	Current(ctx context.Context) (Snapshot, error)
	Update(ctx context.Context, req UpdateRequest) (Snapshot, error)
}

type UpdateRequest struct {
	Rates       map[string]Rate `json:"rates"`
	MeterReader string          `json:"meterReader"`
	ContactNo   string          `json:"contactNo"`
}

var (
	ErrInvalidRates = errors.New("invalid_rates")
	ErrNegativeRate = errors.New("negative_rate")
)
