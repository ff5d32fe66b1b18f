package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Get(ctx context.Context, db *gorm.DB) (*RateConfiguration, error)
	// Upsert writes the singleton row. Last write wins.
	Upsert(ctx context.Context, db *gorm.DB, cfg *RateConfiguration) error
}
