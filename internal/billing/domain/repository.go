package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *Record) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Record, error)
	FindByClientAndPeriod(ctx context.Context, db *gorm.DB, clientID snowflake.ID, period string) (*Record, error)
	// LatestBefore returns the client's most recent record strictly before
	// period. Periods sort lexically (YYYY-MM).
	LatestBefore(ctx context.Context, db *gorm.DB, clientID snowflake.ID, period string) (*Record, error)
	ListByPeriod(ctx context.Context, db *gorm.DB, period string) ([]*Record, error)
	ListByClient(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]*Record, error)
	// BilledClientIDs returns the ids of clients that already have a record
	// for the period. The generator loads this once per run.
	BilledClientIDs(ctx context.Context, db *gorm.DB, period string) (map[snowflake.ID]struct{}, error)
	UpdatePayment(ctx context.Context, db *gorm.DB, record *Record) error
}
