// Package domain contains the billing rate configuration model.
package domain

import (
	"time"

	clientdomain "github.com/tubigan/waterworks/internal/client/domain"
	"gorm.io/datatypes"
)

// SingletonID is the fixed primary key of the one configuration row per
// deployment. Rate changes overwrite this row; past billing records keep the
// values that were resolved at generation time.
const SingletonID int64 = 1

// Rate is the charge pair for one classification.
type Rate struct {
	Minimum  float64 `json:"minimum"`
	PerCubic float64 `json:"perCubic"`
}

// RateConfiguration is the singleton rate table plus meter-reading metadata.
type RateConfiguration struct {
	ID          int64                               `gorm:"primaryKey"`
	Rates       datatypes.JSONType[map[string]Rate] `gorm:"not null"`
	MeterReader string                              `gorm:"type:text;not null"`
	ContactNo   string                              `gorm:"type:text;not null"`
	UpdatedAt   time.Time                           `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (RateConfiguration) TableName() string { return "rate_configurations" }

// Snapshot is the read-only view handed to the billing calculator. One
// snapshot is taken per generation run and shared across the whole batch.
type Snapshot struct {
	Found       bool
	Rates       map[clientdomain.Classification]Rate
	MeterReader string
	ContactNo   string
}

// RateFor resolves the rate entry for a classification.
func (s Snapshot) RateFor(classification clientdomain.Classification) (Rate, bool) {
	if s.Rates == nil {
		return Rate{}, false
	}
	rate, ok := s.Rates[classification]
	return rate, ok
}

// SnapshotOf converts the stored row into a calculator snapshot.
func SnapshotOf(cfg *RateConfiguration) Snapshot {
	if cfg == nil {
		return Snapshot{}
	}
	rates := make(map[clientdomain.Classification]Rate)
	for name, rate := range cfg.Rates.Data() {
		if classification, ok := clientdomain.ParseClassification(name); ok {
			rates[classification] = rate
		}
	}
	// An all-zero row is the seeded placeholder; it counts as not yet
	// configured so strict generation still refuses to run.
	found := false
	for _, rate := range rates {
		if rate.Minimum > 0 || rate.PerCubic > 0 {
			found = true
			break
		}
	}
	return Snapshot{
		Found:       found,
		Rates:       rates,
		MeterReader: cfg.MeterReader,
		ContactNo:   cfg.ContactNo,
	}
}
