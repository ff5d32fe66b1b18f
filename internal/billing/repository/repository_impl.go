package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tubigan/waterworks/internal/billing/domain"
	"gorm.io/gorm"
)

const recordColumns = `id, client_id, period, previous_reading, current_reading, consumption,
	free_cubic, minimum, per_cubic, discount, less_amount, current_billing,
	paid_amount, remaining_balance, meter_reader, created_at, updated_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO billing_records (id, client_id, period, previous_reading, current_reading, consumption,
		 free_cubic, minimum, per_cubic, discount, less_amount, current_billing,
		 paid_amount, remaining_balance, meter_reader, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.ClientID,
		record.Period,
		record.PreviousReading,
		record.CurrentReading,
		record.Consumption,
		record.FreeCubic,
		record.Minimum,
		record.PerCubic,
		record.Discount,
		record.LessAmount,
		record.CurrentBilling,
		record.PaidAmount,
		record.RemainingBalance,
		record.MeterReader,
		record.CreatedAt,
		record.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Record, error) {
	var record domain.Record
	err := db.WithContext(ctx).Raw(
		`SELECT `+recordColumns+` FROM billing_records WHERE id = ?`,
		id,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) FindByClientAndPeriod(ctx context.Context, db *gorm.DB, clientID snowflake.ID, period string) (*domain.Record, error) {
	var record domain.Record
	err := db.WithContext(ctx).Raw(
		`SELECT `+recordColumns+` FROM billing_records WHERE client_id = ? AND period = ?`,
		clientID,
		period,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) LatestBefore(ctx context.Context, db *gorm.DB, clientID snowflake.ID, period string) (*domain.Record, error) {
	var record domain.Record
	err := db.WithContext(ctx).Raw(
		`SELECT `+recordColumns+` FROM billing_records
		 WHERE client_id = ? AND period < ?
		 ORDER BY period DESC LIMIT 1`,
		clientID,
		period,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) ListByPeriod(ctx context.Context, db *gorm.DB, period string) ([]*domain.Record, error) {
	var records []*domain.Record
	err := db.WithContext(ctx).Raw(
		`SELECT `+recordColumns+` FROM billing_records WHERE period = ? ORDER BY client_id ASC`,
		period,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) ListByClient(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]*domain.Record, error) {
	var records []*domain.Record
	err := db.WithContext(ctx).Raw(
		`SELECT `+recordColumns+` FROM billing_records WHERE client_id = ? ORDER BY period DESC`,
		clientID,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) BilledClientIDs(ctx context.Context, db *gorm.DB, period string) (map[snowflake.ID]struct{}, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT client_id FROM billing_records WHERE period = ?`,
		period,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[snowflake.ID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *repo) UpdatePayment(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	return db.WithContext(ctx).Exec(
		`UPDATE billing_records
		 SET paid_amount = ?, remaining_balance = ?, updated_at = ?
		 WHERE id = ?`,
		record.PaidAmount,
		record.RemainingBalance,
		record.UpdatedAt,
		record.ID,
	).Error
}
