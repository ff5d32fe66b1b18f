package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tubigan/waterworks/internal/client/domain"
	"github.com/tubigan/waterworks/pkg/db/option"
	"github.com/tubigan/waterworks/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO clients (id, code, first_name, last_name, classification, status, meter_number, barangay, sitio, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		client.ID,
		client.Code,
		client.FirstName,
		client.LastName,
		client.Classification,
		client.Status,
		client.MeterNumber,
		client.Barangay,
		client.Sitio,
		client.CreatedAt,
		client.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Exec(
		`UPDATE clients
		 SET first_name = ?, last_name = ?, classification = ?, status = ?, meter_number = ?, barangay = ?, sitio = ?, updated_at = ?
		 WHERE id = ?`,
		client.FirstName,
		client.LastName,
		client.Classification,
		client.Status,
		client.MeterNumber,
		client.Barangay,
		client.Sitio,
		client.UpdatedAt,
		client.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, first_name, last_name, classification, status, meter_number, barangay, sitio, created_at, updated_at
		 FROM clients WHERE id = ?`,
		id,
	).Scan(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ID == 0 {
		return nil, nil
	}
	return &client, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, first_name, last_name, classification, status, meter_number, barangay, sitio, created_at, updated_at
		 FROM clients WHERE code = ?`,
		code,
	).Scan(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ID == 0 {
		return nil, nil
	}
	return &client, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Client, error) {
	var clients []*domain.Client
	stmt := db.WithContext(ctx).Model(&domain.Client{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Classification != "" {
		stmt = stmt.Where("classification = ?", filter.Classification)
	}
	if filter.Barangay != "" {
		stmt = stmt.Where("barangay = ?", filter.Barangay)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("code LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repo) ListByStatus(ctx context.Context, db *gorm.DB, status domain.Status) ([]*domain.Client, error) {
	var clients []*domain.Client
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, first_name, last_name, classification, status, meter_number, barangay, sitio, created_at, updated_at
		 FROM clients WHERE status = ? ORDER BY code ASC`,
		status,
	).Scan(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}
