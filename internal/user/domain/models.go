// Package domain contains the office user directory model.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Office is one of the four back-office roles. Credentials live in the
// external auth system; this directory only carries identity and role.
type Office string

const (
	OfficeAdmin       Office = "admin"
	OfficeBilling     Office = "billing"
	OfficeTreasury    Office = "treasury"
	OfficeEngineering Office = "engineering"
)

// Offices lists every valid office.
var Offices = []Office{OfficeAdmin, OfficeBilling, OfficeTreasury, OfficeEngineering}

// ParseOffice accepts a canonical office name.
func ParseOffice(value string) (Office, bool) {
	switch Office(value) {
	case OfficeAdmin, OfficeBilling, OfficeTreasury, OfficeEngineering:
		return Office(value), true
	default:
		return "", false
	}
}

type User struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Username  string       `json:"username" gorm:"type:text;not null;uniqueIndex:ux_users_username"`
	FullName  string       `json:"full_name" gorm:"type:text;not null"`
	Office    Office       `json:"office" gorm:"type:text;not null"`
	Active    bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*User, error)
	Update(ctx context.Context, req UpdateRequest) (*User, error)
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Deactivate(ctx context.Context, id string) (*User, error)
}

type CreateRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Office   string `json:"office"`
}

type UpdateRequest struct {
	ID       string  `json:"id"`
	FullName *string `json:"full_name,omitempty"`
	Office   *string `json:"office,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

var (
	ErrInvalidUsername = errors.New("invalid_username")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidOffice   = errors.New("invalid_office")
	ErrInvalidID       = errors.New("invalid_id")
	ErrDuplicateUser   = errors.New("duplicate_username")
	ErrNotFound        = errors.New("not_found")
)
