package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Client, error)
	Update(ctx context.Context, req UpdateRequest) (*Client, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	GetByID(ctx context.Context, id string) (*Client, error)
	GetByCode(ctx context.Context, code string) (*Client, error)
	// Disconnect marks the account disconnected. Records are kept.
	Disconnect(ctx context.Context, id string) (*Client, error)
}

type CreateRequest struct {
	Code           string `json:"code"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Classification string `json:"classification"`
	// LegacyClassification is the numeric code still sent by the old intake
	// forms. Used only when Classification is empty.
	LegacyClassification *int   `json:"legacy_classification,omitempty"`
	Status               string `json:"status"`
	MeterNumber          string `json:"meter_number"`
	Barangay             string `json:"barangay"`
	Sitio                string `json:"sitio"`
}

type UpdateRequest struct {
	ID             string  `json:"id"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Classification *string `json:"classification,omitempty"`
	Status         *string `json:"status,omitempty"`
	MeterNumber    *string `json:"meter_number,omitempty"`
	Barangay       *string `json:"barangay,omitempty"`
	Sitio          *string `json:"sitio,omitempty"`
}

type ListRequest struct {
	PageToken      string
	PageSize       int
	Status         string
	Classification string
	Barangay       string
	// Search matches against code, first name and last name.
	Search string
}

type ListResponse struct {
	Clients       []Client `json:"clients"`
	NextPageToken string   `json:"next_page_token"`
	HasMore       bool     `json:"has_more"`
}

var (
	ErrInvalidCode           = errors.New("invalid_code")
	ErrInvalidName           = errors.New("invalid_name")
	ErrInvalidClassification = errors.New("invalid_classification")
	ErrInvalidStatus         = errors.New("invalid_status")
	ErrInvalidID             = errors.New("invalid_id")
	ErrDuplicateCode         = errors.New("duplicate_code")
	ErrNotFound              = errors.New("not_found")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
