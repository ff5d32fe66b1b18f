package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tubigan/waterworks/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status         Status
	Classification Classification
	Barangay       string
	Search         string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	Update(ctx context.Context, db *gorm.DB, client *Client) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Client, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Client, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Client, error)
	// ListByStatus returns every client in the given status, unpaginated.
	// The billing generator iterates the full active roster.
	ListByStatus(ctx context.Context, db *gorm.DB, status Status) ([]*Client, error)
}
