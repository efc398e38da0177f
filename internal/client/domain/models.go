// Package domain contains the client (invoice recipient) model.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrNotFound      = errors.New("client_not_found")
)

// Client is a billable counterparty, scoped to a tenant.
type Client struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	TenantID snowflake.ID `gorm:"column:tenant_id;not null;index"`

	Name    string  `gorm:"type:text;not null"`
	Email   string  `gorm:"type:text;not null"`
	Company *string `gorm:"type:text"`
	Address *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

type Repository interface {
	Create(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, tenantID, id snowflake.ID) (*Client, error)
	// FindByIDAnyTenant is used by the reminder job, which walks invoices
	// across tenants.
	FindByIDAnyTenant(ctx context.Context, id snowflake.ID) (*Client, error)
	List(ctx context.Context, tenantID snowflake.ID) ([]Client, error)
}

type Service interface {
	Create(ctx context.Context, client *Client) (*Client, error)
	GetByID(ctx context.Context, tenantID, id snowflake.ID) (*Client, error)
	List(ctx context.Context, tenantID snowflake.ID) ([]Client, error)
}
