package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists NumberingState. The Transaction combinator is the
// atomicity contract the allocator builds on: GetForUpdate + SetNextNumber
// (or Create) inside one Transaction must be serialized per tenant by the
// backing store. The allocator itself holds no locks.
type Repository interface {
	// Transaction runs fn in a single transactional unit of work.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error

	// GetForUpdate reads a tenant's state inside tx, holding a row lock so
	// concurrent allocations for the same tenant serialize. Returns nil
	// when the tenant has no state yet.
	GetForUpdate(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID) (*NumberingState, error)

	// Get is a plain consistent read, no lock. Returns nil when absent.
	Get(ctx context.Context, tenantID snowflake.ID) (*NumberingState, error)

	Create(ctx context.Context, tx *gorm.DB, state *NumberingState) error
	SetNextNumber(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, next int64) error
	Update(ctx context.Context, tenantID snowflake.ID, fields map[string]any) error
}

// InvoiceNumberIndex is the lookup the allocator needs from the invoice
// store: global string uniqueness and per-tenant invoice counts. Implemented
// by the invoice repository and wired through fx.
type InvoiceNumberIndex interface {
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	CountByTenant(ctx context.Context, tenantID snowflake.ID) (int64, error)
}
