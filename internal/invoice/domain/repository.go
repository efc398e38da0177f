package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ListFilter narrows invoice listings.
type ListFilter struct {
	Status   *InvoiceStatus
	ClientID *snowflake.ID
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	FindByID(ctx context.Context, tenantID, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, tenantID snowflake.ID, filter ListFilter) ([]Invoice, error)
	Update(ctx context.Context, inv *Invoice) error

	// ExistsByNumber checks the exact number string across ALL tenants;
	// it backs the numbering service's global uniqueness check.
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	CountByTenant(ctx context.Context, tenantID snowflake.ID) (int64, error)

	// ListOverdueCandidates returns SENT invoices past their due date.
	ListOverdueCandidates(ctx context.Context, now time.Time, limit int) ([]Invoice, error)
	// ListDueSoon returns SENT invoices due within the window that have
	// not been reminded since the window opened.
	ListDueSoon(ctx context.Context, now time.Time, window time.Duration, limit int) ([]Invoice, error)
}
