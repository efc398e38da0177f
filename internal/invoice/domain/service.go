package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	numberingdomain "github.com/facturo/facturo/internal/numbering/domain"
	"github.com/shopspring/decimal"
)

// CreateRequest issues a new invoice. When ManualNumber is set it is
// validated and checked for global uniqueness instead of allocating from
// the tenant's counter.
type CreateRequest struct {
	TenantID     snowflake.ID
	ClientID     snowflake.ID
	Jurisdiction string
	Currency     string
	Subtotal     decimal.Decimal
	DueAt        *time.Time
	Notes        *string

	ManualNumber *string
	Override     *numberingdomain.FormatOverride
}

// CheckResult reports what a forced status check did to one invoice.
type CheckResult struct {
	Updated        bool          `json:"updated"`
	PreviousStatus InvoiceStatus `json:"previous_status"`
	CurrentStatus  InvoiceStatus `json:"current_status"`
	ReminderDue    bool          `json:"reminder_due"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Invoice, error)
	GetByID(ctx context.Context, tenantID, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, tenantID snowflake.ID, filter ListFilter) ([]Invoice, error)

	MarkSent(ctx context.Context, tenantID, id snowflake.ID) (*Invoice, error)
	MarkPaid(ctx context.Context, tenantID, id snowflake.ID) (*Invoice, error)
	MarkOverdue(ctx context.Context, inv *Invoice) error
	MarkReminded(ctx context.Context, inv *Invoice) error

	// CheckInvoice force-evaluates one invoice against the current time:
	// past-due SENT invoices flip to OVERDUE, and invoices due within the
	// reminder window are flagged for a reminder.
	CheckInvoice(ctx context.Context, tenantID, id snowflake.ID, reminderWindow time.Duration) (*CheckResult, error)

	ListOverdueCandidates(ctx context.Context, limit int) ([]Invoice, error)
	ListDueSoon(ctx context.Context, window time.Duration, limit int) ([]Invoice, error)
}
