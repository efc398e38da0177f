package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// FormatOverride is a partial rendering configuration. Nil fields fall back
// to the tenant's stored prefix and the stock defaults (year on, padding 5,
// "-" separator).
type FormatOverride struct {
	Prefix        *string `json:"prefix,omitempty"`
	IncludeYear   *bool   `json:"include_year,omitempty"`
	PaddingLength *int    `json:"padding_length,omitempty"`
	Separator     *string `json:"separator,omitempty"`
}

// AllocationResult is the outcome of a committed allocation. NextNumber is
// the counter value the NEXT allocation will consume.
type AllocationResult struct {
	InvoiceNumber string `json:"invoice_number"`
	NextNumber    int64  `json:"next_number"`
	Format        string `json:"format"`
}

// PreviewResult shows what the next allocation would render. Informational
// only; never use the preview value as an actual invoice number.
type PreviewResult struct {
	Preview string `json:"preview"`
	Format  string `json:"format"`
}

// ValidationResult lists every violated format rule for a manual number.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ConfigurationUpdate edits a tenant's numbering configuration.
type ConfigurationUpdate struct {
	Prefix         *string `json:"prefix,omitempty"`
	StartingNumber *int64  `json:"starting_number,omitempty"`
}

// Stats summarizes a tenant's numbering position.
type Stats struct {
	CurrentNumber int64  `json:"current_number"`
	TotalInvoices int64  `json:"total_invoices"`
	Prefix        string `json:"prefix"`
	Format        string `json:"format"`
	NextPreview   string `json:"next_preview"`
}

// Service allocates unique, monotonically increasing invoice numbers per
// tenant. Atomicity is delegated to the Repository's Transaction contract;
// transaction failures propagate to the caller unmodified with no partial
// state.
type Service interface {
	Allocate(ctx context.Context, tenantID snowflake.ID, override *FormatOverride) (*AllocationResult, error)
	BulkAllocate(ctx context.Context, tenantID snowflake.ID, count int) ([]string, error)
	Preview(ctx context.Context, tenantID snowflake.ID, override *FormatOverride) (*PreviewResult, error)
	ValidateManualNumber(candidate string) ValidationResult
	ExistsGlobally(ctx context.Context, candidate string) (bool, error)
	RegisterCustom(ctx context.Context, tenantID snowflake.ID, candidate string) (string, error)
	ResetForNewYear(ctx context.Context, tenantID snowflake.ID) error
	UpdateConfiguration(ctx context.Context, tenantID snowflake.ID, update ConfigurationUpdate) error
	Stats(ctx context.Context, tenantID snowflake.ID) (*Stats, error)
}
