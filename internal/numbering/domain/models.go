// Package domain contains the per-tenant invoice numbering state and the
// contracts of the allocator that owns it.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// NumberingState is the per-tenant counter row. It is owned exclusively by
// the numbering service; nothing else writes next_number. The counter only
// moves forward, except for the explicit new-year reset.
type NumberingState struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	TenantID snowflake.ID `gorm:"column:tenant_id;not null;uniqueIndex"`

	Prefix     string `gorm:"type:text;not null"`
	NextNumber int64  `gorm:"column:next_number;not null;default:1"`

	// Tenant billing defaults, seeded on lazy creation.
	DefaultCurrency     string          `gorm:"type:text;not null;default:'USD'"`
	DefaultTaxRate      decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	DefaultPaymentTerms int             `gorm:"not null;default:30"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (NumberingState) TableName() string { return "numbering_states" }
