// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// Invoice represents an issued invoice. InvoiceNumber is globally unique;
// per-tenant sequencing is guaranteed by the numbering service, the unique
// index is the final guard against manual-number collisions.
type Invoice struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	TenantID snowflake.ID `gorm:"column:tenant_id;not null;index"`
	ClientID snowflake.ID `gorm:"column:client_id;not null;index"`

	InvoiceNumber string        `gorm:"column:invoice_number;type:text;not null;uniqueIndex"`
	Status        InvoiceStatus `gorm:"type:text;not null;default:'DRAFT';index"`

	Currency     string `gorm:"type:text;not null"`
	Jurisdiction string `gorm:"type:text;not null"`

	Subtotal  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TaxRate   decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	TaxAmount decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Total     decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	Notes *string `gorm:"type:text"`

	IssuedAt       *time.Time `gorm:""`
	DueAt          *time.Time `gorm:"index"`
	PaidAt         *time.Time `gorm:""`
	ReminderSentAt *time.Time `gorm:""`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }
