package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/facturo/facturo/internal/invoice/domain"
	numberingdomain "github.com/facturo/facturo/internal/numbering/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) invoicedomain.Repository {
	return &repository{db: db}
}

// NewNumberIndex exposes the invoice table to the numbering service as its
// global uniqueness index.
func NewNumberIndex(repo invoicedomain.Repository) numberingdomain.InvoiceNumberIndex {
	return repo.(*repository)
}

func (r *repository) Create(ctx context.Context, inv *invoicedomain.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repository) FindByID(ctx context.Context, tenantID, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var inv invoicedomain.Invoice
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *repository) List(ctx context.Context, tenantID snowflake.ID, filter invoicedomain.ListFilter) ([]invoicedomain.Invoice, error) {
	stmt := r.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC")

	if filter.Status != nil {
		stmt = stmt.Where("status = ?", *filter.Status)
	}
	if filter.ClientID != nil {
		stmt = stmt.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}

	var items []invoicedomain.Invoice
	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, inv *invoicedomain.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *repository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("invoice_number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CountByTenant(ctx context.Context, tenantID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

func (r *repository) ListOverdueCandidates(ctx context.Context, now time.Time, limit int) ([]invoicedomain.Invoice, error) {
	var items []invoicedomain.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_at < ?", invoicedomain.InvoiceStatusSent, now).
		Order("due_at ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *repository) ListDueSoon(ctx context.Context, now time.Time, window time.Duration, limit int) ([]invoicedomain.Invoice, error) {
	horizon := now.Add(window)
	var items []invoicedomain.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_at >= ? AND due_at <= ?", invoicedomain.InvoiceStatusSent, now, horizon).
		Where("reminder_sent_at IS NULL OR reminder_sent_at < ?", now.Add(-window)).
		Order("due_at ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
