package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/facturo/facturo/internal/clock"
	invoicedomain "github.com/facturo/facturo/internal/invoice/domain"
	numberingdomain "github.com/facturo/facturo/internal/numbering/domain"
	taxdomain "github.com/facturo/facturo/internal/tax/domain"
	"github.com/facturo/facturo/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultPaymentTermsDays = 30

type ServiceParam struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      invoicedomain.Repository
	Numbering numberingdomain.Service
	Tax       taxdomain.Calculator
}

type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      invoicedomain.Repository
	numbering numberingdomain.Service
	tax       taxdomain.Calculator
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		numbering: p.Numbering,
		tax:       p.Tax,
	}
}

// Create issues an invoice: number allocation (or manual registration), tax
// computation, then persistence. The invoice_number unique index is the
// last line of defense if a manual number races another insert.
func (s *Service) Create(ctx context.Context, req invoicedomain.CreateRequest) (*invoicedomain.Invoice, error) {
	if req.TenantID == 0 {
		return nil, invoicedomain.ErrInvalidTenant
	}
	if req.ClientID == 0 {
		return nil, invoicedomain.ErrInvalidClient
	}

	var number string
	if req.ManualNumber != nil {
		registered, err := s.numbering.RegisterCustom(ctx, req.TenantID, *req.ManualNumber)
		if err != nil {
			return nil, err
		}
		number = registered
	} else {
		allocated, err := s.numbering.Allocate(ctx, req.TenantID, req.Override)
		if err != nil {
			return nil, err
		}
		number = allocated.InvoiceNumber
	}

	calc := s.tax.Calculate(req.Subtotal, req.Jurisdiction)

	now := s.clock.Now()
	dueAt := req.DueAt
	if dueAt == nil {
		due := now.AddDate(0, 0, defaultPaymentTermsDays)
		dueAt = &due
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	inv := &invoicedomain.Invoice{
		ID:            s.genID.Generate(),
		TenantID:      req.TenantID,
		ClientID:      req.ClientID,
		InvoiceNumber: number,
		Status:        invoicedomain.InvoiceStatusDraft,
		Currency:      currency,
		Jurisdiction:  req.Jurisdiction,
		Subtotal:      calc.Subtotal,
		TaxRate:       calc.TaxRate,
		TaxAmount:     calc.TaxAmount,
		Total:         calc.Total,
		Notes:         req.Notes,
		IssuedAt:      &now,
		DueAt:         dueAt,
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, numberingdomain.ErrDuplicateNumber
		}
		return nil, err
	}

	s.log.Info("invoice created",
		zap.Int64("tenant_id", int64(req.TenantID)),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("total", inv.Total.String()),
	)
	return inv, nil
}

func (s *Service) GetByID(ctx context.Context, tenantID, id snowflake.ID) (*invoicedomain.Invoice, error) {
	inv, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, invoicedomain.ErrNotFound
	}
	return inv, nil
}

func (s *Service) List(ctx context.Context, tenantID snowflake.ID, filter invoicedomain.ListFilter) ([]invoicedomain.Invoice, error) {
	return s.repo.List(ctx, tenantID, filter)
}

func (s *Service) MarkSent(ctx context.Context, tenantID, id snowflake.ID) (*invoicedomain.Invoice, error) {
	inv, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != invoicedomain.InvoiceStatusDraft {
		return nil, invoicedomain.ErrInvalidStatus
	}

	inv.Status = invoicedomain.InvoiceStatusSent
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) MarkPaid(ctx context.Context, tenantID, id snowflake.ID) (*invoicedomain.Invoice, error) {
	inv, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != invoicedomain.InvoiceStatusSent && inv.Status != invoicedomain.InvoiceStatusOverdue {
		return nil, invoicedomain.ErrInvalidStatus
	}

	now := s.clock.Now()
	inv.Status = invoicedomain.InvoiceStatusPaid
	inv.PaidAt = &now
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) MarkOverdue(ctx context.Context, inv *invoicedomain.Invoice) error {
	if inv.Status != invoicedomain.InvoiceStatusSent {
		return invoicedomain.ErrInvalidStatus
	}
	inv.Status = invoicedomain.InvoiceStatusOverdue
	return s.repo.Update(ctx, inv)
}

func (s *Service) MarkReminded(ctx context.Context, inv *invoicedomain.Invoice) error {
	now := s.clock.Now()
	inv.ReminderSentAt = &now
	return s.repo.Update(ctx, inv)
}

func (s *Service) CheckInvoice(ctx context.Context, tenantID, id snowflake.ID, reminderWindow time.Duration) (*invoicedomain.CheckResult, error) {
	inv, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	result := &invoicedomain.CheckResult{
		PreviousStatus: inv.Status,
		CurrentStatus:  inv.Status,
	}

	if inv.Status != invoicedomain.InvoiceStatusSent || inv.DueAt == nil {
		return result, nil
	}

	if inv.DueAt.Before(now) {
		if err := s.MarkOverdue(ctx, inv); err != nil {
			return nil, err
		}
		result.Updated = true
		result.CurrentStatus = invoicedomain.InvoiceStatusOverdue
		result.ReminderDue = true
		return result, nil
	}

	if !inv.DueAt.After(now.Add(reminderWindow)) {
		result.ReminderDue = true
	}
	return result, nil
}

func (s *Service) ListOverdueCandidates(ctx context.Context, limit int) ([]invoicedomain.Invoice, error) {
	return s.repo.ListOverdueCandidates(ctx, s.clock.Now(), limit)
}

func (s *Service) ListDueSoon(ctx context.Context, window time.Duration, limit int) ([]invoicedomain.Invoice, error) {
	return s.repo.ListDueSoon(ctx, s.clock.Now(), window, limit)
}
