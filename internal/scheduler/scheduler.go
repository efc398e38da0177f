// Package scheduler runs the daily invoice-status job: it flips past-due
// SENT invoices to OVERDUE and sends payment reminders for invoices coming
// due. Formerly a cron expression in the original deployment; here it is a
// plain ticker loop owned by the fx lifecycle.
package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	clientdomain "github.com/facturo/facturo/internal/client/domain"
	"github.com/facturo/facturo/internal/clock"
	"github.com/facturo/facturo/internal/currency"
	"github.com/facturo/facturo/internal/distlock"
	invoicedomain "github.com/facturo/facturo/internal/invoice/domain"
	obsmetrics "github.com/facturo/facturo/internal/observability/metrics"
	"github.com/facturo/facturo/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const lockKey = "facturo:scheduler:invoice-status"

var ErrInvalidConfig = errors.New("scheduler: missing dependency")

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	InvoiceSvc  invoicedomain.Service
	ClientRepo  clientdomain.Repository
	CurrencySvc currency.Service
	Email       email.Provider
	Locker      *distlock.Locker `optional:"true"`
	Config      Config           `optional:"true"`
}

type Scheduler struct {
	log         *zap.Logger
	cfg         Config
	clock       clock.Clock
	invoiceSvc  invoicedomain.Service
	clientRepo  clientdomain.Repository
	currencySvc currency.Service
	email       email.Provider
	locker      *distlock.Locker

	running atomic.Bool
	stats   runStats
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.InvoiceSvc == nil || p.ClientRepo == nil || p.Email == nil || p.CurrencySvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:         p.Log.Named("scheduler").With(zap.String("component", "invoice-status-job")),
		cfg:         p.Config.withDefaults(),
		clock:       p.Clock,
		invoiceSvc:  p.InvoiceSvc,
		clientRepo:  p.ClientRepo,
		currencySvc: p.CurrencySvc,
		email:       p.Email,
		locker:      p.Locker,
	}, nil
}

// Stats returns a snapshot of the run counters.
func (s *Scheduler) Stats() Stats {
	return s.stats.Snapshot()
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("invoice status job failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce executes the job if it is not already running in this process
// and, when a distributed locker is configured, in any other replica.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Info("invoice status job already running, skipping")
		return nil
	}
	defer s.running.Store(false)

	if s.locker != nil {
		token, ok, err := s.locker.TryLock(ctx, lockKey, s.cfg.LockTTL)
		if err != nil {
			return err
		}
		if !ok {
			s.log.Info("invoice status job locked by another replica, skipping")
			return nil
		}
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), lockKey, token); err != nil {
				s.log.Warn("failed to release job lock", zap.Error(err))
			}
		}()
	}

	s.stats.recordRun(s.clock.Now())
	s.log.Info("invoice status job started")

	var firstErr error
	if err := s.runJob(ctx, "mark_overdue", s.markOverdueInvoices); err != nil {
		firstErr = err
	}
	if err := s.runJob(ctx, "send_reminders", s.sendPaymentReminders); err != nil && firstErr == nil {
		firstErr = err
	}

	s.log.Info("invoice status job finished", zap.Any("stats", s.Stats()))
	return firstErr
}

func (s *Scheduler) runJob(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)

	err := fn(ctx)
	schedMetrics.ObserveJobDuration(name, time.Since(start))
	if err != nil {
		schedMetrics.IncJobError(name)
		s.stats.addError()
		s.log.Warn("job failed", zap.String("job", name), zap.Error(err))
	}
	return err
}

// markOverdueInvoices flips SENT invoices past their due date to OVERDUE
// and notifies the client. An email failure never rolls back the status
// change.
func (s *Scheduler) markOverdueInvoices(ctx context.Context) error {
	invoices, err := s.invoiceSvc.ListOverdueCandidates(ctx, s.cfg.BatchSize)
	if err != nil {
		return err
	}

	s.log.Info("found overdue invoices", zap.Int("count", len(invoices)))
	schedMetrics := obsmetrics.Scheduler()

	for i := range invoices {
		inv := &invoices[i]
		if err := s.invoiceSvc.MarkOverdue(ctx, inv); err != nil {
			s.stats.addError()
			s.log.Warn("failed to mark invoice overdue",
				zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
			continue
		}

		s.stats.addProcessed(1)
		s.stats.addOverdue(1)
		schedMetrics.IncOverdueMarked()
		s.log.Info("marked invoice overdue", zap.String("invoice_number", inv.InvoiceNumber))

		s.sendReminder(ctx, inv, true)
	}
	return nil
}

// sendPaymentReminders emails clients whose invoices come due within the
// reminder window.
func (s *Scheduler) sendPaymentReminders(ctx context.Context) error {
	invoices, err := s.invoiceSvc.ListDueSoon(ctx, s.cfg.ReminderWindow, s.cfg.BatchSize)
	if err != nil {
		return err
	}

	s.log.Info("found invoices due soon", zap.Int("count", len(invoices)))

	for i := range invoices {
		inv := &invoices[i]
		s.stats.addProcessed(1)
		s.sendReminder(ctx, inv, false)
	}
	return nil
}

func (s *Scheduler) sendReminder(ctx context.Context, inv *invoicedomain.Invoice, overdue bool) {
	schedMetrics := obsmetrics.Scheduler()

	client, err := s.clientRepo.FindByIDAnyTenant(ctx, inv.ClientID)
	if err != nil || client == nil {
		schedMetrics.IncReminderError()
		s.stats.addError()
		s.log.Warn("client lookup failed for reminder",
			zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		return
	}

	dueDate := ""
	if inv.DueAt != nil {
		dueDate = inv.DueAt.Format("2006-01-02")
	}

	subject, body, err := email.BuildPaymentReminder(email.ReminderData{
		InvoiceNumber: inv.InvoiceNumber,
		ClientName:    client.Name,
		Total:         s.currencySvc.FormatAmount(inv.Total, inv.Currency),
		DueDate:       dueDate,
		BusinessName:  "Facturo",
		Overdue:       overdue,
	})
	if err != nil {
		schedMetrics.IncReminderError()
		s.stats.addError()
		return
	}

	if err := s.email.Send(ctx, []string{client.Email}, subject, body); err != nil {
		schedMetrics.IncReminderError()
		s.stats.addError()
		s.log.Warn("failed to send payment reminder",
			zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		return
	}

	if err := s.invoiceSvc.MarkReminded(ctx, inv); err != nil {
		s.log.Warn("failed to record reminder timestamp",
			zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
	}
	s.stats.addReminders(1)
	schedMetrics.IncReminderSent()
}
