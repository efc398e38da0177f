package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/facturo/facturo/internal/client/domain"
	"github.com/facturo/facturo/internal/clock"
	invoicedomain "github.com/facturo/facturo/internal/invoice/domain"
	invoicerepository "github.com/facturo/facturo/internal/invoice/repository"
	numberingdomain "github.com/facturo/facturo/internal/numbering/domain"
	numberingrepository "github.com/facturo/facturo/internal/numbering/repository"
	numberingservice "github.com/facturo/facturo/internal/numbering/service"
	taxdomain "github.com/facturo/facturo/internal/tax/domain"
	taxservice "github.com/facturo/facturo/internal/tax/service"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

// setupInvoiceService wires the real allocator and tax calculator over an
// in-memory database, so Create exercises the whole issuing path.
func setupInvoiceService(t *testing.T, fake *clock.FakeClock) (invoicedomain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error

	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&numberingdomain.NumberingState{},
		&invoicedomain.Invoice{},
	))

	node := mustNode(t)
	invoiceRepo := invoicerepository.NewRepository(db)

	numberingSvc := numberingservice.NewService(numberingservice.ServiceParam{
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fake,
		Repo:     numberingrepository.NewRepository(db),
		Invoices: invoicerepository.NewNumberIndex(invoiceRepo),
	})

	calculator := taxservice.NewCalculator(taxservice.CalculatorParam{
		Log:    zap.NewNop(),
		Source: taxdomain.NewStaticSource(),
	})

	svc := NewService(ServiceParam{
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fake,
		Repo:      invoiceRepo,
		Numbering: numberingSvc,
		Tax:       calculator,
	})
	return svc, db
}

func testClock() *clock.FakeClock {
	return clock.NewFakeClock(time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC))
}

func TestCreateAllocatesNumberAndComputesTax(t *testing.T) {
	svc, _ := setupInvoiceService(t, testClock())

	inv, err := svc.Create(context.Background(), invoicedomain.CreateRequest{
		TenantID:     snowflake.ID(1),
		ClientID:     snowflake.ID(2),
		Jurisdiction: "USA-WY",
		Subtotal:     decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	assert.Equal(t, "WY-INV-2025-00001", inv.InvoiceNumber)
	assert.Equal(t, invoicedomain.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, "USD", inv.Currency)
	assert.True(t, inv.TaxRate.Equal(decimal.NewFromFloat(5.0)), "tax rate %s", inv.TaxRate)
	assert.True(t, inv.TaxAmount.Equal(decimal.NewFromInt(50)), "tax amount %s", inv.TaxAmount)
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(1050)), "total %s", inv.Total)

	require.NotNil(t, inv.DueAt)
	assert.Equal(t, testClock().Now().AddDate(0, 0, 30), inv.DueAt.UTC())
}

func TestCreateSequentialNumbers(t *testing.T) {
	svc, _ := setupInvoiceService(t, testClock())
	tenant := snowflake.ID(10)

	for i := 1; i <= 3; i++ {
		inv, err := svc.Create(context.Background(), invoicedomain.CreateRequest{
			TenantID:     tenant,
			ClientID:     snowflake.ID(2),
			Jurisdiction: "ESP",
			Subtotal:     decimal.NewFromInt(100),
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("WY-INV-2025-%05d", i), inv.InvoiceNumber)
	}
}

func TestCreateWithManualNumber(t *testing.T) {
	svc, db := setupInvoiceService(t, testClock())
	manual := "CUSTOM-2025-1"

	inv, err := svc.Create(context.Background(), invoicedomain.CreateRequest{
		TenantID:     snowflake.ID(1),
		ClientID:     snowflake.ID(2),
		Jurisdiction: "ESP",
		Subtotal:     decimal.NewFromInt(100),
		ManualNumber: &manual,
	})
	require.NoError(t, err)
	assert.Equal(t, manual, inv.InvoiceNumber)

	// The manual number did not advance the tenant counter.
	var states int64
	require.NoError(t, db.Model(&numberingdomain.NumberingState{}).Count(&states).Error)
	assert.Equal(t, int64(0), states)
}

func TestCreateManualNumberDuplicate(t *testing.T) {
	svc, _ := setupInvoiceService(t, testClock())
	manual := "DUP-001"

	_, err := svc.Create(context.Background(), invoicedomain.CreateRequest{
		TenantID:     snowflake.ID(1),
		ClientID:     snowflake.ID(2),
		Jurisdiction: "ESP",
		Subtotal:     decimal.NewFromInt(100),
		ManualNumber: &manual,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), invoicedomain.CreateRequest{
		TenantID:     snowflake.ID(7),
		ClientID:     snowflake.ID(2),
		Jurisdiction: "ESP",
		Subtotal:     decimal.NewFromInt(100),
		ManualNumber: &manual,
	})
	assert.ErrorIs(t, err, numberingdomain.ErrDuplicateNumber)
}

func TestCreateManualNumberInvalidFormat(t *testing.T) {
	svc, _ := setupInvoiceService(t, testClock())
	manual := "no digits!"

	_, err := svc.Create(context.Background(), invoicedomain.CreateRequest{
		TenantID:     snowflake.ID(1),
		ClientID:     snowflake.ID(2),
		Jurisdiction: "ESP",
		Subtotal:     decimal.NewFromInt(100),
		ManualNumber: &manual,
	})
	var vErr *numberingdomain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCreateUnknownJurisdictionChargesZeroTax(t *testing.T) {
	svc, _ := setupInvoiceService(t, testClock())

	inv, err := svc.Create(context.Background(), invoicedomain.CreateRequest{
		TenantID:     snowflake.ID(1),
		ClientID:     snowflake.ID(2),
		Jurisdiction: "XXX",
		Subtotal:     decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	assert.True(t, inv.TaxAmount.IsZero())
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(500)))
}

func TestStatusTransitions(t *testing.T) {
	svc, _ := setupInvoiceService(t, testClock())
	tenant := snowflake.ID(1)

	inv, err := svc.Create(context.Background(), invoicedomain.CreateRequest{
		TenantID:     tenant,
		ClientID:     snowflake.ID(2),
		Jurisdiction: "ESP",
		Subtotal:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// Draft cannot be paid.
	_, err = svc.MarkPaid(context.Background(), tenant, inv.ID)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidStatus)

	sent, err := svc.MarkSent(context.Background(), tenant, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusSent, sent.Status)

	// Sending twice is rejected.
	_, err = svc.MarkSent(context.Background(), tenant, inv.ID)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidStatus)

	paid, err := svc.MarkPaid(context.Background(), tenant, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)
}

func TestCheckInvoiceFlipsPastDueToOverdue(t *testing.T) {
	fake := testClock()
	svc, _ := setupInvoiceService(t, fake)
	tenant := snowflake.ID(1)

	due := fake.Now().AddDate(0, 0, 10)
	inv, err := svc.Create(context.Background(), invoicedomain.CreateRequest{
		TenantID:     tenant,
		ClientID:     snowflake.ID(2),
		Jurisdiction: "ESP",
		Subtotal:     decimal.NewFromInt(100),
		DueAt:        &due,
	})
	require.NoError(t, err)
	_, err = svc.MarkSent(context.Background(), tenant, inv.ID)
	require.NoError(t, err)

	window := 7 * 24 * time.Hour

	// Ten days out: nothing to do yet.
	res, err := svc.CheckInvoice(context.Background(), tenant, inv.ID, window)
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.False(t, res.ReminderDue)

	// Inside the reminder window but not past due.
	fake.Advance(5 * 24 * time.Hour)
	res, err = svc.CheckInvoice(context.Background(), tenant, inv.ID, window)
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.True(t, res.ReminderDue)
	assert.Equal(t, invoicedomain.InvoiceStatusSent, res.CurrentStatus)

	// Past due: flips to overdue.
	fake.Advance(6 * 24 * time.Hour)
	res, err = svc.CheckInvoice(context.Background(), tenant, inv.ID, window)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Equal(t, invoicedomain.InvoiceStatusSent, res.PreviousStatus)
	assert.Equal(t, invoicedomain.InvoiceStatusOverdue, res.CurrentStatus)
	assert.True(t, res.ReminderDue)
}

func TestGetByIDScopedToTenant(t *testing.T) {
	svc, _ := setupInvoiceService(t, testClock())

	inv, err := svc.Create(context.Background(), invoicedomain.CreateRequest{
		TenantID:     snowflake.ID(1),
		ClientID:     snowflake.ID(2),
		Jurisdiction: "ESP",
		Subtotal:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), snowflake.ID(9), inv.ID)
	assert.ErrorIs(t, err, invoicedomain.ErrNotFound)
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _ := setupInvoiceService(t, testClock())
	tenant := snowflake.ID(1)

	first, err := svc.Create(context.Background(), invoicedomain.CreateRequest{
		TenantID:     tenant,
		ClientID:     snowflake.ID(2),
		Jurisdiction: "ESP",
		Subtotal:     decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), invoicedomain.CreateRequest{
		TenantID:     tenant,
		ClientID:     snowflake.ID(2),
		Jurisdiction: "ESP",
		Subtotal:     decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	_, err = svc.MarkSent(context.Background(), tenant, first.ID)
	require.NoError(t, err)

	sent := invoicedomain.InvoiceStatusSent
	got, err := svc.List(context.Background(), tenant, invoicedomain.ListFilter{Status: &sent})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)
}
