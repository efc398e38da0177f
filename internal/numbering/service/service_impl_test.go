package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/facturo/facturo/internal/clock"
	numberingdomain "github.com/facturo/facturo/internal/numbering/domain"
	"github.com/facturo/facturo/internal/numbering/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type indexStub struct {
	mu      sync.Mutex
	numbers map[string]bool
	total   int64
}

func newIndexStub() *indexStub {
	return &indexStub{numbers: map[string]bool{}}
}

func (s *indexStub) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numbers[number], nil
}

func (s *indexStub) CountByTenant(ctx context.Context, tenantID snowflake.ID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total, nil
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func setupNumberingService(t *testing.T, fake *clock.FakeClock, index *indexStub) (numberingdomain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	_ = db.Exec("PRAGMA busy_timeout = 5000").Error

	require.NoError(t, db.AutoMigrate(&numberingdomain.NumberingState{}))

	svc := NewService(ServiceParam{
		Log:      zap.NewNop(),
		GenID:    mustNode(t),
		Clock:    fake,
		Repo:     repository.NewRepository(db),
		Invoices: index,
	})
	return svc, db
}

func testClock() *clock.FakeClock {
	return clock.NewFakeClock(time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC))
}

func TestAllocateSequential(t *testing.T) {
	svc, _ := setupNumberingService(t, testClock(), newIndexStub())
	tenant := snowflake.ID(1001)

	first, err := svc.Allocate(context.Background(), tenant, nil)
	require.NoError(t, err)
	assert.Equal(t, "WY-INV-2025-00001", first.InvoiceNumber)
	assert.Equal(t, int64(2), first.NextNumber)
	assert.Equal(t, "WY-INV-YYYY-XXXXX", first.Format)

	second, err := svc.Allocate(context.Background(), tenant, nil)
	require.NoError(t, err)
	assert.Equal(t, "WY-INV-2025-00002", second.InvoiceNumber)
	assert.Equal(t, int64(3), second.NextNumber)
}

func TestAllocateLazyCreatesState(t *testing.T) {
	svc, db := setupNumberingService(t, testClock(), newIndexStub())
	tenant := snowflake.ID(1002)

	_, err := svc.Allocate(context.Background(), tenant, nil)
	require.NoError(t, err)

	var state numberingdomain.NumberingState
	require.NoError(t, db.Where("tenant_id = ?", tenant).First(&state).Error)
	assert.Equal(t, "WY-INV", state.Prefix)
	assert.Equal(t, int64(2), state.NextNumber)
	assert.Equal(t, "USD", state.DefaultCurrency)
	assert.Equal(t, 30, state.DefaultPaymentTerms)
	assert.True(t, state.DefaultTaxRate.IsZero())
}

func TestAllocateTenantsAreIndependent(t *testing.T) {
	svc, _ := setupNumberingService(t, testClock(), newIndexStub())

	a, err := svc.Allocate(context.Background(), snowflake.ID(2001), nil)
	require.NoError(t, err)
	b, err := svc.Allocate(context.Background(), snowflake.ID(2002), nil)
	require.NoError(t, err)

	assert.Equal(t, "WY-INV-2025-00001", a.InvoiceNumber)
	assert.Equal(t, "WY-INV-2025-00001", b.InvoiceNumber)
}

func TestAllocateWithOverride(t *testing.T) {
	svc, _ := setupNumberingService(t, testClock(), newIndexStub())
	tenant := snowflake.ID(1003)

	prefix := "ACME"
	noYear := false
	padding := 3
	res, err := svc.Allocate(context.Background(), tenant, &numberingdomain.FormatOverride{
		Prefix:        &prefix,
		IncludeYear:   &noYear,
		PaddingLength: &padding,
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME-001", res.InvoiceNumber)

	// An empty override prefix falls back to the stored one.
	empty := ""
	res, err = svc.Allocate(context.Background(), tenant, &numberingdomain.FormatOverride{Prefix: &empty})
	require.NoError(t, err)
	assert.Equal(t, "WY-INV-2025-00002", res.InvoiceNumber)
}

func TestAllocateInvalidTenant(t *testing.T) {
	svc, _ := setupNumberingService(t, testClock(), newIndexStub())

	_, err := svc.Allocate(context.Background(), 0, nil)
	assert.ErrorIs(t, err, numberingdomain.ErrInvalidTenant)
}

func TestAllocateConcurrent(t *testing.T) {
	svc, db := setupNumberingService(t, testClock(), newIndexStub())
	tenant := snowflake.ID(1004)

	const workers = 20
	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Allocate(context.Background(), tenant, nil)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = res.InvoiceNumber
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[results[i]], "duplicate number %s", results[i])
		seen[results[i]] = true
	}

	var state numberingdomain.NumberingState
	require.NoError(t, db.Where("tenant_id = ?", tenant).First(&state).Error)
	assert.Equal(t, int64(workers+1), state.NextNumber)
}

func TestBulkAllocateContiguous(t *testing.T) {
	svc, _ := setupNumberingService(t, testClock(), newIndexStub())
	tenant := snowflake.ID(1005)

	numbers, err := svc.BulkAllocate(context.Background(), tenant, 5)
	require.NoError(t, err)
	require.Len(t, numbers, 5)
	for i, n := range numbers {
		assert.Equal(t, fmt.Sprintf("WY-INV-2025-%05d", i+1), n)
	}

	// A following single allocation continues from the end of the block.
	res, err := svc.Allocate(context.Background(), tenant, nil)
	require.NoError(t, err)
	assert.Equal(t, "WY-INV-2025-00006", res.InvoiceNumber)
}

func TestBulkAllocateInvalidCount(t *testing.T) {
	svc, _ := setupNumberingService(t, testClock(), newIndexStub())

	_, err := svc.BulkAllocate(context.Background(), snowflake.ID(1006), 0)
	assert.ErrorIs(t, err, numberingdomain.ErrInvalidCount)

	_, err = svc.BulkAllocate(context.Background(), snowflake.ID(1006), -3)
	assert.ErrorIs(t, err, numberingdomain.ErrInvalidCount)
}

func TestPreviewDoesNotAdvance(t *testing.T) {
	svc, _ := setupNumberingService(t, testClock(), newIndexStub())
	tenant := snowflake.ID(1007)

	first, err := svc.Preview(context.Background(), tenant, nil)
	require.NoError(t, err)
	second, err := svc.Preview(context.Background(), tenant, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Preview, second.Preview)
	assert.Equal(t, "WY-INV-2025-00001", first.Preview)

	res, err := svc.Allocate(context.Background(), tenant, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Preview, res.InvoiceNumber)
}

func TestValidateManualNumber(t *testing.T) {
	svc, _ := setupNumberingService(t, testClock(), newIndexStub())

	valid := svc.ValidateManualNumber("INV-2025_001")
	assert.True(t, valid.Valid)
	assert.Empty(t, valid.Errors)

	empty := svc.ValidateManualNumber("")
	assert.False(t, empty.Valid)
	assert.Contains(t, empty.Errors, "invoice number cannot be empty")

	noDigit := svc.ValidateManualNumber("INVOICE")
	assert.False(t, noDigit.Valid)
	assert.Contains(t, noDigit.Errors, "invoice number should contain at least one digit")

	badChars := svc.ValidateManualNumber("INV 001!")
	assert.False(t, badChars.Valid)
	assert.Contains(t, badChars.Errors, "invoice number should only contain letters, numbers, hyphens, and underscores")

	long := svc.ValidateManualNumber("INV-" + fmt.Sprintf("%060d", 1))
	assert.False(t, long.Valid)
	assert.Contains(t, long.Errors, "invoice number cannot be longer than 50 characters")
}

func TestAllocatedNumbersPassValidation(t *testing.T) {
	svc, _ := setupNumberingService(t, testClock(), newIndexStub())
	tenant := snowflake.ID(1008)

	for i := 0; i < 5; i++ {
		res, err := svc.Allocate(context.Background(), tenant, nil)
		require.NoError(t, err)
		result := svc.ValidateManualNumber(res.InvoiceNumber)
		assert.True(t, result.Valid, "allocated number %q failed validation: %v", res.InvoiceNumber, result.Errors)
	}
}

func TestRegisterCustom(t *testing.T) {
	index := newIndexStub()
	index.numbers["TAKEN-001"] = true
	svc, _ := setupNumberingService(t, testClock(), index)
	tenant := snowflake.ID(1009)

	accepted, err := svc.RegisterCustom(context.Background(), tenant, "CUSTOM-042")
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM-042", accepted)

	_, err = svc.RegisterCustom(context.Background(), tenant, "TAKEN-001")
	assert.ErrorIs(t, err, numberingdomain.ErrDuplicateNumber)

	_, err = svc.RegisterCustom(context.Background(), tenant, "no digits here!")
	var vErr *numberingdomain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Violations)
}

func TestResetForNewYear(t *testing.T) {
	fake := testClock()
	svc, _ := setupNumberingService(t, fake, newIndexStub())
	tenant := snowflake.ID(1010)

	for i := 0; i < 3; i++ {
		_, err := svc.Allocate(context.Background(), tenant, nil)
		require.NoError(t, err)
	}

	require.NoError(t, svc.ResetForNewYear(context.Background(), tenant))
	fake.Set(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))

	res, err := svc.Allocate(context.Background(), tenant, nil)
	require.NoError(t, err)
	assert.Equal(t, "WY-INV-2026-00001", res.InvoiceNumber)
}

func TestResetForNewYearMissingState(t *testing.T) {
	svc, _ := setupNumberingService(t, testClock(), newIndexStub())

	err := svc.ResetForNewYear(context.Background(), snowflake.ID(9999))
	assert.ErrorIs(t, err, numberingdomain.ErrStateNotFound)
}

func TestUpdateConfiguration(t *testing.T) {
	svc, _ := setupNumberingService(t, testClock(), newIndexStub())
	tenant := snowflake.ID(1011)

	_, err := svc.Allocate(context.Background(), tenant, nil)
	require.NoError(t, err)

	prefix := "NEW"
	start := int64(100)
	require.NoError(t, svc.UpdateConfiguration(context.Background(), tenant, numberingdomain.ConfigurationUpdate{
		Prefix:         &prefix,
		StartingNumber: &start,
	}))

	res, err := svc.Allocate(context.Background(), tenant, nil)
	require.NoError(t, err)
	assert.Equal(t, "NEW-2025-00100", res.InvoiceNumber)
}

func TestStats(t *testing.T) {
	index := newIndexStub()
	index.total = 7
	svc, _ := setupNumberingService(t, testClock(), index)
	tenant := snowflake.ID(1012)

	for i := 0; i < 3; i++ {
		_, err := svc.Allocate(context.Background(), tenant, nil)
		require.NoError(t, err)
	}

	stats, err := svc.Stats(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.CurrentNumber)
	assert.Equal(t, int64(7), stats.TotalInvoices)
	assert.Equal(t, "WY-INV", stats.Prefix)
	assert.Equal(t, "WY-INV-2025-00004", stats.NextPreview)
}

func TestStatsMissingState(t *testing.T) {
	svc, _ := setupNumberingService(t, testClock(), newIndexStub())

	stats, err := svc.Stats(context.Background(), snowflake.ID(4040))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.CurrentNumber)
	assert.Equal(t, "WY-INV", stats.Prefix)
}
