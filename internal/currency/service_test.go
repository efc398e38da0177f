package currency

import (
	"context"
	"testing"
	"time"

	"github.com/facturo/facturo/internal/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() Service {
	return NewService(Params{
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)),
	})
}

func TestRateSamePairIsOne(t *testing.T) {
	svc := newTestService()

	rate, err := svc.Rate(context.Background(), "USD", "USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestConvertUsesFallbackTable(t *testing.T) {
	svc := newTestService()

	got, err := svc.Convert(context.Background(), decimal.NewFromInt(100), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "92", got.String())
}

func TestConvertUnknownPairIsIdentity(t *testing.T) {
	svc := newTestService()

	got, err := svc.Convert(context.Background(), decimal.NewFromInt(250), "USD", "GBP")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(250)))
}

func TestConvertRoundsToCents(t *testing.T) {
	svc := newTestService()

	got, err := svc.Convert(context.Background(), decimal.RequireFromString("33.335"), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, 2, int(-got.Exponent()))
}

func TestFormatAmount(t *testing.T) {
	svc := newTestService()

	assert.Equal(t, "$1050.00", svc.FormatAmount(decimal.NewFromInt(1050), "USD"))
	assert.Equal(t, "€121.00", svc.FormatAmount(decimal.NewFromInt(121), "EUR"))
	assert.Equal(t, "GBP10.50", svc.FormatAmount(decimal.RequireFromString("10.5"), "GBP"))
}

func TestSupportedCurrencies(t *testing.T) {
	svc := newTestService()
	assert.ElementsMatch(t, []string{"USD", "EUR", "ARS", "MXN"}, svc.SupportedCurrencies())
}
