package service

import (
	"testing"

	taxdomain "github.com/facturo/facturo/internal/tax/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCalculator(t *testing.T) taxdomain.Calculator {
	t.Helper()
	return NewCalculator(CalculatorParam{
		Log:    zap.NewNop(),
		Source: taxdomain.NewStaticSource(),
	})
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculate_SalesTaxWyoming(t *testing.T) {
	calc := newCalculator(t)

	result := calc.Calculate(dec("1000"), "USA-WY")

	assert.Equal(t, "5", result.TaxRate.String())
	assert.Equal(t, "50", result.TaxAmount.String())
	assert.Equal(t, "1050", result.Total.String())
	assert.Equal(t, "40", result.Breakdown.BaseAmount.String())
	assert.Equal(t, "10", result.Breakdown.LocalAmount.String())
}

func TestCalculate_VATSpain(t *testing.T) {
	calc := newCalculator(t)

	result := calc.Calculate(dec("100"), "ESP")

	assert.Equal(t, "21", result.TaxRate.String())
	assert.Equal(t, "21", result.TaxAmount.String())
	assert.Equal(t, "121", result.Total.String())
}

func TestCalculate_VATMexico(t *testing.T) {
	calc := newCalculator(t)

	result := calc.Calculate(dec("250"), "MEX")

	assert.Equal(t, "16", result.TaxRate.String())
	assert.Equal(t, "40", result.TaxAmount.String())
	assert.Equal(t, "290", result.Total.String())
}

func TestCalculate_MixedArgentina(t *testing.T) {
	calc := newCalculator(t)

	result := calc.Calculate(dec("200"), "ARG")

	// 21% VAT (42) + 2.5% perception (5)
	assert.Equal(t, "23.5", result.TaxRate.String())
	assert.Equal(t, "47", result.TaxAmount.String())
	assert.Equal(t, "247", result.Total.String())

	require.Len(t, result.Breakdown.Perceptions, 1)
	assert.Equal(t, "2.5", result.Breakdown.Perceptions[0].Rate.String())
	assert.Equal(t, "5", result.Breakdown.Perceptions[0].Amount.String())
	assert.Equal(t, "42", result.Breakdown.BaseAmount.String())
}

func TestCalculate_UnknownJurisdictionChargesZero(t *testing.T) {
	calc := newCalculator(t)

	result := calc.Calculate(dec("500"), "XXX")

	assert.True(t, result.TaxRate.IsZero())
	assert.True(t, result.TaxAmount.IsZero())
	assert.Equal(t, "500", result.Total.String())
	assert.Equal(t, "XXX", result.Jurisdiction)
}

func TestCalculate_RoundsOnceAtOutput(t *testing.T) {
	calc := newCalculator(t)

	// 5% of 10.01 is 0.5005; a single half-up rounding yields 0.50.
	result := calc.Calculate(dec("10.01"), "USA-WY")
	assert.Equal(t, "0.5", result.TaxAmount.String())

	// 5% of 10.10 is 0.505, rounded half-up once to 0.51. Rounding the
	// state (0.404) and local (0.101) components separately would give
	// 0.40 + 0.10 = 0.50 instead.
	result = calc.Calculate(dec("10.10"), "USA-WY")
	assert.Equal(t, "0.51", result.TaxAmount.String())
	assert.Equal(t, "10.61", result.Total.String())
}

func TestCalculate_NegativeSubtotalPropagates(t *testing.T) {
	calc := newCalculator(t)

	result := calc.Calculate(dec("-100"), "ESP")

	assert.Equal(t, "-21", result.TaxAmount.String())
	assert.Equal(t, "-121", result.Total.String())
}

func TestStaticSource_Codes(t *testing.T) {
	source := taxdomain.NewStaticSource()

	codes := source.Codes()
	assert.ElementsMatch(t, []string{"USA-WY", "ESP", "ARG", "MEX"}, codes)

	_, ok := source.Lookup("ESP")
	assert.True(t, ok)
	_, ok = source.Lookup("ZZZ")
	assert.False(t, ok)
}
