package service

import (
	taxdomain "github.com/facturo/facturo/internal/tax/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

type CalculatorParam struct {
	fx.In

	Log    *zap.Logger
	Source taxdomain.JurisdictionSource
}

type Calculator struct {
	log    *zap.Logger
	source taxdomain.JurisdictionSource
}

func NewCalculator(p CalculatorParam) taxdomain.Calculator {
	return &Calculator{
		log:    p.Log.Named("tax.calculator"),
		source: p.Source,
	}
}

// Calculate computes the tax amount and grand total for a subtotal.
//
// Rate and amount are rounded half-up to 2 decimals exactly once, on the
// final values; intermediate components stay unrounded so a mixed regime
// with several perceptions does not accumulate rounding error.
func (c *Calculator) Calculate(subtotal decimal.Decimal, jurisdictionCode string) taxdomain.Calculation {
	jur, ok := c.source.Lookup(jurisdictionCode)
	if !ok {
		// Deliberate fallback: unknown jurisdictions charge zero tax.
		c.log.Warn("unknown tax jurisdiction, charging zero tax",
			zap.String("jurisdiction", jurisdictionCode))
		return taxdomain.Calculation{
			Jurisdiction: jurisdictionCode,
			Subtotal:     subtotal,
			TaxRate:      decimal.Zero,
			TaxAmount:    decimal.Zero,
			Total:        subtotal,
		}
	}

	var (
		totalRate   decimal.Decimal
		totalAmount decimal.Decimal
		breakdown   taxdomain.Breakdown
	)

	switch jur.Regime {
	case taxdomain.RegimeSalesTax:
		stateAmount := subtotal.Mul(jur.SalesTax).Div(hundred)
		localAmount := subtotal.Mul(jur.LocalTax).Div(hundred)
		totalAmount = stateAmount.Add(localAmount)
		totalRate = jur.SalesTax.Add(jur.LocalTax)
		breakdown.BaseRate = jur.SalesTax
		breakdown.BaseAmount = stateAmount.Round(2)
		breakdown.LocalRate = jur.LocalTax
		breakdown.LocalAmount = localAmount.Round(2)

	case taxdomain.RegimeVAT:
		totalAmount = subtotal.Mul(jur.VAT).Div(hundred)
		totalRate = jur.VAT
		breakdown.BaseRate = jur.VAT
		breakdown.BaseAmount = totalAmount.Round(2)

	case taxdomain.RegimeMixed:
		vatAmount := subtotal.Mul(jur.VAT).Div(hundred)
		totalAmount = vatAmount
		totalRate = jur.VAT
		breakdown.BaseRate = jur.VAT
		breakdown.BaseAmount = vatAmount.Round(2)
		for _, rate := range jur.Perceptions {
			amount := subtotal.Mul(rate).Div(hundred)
			totalAmount = totalAmount.Add(amount)
			totalRate = totalRate.Add(rate)
			breakdown.Perceptions = append(breakdown.Perceptions, taxdomain.PerceptionLine{
				Rate:   rate,
				Amount: amount.Round(2),
			})
		}
	}

	taxRate := totalRate.Round(2)
	taxAmount := totalAmount.Round(2)
	breakdown.TotalRate = taxRate
	breakdown.TotalAmount = taxAmount

	return taxdomain.Calculation{
		Jurisdiction: jur.Code,
		Subtotal:     subtotal,
		TaxRate:      taxRate,
		TaxAmount:    taxAmount,
		Total:        subtotal.Add(taxAmount),
		Breakdown:    breakdown,
	}
}
