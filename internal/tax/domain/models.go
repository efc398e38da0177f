// Package domain contains the tax jurisdiction model and calculation results.
package domain

import "github.com/shopspring/decimal"

// Regime represents how a jurisdiction computes tax.
type Regime string

const (
	// RegimeSalesTax applies a state rate plus an optional local rate.
	RegimeSalesTax Regime = "SALES_TAX"
	// RegimeVAT applies a single value-added tax rate.
	RegimeVAT Regime = "VAT"
	// RegimeMixed applies VAT plus additional perception rates.
	RegimeMixed Regime = "MIXED"
)

// Jurisdiction is a tax-law region definition. Rates are percentages
// (4.0 means 4%), not fractions.
type Jurisdiction struct {
	Code    string
	Country string
	State   string
	Regime  Regime

	SalesTax    decimal.Decimal
	LocalTax    decimal.Decimal
	VAT         decimal.Decimal
	Perceptions []decimal.Decimal
}

// PerceptionLine is one perception component of a mixed-regime breakdown.
type PerceptionLine struct {
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown itemizes how the total tax was assembled.
type Breakdown struct {
	BaseRate    decimal.Decimal  `json:"base_rate"`
	BaseAmount  decimal.Decimal  `json:"base_amount"`
	LocalRate   decimal.Decimal  `json:"local_rate"`
	LocalAmount decimal.Decimal  `json:"local_amount"`
	Perceptions []PerceptionLine `json:"perceptions,omitempty"`
	TotalRate   decimal.Decimal  `json:"total_rate"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
}

// Calculation is the result of a tax computation.
type Calculation struct {
	Jurisdiction string          `json:"jurisdiction"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Total        decimal.Decimal `json:"total"`
	Breakdown    Breakdown       `json:"breakdown"`
}
