package domain

import "github.com/shopspring/decimal"

// JurisdictionSource resolves jurisdiction codes to their tax configuration.
// The default source is a compiled-in table; the interface exists so it can
// be swapped for a configuration-driven table without touching the math.
type JurisdictionSource interface {
	Lookup(code string) (Jurisdiction, bool)
	Codes() []string
}

// Calculator computes tax for a subtotal in a jurisdiction.
//
// Calculate never fails: an unknown jurisdiction yields a zero-tax result
// with Total == Subtotal. Callers that require a known jurisdiction must
// check the code against the JurisdictionSource themselves.
type Calculator interface {
	Calculate(subtotal decimal.Decimal, jurisdictionCode string) Calculation
}
