package domain

import "github.com/shopspring/decimal"

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Built-in jurisdiction table. Fixed at process start; no runtime mutation.
var builtinJurisdictions = map[string]Jurisdiction{
	"USA-WY": {
		Code:     "USA-WY",
		Country:  "USA",
		State:    "WY",
		Regime:   RegimeSalesTax,
		SalesTax: pct("4.0"),
		LocalTax: pct("1.0"),
	},
	"ESP": {
		Code:    "ESP",
		Country: "ESP",
		Regime:  RegimeVAT,
		VAT:     pct("21.0"),
	},
	"ARG": {
		Code:        "ARG",
		Country:     "ARG",
		Regime:      RegimeMixed,
		VAT:         pct("21.0"),
		Perceptions: []decimal.Decimal{pct("2.5")},
	},
	"MEX": {
		Code:    "MEX",
		Country: "MEX",
		Regime:  RegimeVAT,
		VAT:     pct("16.0"),
	},
}

type staticSource struct{}

// NewStaticSource returns the compiled-in jurisdiction table.
func NewStaticSource() JurisdictionSource { return staticSource{} }

func (staticSource) Lookup(code string) (Jurisdiction, bool) {
	j, ok := builtinJurisdictions[code]
	return j, ok
}

func (staticSource) Codes() []string {
	codes := make([]string, 0, len(builtinJurisdictions))
	for code := range builtinJurisdictions {
		codes = append(codes, code)
	}
	return codes
}
