package format

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPrefix        = "WY-INV"
	DefaultPaddingLength = 5
	DefaultSeparator     = "-"
)

// Config controls how an invoice number is rendered.
type Config struct {
	Prefix        string
	IncludeYear   bool
	PaddingLength int
	Separator     string
}

// DefaultConfig returns the stock rendering configuration:
// prefix, four-digit year, 5-digit zero-padded sequence, "-" separator.
func DefaultConfig(prefix string) Config {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Config{
		Prefix:        prefix,
		IncludeYear:   true,
		PaddingLength: DefaultPaddingLength,
		Separator:     DefaultSeparator,
	}
}

// Format renders an invoice number from a sequence value.
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic for a given issue time
//
// Parts are joined in order: prefix, four-digit year (when enabled),
// zero-padded sequence. E.g. prefix "INV", year 2025, seq 7, padding 5
// renders "INV-2025-00007".
func Format(seq int64, issuedAt time.Time, cfg Config) string {
	var parts []string

	if cfg.Prefix != "" {
		parts = append(parts, cfg.Prefix)
	}

	if cfg.IncludeYear {
		parts = append(parts, issuedAt.Format("2006"))
	}

	padding := cfg.PaddingLength
	if padding <= 0 {
		padding = DefaultPaddingLength
	}
	parts = append(parts, fmt.Sprintf("%0*d", padding, seq))

	return strings.Join(parts, cfg.Separator)
}

// Description renders a human-readable descriptor of the configured
// format, e.g. "WY-INV-YYYY-XXXXX".
func Description(cfg Config) string {
	var parts []string

	if cfg.Prefix != "" {
		parts = append(parts, cfg.Prefix)
	}

	if cfg.IncludeYear {
		parts = append(parts, "YYYY")
	}

	padding := cfg.PaddingLength
	if padding <= 0 {
		padding = DefaultPaddingLength
	}
	parts = append(parts, strings.Repeat("X", padding))

	return strings.Join(parts, cfg.Separator)
}
