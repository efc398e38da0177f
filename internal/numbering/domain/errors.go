package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTenant   = errors.New("invalid_tenant")
	ErrInvalidCount    = errors.New("invalid_count")
	ErrStateNotFound   = errors.New("numbering_state_not_found")
	ErrDuplicateNumber = errors.New("duplicate_invoice_number")
)

// ValidationError carries every format rule a manual invoice number
// violated, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid invoice number: %s", strings.Join(e.Violations, "; "))
}
