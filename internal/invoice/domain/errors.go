package domain

import "errors"

var (
	ErrInvalidTenant  = errors.New("invalid_tenant")
	ErrInvalidClient  = errors.New("invalid_client")
	ErrNotFound       = errors.New("invoice_not_found")
	ErrInvalidStatus  = errors.New("invalid_status_transition")
	ErrInvalidRequest = errors.New("invalid_request")
)
