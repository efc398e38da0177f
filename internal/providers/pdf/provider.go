package pdf

import (
	"context"
	"io"
)

// InvoiceData is the render-ready view of an invoice. Amounts arrive
// pre-formatted with their currency symbol.
type InvoiceData struct {
	BusinessName  string
	BusinessEmail string

	InvoiceNumber string
	Status        string
	IssueDate     string
	DueDate       string

	BillToName    string
	BillToCompany string
	BillToEmail   string

	Jurisdiction string
	Subtotal     string
	TaxRate      string
	TaxAmount    string
	Total        string

	Notes string
}

type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error) {
	return nil, nil
}
