package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	invoicedomain "github.com/facturo/facturo/internal/invoice/domain"
	"github.com/facturo/facturo/internal/providers/email"
	"github.com/facturo/facturo/internal/providers/pdf"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const businessName = "Facturo"

// notifyInvoiceSent emails the client that a new invoice was issued.
func (s *Server) notifyInvoiceSent(ctx context.Context, inv *invoicedomain.Invoice) {
	client, err := s.clientSvc.GetByID(ctx, inv.TenantID, inv.ClientID)
	if err != nil {
		s.log.Warn("client lookup failed for invoice notification",
			zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		return
	}

	dueDate := ""
	if inv.DueAt != nil {
		dueDate = inv.DueAt.Format("2006-01-02")
	}

	subject, body, err := email.BuildInvoiceEmail(email.InvoiceData{
		InvoiceNumber: inv.InvoiceNumber,
		ClientName:    client.Name,
		Total:         s.currencySvc.FormatAmount(inv.Total, inv.Currency),
		DueDate:       dueDate,
		BusinessName:  businessName,
	})
	if err != nil {
		s.log.Warn("failed to render invoice email",
			zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		return
	}

	if err := s.email.Send(ctx, []string{client.Email}, subject, body); err != nil {
		s.log.Warn("failed to send invoice email",
			zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
	}
}

func (s *Server) DownloadInvoicePDF(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.GetByID(c.Request.Context(), tenant, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	client, err := s.clientSvc.GetByID(c.Request.Context(), tenant, inv.ClientID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	issueDate := ""
	if inv.IssuedAt != nil {
		issueDate = inv.IssuedAt.Format("2006-01-02")
	}
	dueDate := ""
	if inv.DueAt != nil {
		dueDate = inv.DueAt.Format("2006-01-02")
	}

	company := ""
	if client.Company != nil {
		company = *client.Company
	}
	notes := ""
	if inv.Notes != nil {
		notes = *inv.Notes
	}

	doc, err := s.pdf.GenerateInvoice(c.Request.Context(), pdf.InvoiceData{
		BusinessName:  businessName,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        string(inv.Status),
		IssueDate:     issueDate,
		DueDate:       dueDate,
		BillToName:    client.Name,
		BillToCompany: company,
		BillToEmail:   client.Email,
		Jurisdiction:  inv.Jurisdiction,
		Subtotal:      s.currencySvc.FormatAmount(inv.Subtotal, inv.Currency),
		TaxRate:       inv.TaxRate.StringFixed(2),
		TaxAmount:     s.currencySvc.FormatAmount(inv.TaxAmount, inv.Currency),
		Total:         s.currencySvc.FormatAmount(inv.Total, inv.Currency),
		Notes:         notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if doc == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", inv.InvoiceNumber))
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, doc); err != nil {
		s.log.Warn("failed to stream invoice pdf",
			zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
	}
}
