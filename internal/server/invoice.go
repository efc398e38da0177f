package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/facturo/facturo/internal/invoice/domain"
	numberingdomain "github.com/facturo/facturo/internal/numbering/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createInvoiceRequest struct {
	ClientID     string  `json:"client_id"`
	Jurisdiction string  `json:"jurisdiction"`
	Currency     string  `json:"currency"`
	Subtotal     string  `json:"subtotal"`
	DueAt        *string `json:"due_at,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	ManualNumber *string                         `json:"manual_number,omitempty"`
	Override     *numberingdomain.FormatOverride `json:"override,omitempty"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		AbortWithError(c, newValidationError("client_id", "invalid_id", "invalid client id"))
		return
	}

	subtotal, err := decimal.NewFromString(strings.TrimSpace(req.Subtotal))
	if err != nil {
		AbortWithError(c, newValidationError("subtotal", "invalid_amount", "invalid subtotal"))
		return
	}

	var dueAt *time.Time
	if req.DueAt != nil {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.DueAt))
		if err != nil {
			AbortWithError(c, newValidationError("due_at", "invalid_date", "due_at must be RFC 3339"))
			return
		}
		dueAt = &parsed
	}

	inv, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateRequest{
		TenantID:     tenant,
		ClientID:     clientID,
		Jurisdiction: strings.TrimSpace(req.Jurisdiction),
		Currency:     strings.TrimSpace(req.Currency),
		Subtotal:     subtotal,
		DueAt:        dueAt,
		Notes:        req.Notes,
		ManualNumber: req.ManualNumber,
		Override:     req.Override,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": inv})
}

func (s *Server) ListInvoices(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	var filter invoicedomain.ListFilter
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := invoicedomain.InvoiceStatus(strings.ToUpper(raw))
		filter.Status = &status
	}
	if raw := strings.TrimSpace(c.Query("client_id")); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("client_id", "invalid_id", "invalid client id"))
			return
		}
		filter.ClientID = &id
	}

	invoices, err := s.invoiceSvc.List(c.Request.Context(), tenant, filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) MarkInvoiceSent(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := s.invoiceSvc.MarkSent(c.Request.Context(), tenant, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Delivery is best effort; the status change already committed.
	s.notifyInvoiceSent(c.Request.Context(), inv)

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) MarkInvoicePaid(c *gin.Context) {
	s.transition(c, s.invoiceSvc.MarkPaid)
}

func (s *Server) transition(c *gin.Context, fn func(ctx context.Context, tenantID, id snowflake.ID) (*invoicedomain.Invoice, error)) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	inv, err := fn(c.Request.Context(), tenant, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) CheckInvoice(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	window := time.Duration(s.cfg.Scheduler.ReminderWindowDays) * 24 * time.Hour
	result, err := s.invoiceSvc.CheckInvoice(c.Request.Context(), tenant, id, window)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
