package server

import (
	"net/http"
	"strings"

	numberingdomain "github.com/facturo/facturo/internal/numbering/domain"
	"github.com/gin-gonic/gin"
)

type allocateRequest struct {
	Override *numberingdomain.FormatOverride `json:"override,omitempty"`
}

type bulkAllocateRequest struct {
	Count int `json:"count"`
}

type validateNumberRequest struct {
	InvoiceNumber string `json:"invoice_number"`
}

type updateConfigurationRequest struct {
	Prefix         *string `json:"prefix,omitempty"`
	StartingNumber *int64  `json:"starting_number,omitempty"`
}

func (s *Server) AllocateInvoiceNumber(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	var req allocateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	resp, err := s.numberingSvc.Allocate(c.Request.Context(), tenant, req.Override)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) BulkAllocateInvoiceNumbers(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	var req bulkAllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	numbers, err := s.numberingSvc.BulkAllocate(c.Request.Context(), tenant, req.Count)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"invoice_numbers": numbers}})
}

func (s *Server) PreviewInvoiceNumber(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	resp, err := s.numberingSvc.Preview(c.Request.Context(), tenant, nil)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ValidateInvoiceNumber(c *gin.Context) {
	var req validateNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result := s.numberingSvc.ValidateManualNumber(req.InvoiceNumber)
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) InvoiceNumberExists(c *gin.Context) {
	candidate := strings.TrimSpace(c.Query("invoice_number"))
	if candidate == "" {
		AbortWithError(c, newValidationError("invoice_number", "required", "invoice_number is required"))
		return
	}

	exists, err := s.numberingSvc.ExistsGlobally(c.Request.Context(), candidate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"exists": exists}})
}

func (s *Server) ResetNumbering(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	if err := s.numberingSvc.ResetForNewYear(c.Request.Context(), tenant); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"reset": true}})
}

func (s *Server) UpdateNumberingConfiguration(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	var req updateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := numberingdomain.ConfigurationUpdate{
		Prefix:         req.Prefix,
		StartingNumber: req.StartingNumber,
	}
	if err := s.numberingSvc.UpdateConfiguration(c.Request.Context(), tenant, update); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": true}})
}

func (s *Server) NumberingStats(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	stats, err := s.numberingSvc.Stats(c.Request.Context(), tenant)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
