package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type taxQuoteRequest struct {
	Jurisdiction string `json:"jurisdiction"`
	Subtotal     string `json:"subtotal"`
}

func (s *Server) QuoteTax(c *gin.Context) {
	var req taxQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	subtotal, err := decimal.NewFromString(strings.TrimSpace(req.Subtotal))
	if err != nil {
		AbortWithError(c, newValidationError("subtotal", "invalid_amount", "invalid subtotal"))
		return
	}

	calc := s.taxSvc.Calculate(subtotal, strings.TrimSpace(req.Jurisdiction))
	c.JSON(http.StatusOK, gin.H{"data": calc})
}

func (s *Server) ListJurisdictions(c *gin.Context) {
	codes := s.taxSource.Codes()

	type jurisdictionView struct {
		Code    string `json:"code"`
		Country string `json:"country"`
		State   string `json:"state,omitempty"`
		Regime  string `json:"regime"`
	}

	items := make([]jurisdictionView, 0, len(codes))
	for _, code := range codes {
		j, ok := s.taxSource.Lookup(code)
		if !ok {
			continue
		}
		items = append(items, jurisdictionView{
			Code:    j.Code,
			Country: j.Country,
			State:   j.State,
			Regime:  string(j.Regime),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}
