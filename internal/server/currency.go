package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type convertRequest struct {
	Amount string `json:"amount"`
	From   string `json:"from"`
	To     string `json:"to"`
}

func (s *Server) ListCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.currencySvc.SupportedCurrencies()})
}

func (s *Server) ConvertAmount(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		AbortWithError(c, newValidationError("amount", "invalid_amount", "invalid amount"))
		return
	}

	from := strings.ToUpper(strings.TrimSpace(req.From))
	to := strings.ToUpper(strings.TrimSpace(req.To))
	if from == "" || to == "" {
		AbortWithError(c, newValidationError("currency", "required", "from and to are required"))
		return
	}

	converted, err := s.currencySvc.Convert(c.Request.Context(), amount, from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"amount":    converted,
		"formatted": s.currencySvc.FormatAmount(converted, to),
		"currency":  to,
	}})
}
