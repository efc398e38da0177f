package server

import (
	"net/http"
	"strings"

	clientdomain "github.com/facturo/facturo/internal/client/domain"
	"github.com/gin-gonic/gin"
)

type createClientRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Company *string `json:"company,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (s *Server) CreateClient(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.clientSvc.Create(c.Request.Context(), &clientdomain.Client{
		TenantID: tenant,
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Company:  req.Company,
		Address:  req.Address,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) ListClients(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	clients, err := s.clientSvc.List(c.Request.Context(), tenant)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": clients})
}

func (s *Server) GetClientByID(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := s.clientSvc.GetByID(c.Request.Context(), tenant, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}
