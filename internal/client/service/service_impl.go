package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/facturo/facturo/internal/client/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  clientdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  clientdomain.Repository
}

func NewService(p ServiceParam) clientdomain.Service {
	return &Service{
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, client *clientdomain.Client) (*clientdomain.Client, error) {
	if client.TenantID == 0 {
		return nil, clientdomain.ErrInvalidTenant
	}
	if strings.TrimSpace(client.Name) == "" {
		return nil, clientdomain.ErrInvalidName
	}
	if !strings.Contains(client.Email, "@") {
		return nil, clientdomain.ErrInvalidEmail
	}

	client.ID = s.genID.Generate()
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) GetByID(ctx context.Context, tenantID, id snowflake.ID) (*clientdomain.Client, error) {
	client, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, clientdomain.ErrNotFound
	}
	return client, nil
}

func (s *Service) List(ctx context.Context, tenantID snowflake.ID) ([]clientdomain.Client, error) {
	return s.repo.List(ctx, tenantID)
}
