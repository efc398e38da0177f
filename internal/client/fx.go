package client

import (
	"github.com/facturo/facturo/internal/client/repository"
	"github.com/facturo/facturo/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
