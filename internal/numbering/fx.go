package numbering

import (
	"github.com/facturo/facturo/internal/numbering/repository"
	"github.com/facturo/facturo/internal/numbering/service"
	"go.uber.org/fx"
)

var Module = fx.Module("numbering.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
