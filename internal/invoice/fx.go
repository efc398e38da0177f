package invoice

import (
	"github.com/facturo/facturo/internal/invoice/repository"
	"github.com/facturo/facturo/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(repository.NewNumberIndex),
	fx.Provide(service.NewService),
)
