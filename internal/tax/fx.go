package tax

import (
	"github.com/facturo/facturo/internal/tax/domain"
	"github.com/facturo/facturo/internal/tax/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tax.service",
	fx.Provide(domain.NewStaticSource),
	fx.Provide(service.NewCalculator),
)
