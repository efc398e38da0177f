package migration

import (
	clientdomain "github.com/facturo/facturo/internal/client/domain"
	invoicedomain "github.com/facturo/facturo/internal/invoice/domain"
	numberingdomain "github.com/facturo/facturo/internal/numbering/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		if conn.Dialector.Name() != "postgres" {
			// Non-postgres (sqlite in local setups) has no migrate driver
			// wired; let gorm derive the schema from the models.
			return conn.AutoMigrate(
				&clientdomain.Client{},
				&numberingdomain.NumberingState{},
				&invoicedomain.Invoice{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
