package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/facturo/facturo/internal/client"
	"github.com/facturo/facturo/internal/clock"
	"github.com/facturo/facturo/internal/config"
	"github.com/facturo/facturo/internal/currency"
	"github.com/facturo/facturo/internal/distlock"
	"github.com/facturo/facturo/internal/invoice"
	"github.com/facturo/facturo/internal/migration"
	"github.com/facturo/facturo/internal/numbering"
	"github.com/facturo/facturo/internal/providers/email"
	"github.com/facturo/facturo/internal/providers/pdf"
	"github.com/facturo/facturo/internal/scheduler"
	"github.com/facturo/facturo/internal/server"
	"github.com/facturo/facturo/internal/tax"
	"github.com/facturo/facturo/pkg/db"
	"github.com/facturo/facturo/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		distlock.Module,
		migration.Module,

		// Domains
		tax.Module,
		numbering.Module,
		client.Module,
		invoice.Module,
		currency.Module,

		// Outbound providers
		email.Module,
		pdf.Module,

		// Background jobs and HTTP surface
		scheduler.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
