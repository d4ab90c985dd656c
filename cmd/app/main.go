package main

import (
	"context"

	"sarana/config"
	"sarana/di"
	"sarana/helper"
	"sarana/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title						Sarana API
// @version					1.0
// @description				Reservation and approval of church assets, rooms and vehicles.
// @BasePath					/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Run(cfg, "up"); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	app := di.InitializeService()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app.Dispatcher.Start(ctx)

	if err := app.Scheduler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	app.HTTP.OnShutdown(func(context.Context) {
		app.Scheduler.Stop()
		app.Dispatcher.Stop()
		cancel()
	})

	app.HTTP.Serve()
}
