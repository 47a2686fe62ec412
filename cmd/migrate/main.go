// Command migrate aplica las migraciones goose del almacén configurado en STORE_DRIVER.
//
//	migrate [up|down|status|version|redo|reset]
package main

import (
	"context"
	"os"

	"github.com/jhoicas/inventory-tracker/internal/infrastructure/storage"
	"github.com/jhoicas/inventory-tracker/pkg/config"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("migrate")

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory no tiene esquema, nada que migrar")
		return
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	err = backend.Migrate(ctx, command, log)
	backend.Close()
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migración fallida")
	}
	log.Info().Str("command", command).Str("driver", cfg.DB.Driver).Msg("migraciones completadas")
}
