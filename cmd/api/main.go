package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventory-tracker/internal/application/auth"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventory-tracker/internal/infrastructure/pdf"
	infraredis "github.com/jhoicas/inventory-tracker/internal/infrastructure/redis"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/storage"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/inventory-tracker/internal/interfaces/http"
	"github.com/jhoicas/inventory-tracker/pkg/config"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
	"github.com/jhoicas/inventory-tracker/pkg/telemetry"
)

const swaggerFile = "./docs/swagger.json"

// @title                      Inventory Tracker API
// @version                    1.0
// @BasePath                   /
// @securityDefinitions.apikey Bearer
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar trazas")
	}

	backend, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer backend.Close()
	if cfg.DB.AutoMigrate {
		if err := backend.Migrate(ctx, "up", log.Named("migrations")); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
	}

	rdb := infraredis.New(cfg.Redis)
	if err := infraredis.Ping(ctx, rdb); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
	}
	defer rdb.Close()
	sessions := infraredis.NewSessionStore(rdb, log.Named("sessions"))

	m := metrics.New()
	store := inventory.NewStore(backend.Docs, log.Named("inventory"), inventory.WithObserver(m))
	views := inventory.NewViews(cfg.Inventory.ViewIdle)
	exports := inventory.NewExportUseCase(store, infrapdf.NewMarotoReport(), xmlexport.NewExporter())
	authUC := auth.NewAuthUseCase(backend.Users, sessions, sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Named("auth"))

	// Sin WriteTimeout: los streams SSE de sesión son de larga duración.
	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventory Tracker API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.DB.Driver}
		if err := infraredis.Ping(c.Context(), rdb); err != nil {
			status["status"] = "degraded"
			status["redis"] = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		return c.JSON(status)
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:   authUC,
		Provider: sessions,
		Store:    store,
		Views:    views,
		Exports:  exports,
		PageSize: cfg.Inventory.PageSize,
		Streams:  m,
		Log:      log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
