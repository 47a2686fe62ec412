package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/auth"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC   *auth.AuthUseCase
	Provider repository.IdentityProvider
	Store    *inventory.Store
	Views    *inventory.Views
	Exports  *inventory.ExportUseCase
	PageSize int
	Streams  StreamObserver
	Log      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Views)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token con sesión abierta)
	requireSession := AuthMiddleware(deps.AuthUC)
	authGroup.Post("/logout", requireSession, authHandler.Logout)
	authGroup.Get("/me", requireSession, authHandler.Me)

	sessionHandler := NewSessionHandler(deps.Provider, deps.Views, deps.Streams, log.Named("session"))
	api.Get("/session/events", requireSession, sessionHandler.Events)

	invGroup := api.Group("/inventory", requireSession)
	inventoryHandler := NewInventoryHandler(deps.Store, deps.Views, deps.Exports, deps.PageSize, log.Named("inventory"))
	invGroup.Get("/", inventoryHandler.List)
	invGroup.Get("/export.pdf", inventoryHandler.ExportPDF)
	invGroup.Get("/export.xml", inventoryHandler.ExportXML)
	invGroup.Post("/items", inventoryHandler.Upsert)
	invGroup.Post("/items/:name/increment", inventoryHandler.Increment)
	invGroup.Delete("/items/:name", inventoryHandler.Remove)
}
