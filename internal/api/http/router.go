package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/package-service/internal/api/http/handlers"
	"github.com/spec-kit/package-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Catalog     *handlers.CatalogHandler
	Packages    *handlers.PackagesHandler
	Operators   *auth.OperatorMiddleware
	Idempotency fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	idempotent := cfg.Idempotency
	if idempotent == nil {
		idempotent = func(c *fiber.Ctx) error { return c.Next() }
	}

	catalog := app.Group("/catalog", cfg.Operators.Handle)
	catalog.Get("/products", cfg.Catalog.ListProducts)
	catalog.Get("/providers", cfg.Catalog.ListProviders)

	packages := app.Group("/packages", cfg.Operators.Handle)
	packages.Post("/validate", cfg.Packages.ValidatePackage)
	packages.Post("/", idempotent, cfg.Packages.CreatePackage)
	packages.Get("/", cfg.Packages.ListPackages)
	packages.Get("/:id", cfg.Packages.GetPackage)
	packages.Get("/:id/ticket", cfg.Packages.GetTicket)
	packages.Post("/:id/status", cfg.Packages.ChangeStatus)
	packages.Delete("/:id", cfg.Packages.DeletePackage)
}
