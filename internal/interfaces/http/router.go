package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jhoicas/anbar-api/internal/application/dto"
	"github.com/jhoicas/anbar-api/internal/application/inventory"
	"github.com/jhoicas/anbar-api/internal/application/shopping"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog   *inventory.Catalog
	Ledger    *inventory.Ledger
	Importer  *inventory.Importer
	History   *inventory.History
	Dashboard *inventory.Dashboard
	Shopping  *shopping.UseCase
	Sequencer *shopping.Sequencer
	Changes   ChangeSource
	Gatherer  prometheus.Gatherer // nil = sin /metrics
	JWTSecret string              // vacío = API sin autenticación
	Logger    zerolog.Logger
}

// NewApp crea la aplicación Fiber con recover, manejador de errores y las rutas registradas.
func NewApp(name string, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ErrorHandler: errorHandler,
		IdleTimeout:  60 * time.Second,
	})
	app.Use(recover.New())
	Router(app, deps)
	return app
}

// Router registra las rutas.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	// Con JWT_SECRET: lectura para cualquier rol, escritura solo admin.
	read, write := fiber.Handler(next), fiber.Handler(next)
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
		read = RequireRole(RoleAdmin, RoleViewer)
		write = RequireRole(RoleAdmin)
	}

	parts := api.Group("/parts")
	partHandler := NewPartHandler(deps.Catalog, deps.Importer)
	parts.Get("/", read, partHandler.List)
	parts.Post("/", write, partHandler.Create)
	parts.Post("/import", write, partHandler.Import)
	parts.Get("/:id", read, partHandler.GetByID)
	parts.Put("/:id", write, partHandler.Update)
	parts.Delete("/:id", write, partHandler.Delete)

	txHandler := NewTransactionHandler(deps.Ledger, deps.History, deps.Dashboard)
	api.Post("/transactions", write, txHandler.Apply)
	api.Get("/transactions", read, txHandler.History)
	api.Get("/dashboard", read, txHandler.Dashboard)

	items := api.Group("/shopping-items")
	shopHandler := NewShoppingHandler(deps.Shopping, deps.Sequencer)
	items.Get("/", read, shopHandler.List)
	items.Post("/", write, shopHandler.Create)
	items.Get("/groups", read, shopHandler.Groups)
	items.Get("/stats", read, shopHandler.Stats)
	items.Get("/export", read, shopHandler.Export)
	items.Get("/export.pdf", read, shopHandler.ExportPDF)
	items.Put("/order", write, shopHandler.Reorder)
	items.Put("/:id", write, shopHandler.Update)
	items.Delete("/:id", write, shopHandler.Delete)
	items.Post("/:id/move", write, shopHandler.Move)

	if deps.Changes != nil {
		api.Get("/events", read, NewEventsHandler(deps.Changes, deps.Logger).Stream)
	}
}

func next(c *fiber.Ctx) error { return c.Next() }

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
