package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"organicfoods/internal/http/handlers"
	applog "organicfoods/internal/log"
	"organicfoods/internal/repos"
)

// NewCatalogd serves products from repo as JSON.
func NewCatalogd(repo *repos.ProductRepo) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: jsonErrors})
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: applog.Writer()}))
	app.Use(tracing)

	h := &handlers.CatalogAPIHandler{Products: repo}
	app.Get("/products", h.List)
	app.Get("/products/:id", h.Get)
	app.Get("/categories", h.Categories)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	return app
}
