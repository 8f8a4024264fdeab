package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "organicfoods/internal/log"
	"organicfoods/internal/repos"
	"organicfoods/internal/validate"
)

// CatalogAPIHandler serves the product contract the storefront's catalog client reads.
type CatalogAPIHandler struct {
	Products *repos.ProductRepo
}

func (h *CatalogAPIHandler) List(c *fiber.Ctx) error {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			applog.Security(c, "validation.fail", map[string]any{"field": "limit"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid limit"})
		}
		limit = n
	}
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		var ok bool
		if category, ok = validate.Category(category); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "category"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category"})
		}
	}
	products, err := h.Products.List(c.UserContext(), limit, category)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *CatalogAPIHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	p, err := h.Products.Get(c.UserContext(), id)
	if errors.Is(err, repos.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *CatalogAPIHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Products.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(cats)
}
