package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"organicfoods/internal/catalog"
	"organicfoods/internal/domain"
	"organicfoods/internal/log"
	"organicfoods/internal/validate"
)

// FeaturedCount is how many products the home page asks for.
const FeaturedCount = 8

type ProductHandler struct {
	Catalog catalog.Source
}

func (h *ProductHandler) Home(c *fiber.Ctx) error {
	l := catalog.Load(c.UserContext(), func(ctx context.Context) ([]domain.Product, error) {
		return h.Catalog.ListFeatured(ctx, FeaturedCount)
	})
	return h.listing(c, "home", l, fiber.Map{})
}

// List shows every product, optionally narrowed to one category.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	data := fiber.Map{}
	var category string
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		var ok bool
		if category, ok = validate.Category(raw); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			c.Status(fiber.StatusBadRequest)
			return render(c, "products", fiber.Map{
				"Listing": catalog.Listing{State: catalog.StateEmpty}, "Err": "Invalid category",
			})
		}
		data["Category"] = category
	}
	l := catalog.Load(c.UserContext(), h.Catalog.ListProducts)
	if category != "" {
		l = l.Filter(catalog.InCategory(category))
	}
	return h.listing(c, "products", l, data)
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, "Product not found")
	}
	d := catalog.LoadDetail(c.UserContext(), h.Catalog, id)
	switch d.State {
	case catalog.DetailNotFound:
		log.Info(c, "product.notfound", map[string]any{"id": id.String()})
		return notFound(c, "Product not found")
	case catalog.DetailError:
		log.Error(c, "catalog.fetch.fail", d.Err, map[string]any{"id": id.String()})
		return unavailable(c, "We could not load this product. Please try again.")
	}
	return render(c, "product", fiber.Map{"P": d.Product})
}

func (h *ProductHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		// initial page load: show the box without results or errors
		return render(c, "search", fiber.Map{"Q": ""})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
		c.Status(fiber.StatusBadRequest)
		return render(c, "search", fiber.Map{"Q": "", "Err": "Enter a valid keyword (letters/numbers only)"})
	}
	l := catalog.Load(c.UserContext(), h.Catalog.ListProducts).Filter(catalog.Matching(q))
	return h.listing(c, "search", l, fiber.Map{"Q": q})
}

// API returns the listing state as JSON so scripts can tell an error from an empty catalog.
func (h *ProductHandler) API(c *fiber.Ctx) error {
	l := catalog.Load(c.UserContext(), h.Catalog.ListProducts)
	if l.State == catalog.StateError {
		log.Error(c, "catalog.fetch.fail", l.Err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"state": l.State, "products": []domain.Product{}, "error": "catalog unavailable",
		})
	}
	products := l.Products
	if products == nil {
		products = []domain.Product{}
	}
	return c.JSON(fiber.Map{"state": l.State, "products": products})
}

func (h *ProductHandler) listing(c *fiber.Ctx, tmpl string, l catalog.Listing, data fiber.Map) error {
	data["Listing"] = l
	if l.State == catalog.StateError {
		log.Error(c, "catalog.fetch.fail", l.Err, map[string]any{"view": tmpl})
		c.Status(fiber.StatusBadGateway)
	}
	return render(c, tmpl, data)
}
