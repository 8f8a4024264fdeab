package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"organicfoods/internal/cart"
	"organicfoods/internal/catalog"
	applog "organicfoods/internal/log"
	"organicfoods/internal/validate"
)

type CartHandler struct {
	Sessions *cart.Sessions
	Catalog  catalog.Source
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	snap := storeFor(c, h.Sessions).Snapshot()
	return render(c, "cart", fiber.Map{"Cart": snap, "CartCount": snap.Count})
}

// Add puts a snapshot of the product, as the catalog has it now, at the end of the cart.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	store := storeFor(c, h.Sessions)
	id, ok := validate.ProductID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing or invalid productId")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	switch {
	case errors.Is(err, catalog.ErrProductNotFound):
		return notFound(c, "Product not found")
	case err != nil:
		applog.Error(c, "catalog.fetch.fail", err, map[string]any{"id": id.String()})
		return unavailable(c, "We could not add this product right now. Please try again.")
	}
	store.Add(p)
	applog.Audit(c, "cart.add", map[string]any{"product_id": id.String(), "price": p.Price.StringFixed(2)})
	return c.Redirect("/cart")
}

// Remove drops every entry with the product id; an id not in the cart is a no-op.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	store := storeFor(c, h.Sessions)
	id, ok := validate.ProductID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing or invalid productId")
	}
	n := store.Remove(id)
	applog.Audit(c, "cart.remove", map[string]any{"product_id": id.String(), "removed": n})
	return c.Redirect("/cart")
}

// API backs the header badge.
func (h *CartHandler) API(c *fiber.Ctx) error {
	snap := storeFor(c, h.Sessions).Snapshot()
	return c.JSON(fiber.Map{
		"items": snap.Items,
		"count": snap.Count,
		"total": snap.Total.StringFixed(2),
	})
}
