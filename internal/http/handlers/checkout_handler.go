package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"organicfoods/internal/cart"
	"organicfoods/internal/checkout"
	applog "organicfoods/internal/log"
)

type CheckoutHandler struct {
	Sessions *cart.Sessions
	Flow     *checkout.Flow
}

func (h *CheckoutHandler) Form(c *fiber.Ctx) error {
	snap := storeFor(c, h.Sessions).Snapshot()
	return render(c, "checkout", fiber.Map{
		"Cart":      snap,
		"CartCount": snap.Count,
		"Buyer":     checkout.Buyer{},
		"Errors":    map[string]string{},
	})
}

func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	store := storeFor(c, h.Sessions)
	buyer := checkout.Buyer{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Address: c.FormValue("address"),
	}

	o, err := h.Flow.Place(c.UserContext(), store, buyer)
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, f)
		}
		applog.Security(c, "validation.fail", map[string]any{"fields": fields})
		return h.formAgain(c, store, buyer, verr.Fields, "")
	case errors.Is(err, checkout.ErrEmptyCart):
		return h.formAgain(c, store, buyer, nil, "Your cart is empty. Add a product before placing an order; empty orders are not submitted.")
	case err != nil:
		applog.Error(c, "order.place.fail", err, nil)
		return unavailable(c, "We could not place your order. Your cart has been kept; please try again.")
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID.String(),
		"count":    len(o.Items),
		"total":    o.Total.StringFixed(2),
	})
	return render(c, "thanks", fiber.Map{"Order": o, "CartCount": 0})
}

func (h *CheckoutHandler) formAgain(c *fiber.Ctx, store *cart.Store, b checkout.Buyer, errs map[string]string, msg string) error {
	snap := store.Snapshot()
	c.Status(fiber.StatusBadRequest)
	return render(c, "checkout", fiber.Map{
		"Cart":      snap,
		"CartCount": snap.Count,
		"Buyer":     b,
		"Errors":    errs,
		"Err":       msg,
	})
}
