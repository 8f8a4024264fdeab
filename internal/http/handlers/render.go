package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"organicfoods/internal/cart"
	applog "organicfoods/internal/log"
)

// Locals keys shared with the middleware chain.
const (
	LocalCSRF     = "CSRFToken"
	LocalSessions = "sessions"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if tok := csrfToken(c); tok != "" {
		data["CSRFToken"] = tok
	}
	if _, ok := data["CartCount"]; !ok {
		if s, ok := c.Locals(LocalSessions).(*cart.Sessions); ok {
			if sid := c.Cookies(sidCookie); validSID(sid) {
				if store, ok := s.Peek(sid); ok {
					data["CartCount"] = store.Count()
				}
			}
		}
	}
	return c.Render(tmpl, data)
}

// csrfToken prefers the token the middleware handed over, then the cookie it just issued,
// then the one the browser sent.
func csrfToken(c *fiber.Ctx) string {
	if tok, _ := c.Locals(LocalCSRF).(string); tok != "" {
		return tok
	}
	var ck fasthttp.Cookie
	ck.SetKey("csrf_")
	if c.Response().Header.Cookie(&ck) && len(ck.Value()) > 0 {
		return string(ck.Value())
	}
	return c.Cookies("csrf_")
}

// page renders a message page with status; it is the only way handlers show failures.
func page(c *fiber.Ctx, status int, tmpl, msg string) error {
	if err := c.Status(status).Render(tmpl, fiber.Map{"Message": msg}); err != nil {
		applog.Error(c, "render.fail", err, map[string]any{"template": tmpl})
		return c.Status(status).SendString(msg)
	}
	return nil
}

func notFound(c *fiber.Ctx, msg string) error {
	return page(c, fiber.StatusNotFound, "notfound", msg)
}

func unavailable(c *fiber.Ctx, msg string) error {
	return page(c, fiber.StatusBadGateway, "error", msg)
}
