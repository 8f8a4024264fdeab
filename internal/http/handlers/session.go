package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"organicfoods/internal/cart"
)

const sidCookie = "sid"

// ensureSID returns the browsing session id, issuing a cookie on the first visit.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies(sidCookie)
	if !validSID(sid) {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     sidCookie,
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
		// later reads in this request see the new session
		c.Request().Header.SetCookie(sidCookie, sid)
	}
	return sid
}

func validSID(sid string) bool {
	_, err := uuid.Parse(sid)
	return err == nil
}

func storeFor(c *fiber.Ctx, sessions *cart.Sessions) *cart.Store {
	return sessions.Get(ensureSID(c))
}
