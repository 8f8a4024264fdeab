package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	"organicfoods/internal/cart"
	"organicfoods/internal/catalog"
	"organicfoods/internal/checkout"
	"organicfoods/internal/config"
	"organicfoods/internal/http/handlers"
	applog "organicfoods/internal/log"
	"organicfoods/web"
)

// Limits a test may tighten.
type Limits struct {
	PerMinute       int
	SearchPerMinute int
}

var DefaultLimits = Limits{PerMinute: 60, SearchPerMinute: 20}

// NewViews builds the template engine over the embedded templates.
func NewViews() *html.Engine {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")
	engine.AddFunc("money", func(d decimal.Decimal) string { return d.StringFixed(2) })
	return engine
}

func NewStorefront(cfg config.Storefront, src catalog.Source, sessions *cart.Sessions, flow *checkout.Flow, lim Limits) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        NewViews(),
		ErrorHandler: pageErrors,
		BodyLimit:    1 << 20, // 1 MiB
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: applog.Writer()}))
	// product images come from the catalog's own hosts
	app.Use(helmet.New(helmet.Config{CrossOriginEmbedderPolicy: "unsafe-none"}))
	app.Use(tracing)
	app.Use(limiter.New(limiter.Config{
		Max:        lim.PerMinute,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(string(c.Request().URI().Path()), "/static/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.hit", nil)
			return c.SendStatus(fiber.StatusTooManyRequests)
		},
	}))
	if cfg.CSRF {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "form:csrf",
			CookieName:     "csrf_",
			CookieSameSite: "Lax",
			CookieSecure:   false, // set true behind HTTPS
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
				return c.Status(fiber.StatusForbidden).Render("error", fiber.Map{
					"Message": "Security check failed. Please refresh and try again.",
				})
			},
		}))
	}
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok && tok != "" {
			c.Locals(handlers.LocalCSRF, tok)
		}
		c.Locals(handlers.LocalSessions, sessions)
		return c.Next()
	})

	// ---------- Static assets ----------
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(web.Static()),
		MaxAge: 3600,
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(src, sessions, flow)

	app.Get("/", deps.ProductHandler.Home)
	app.Get("/products", deps.ProductHandler.List)
	app.Get("/product/:id", deps.ProductHandler.Detail)
	app.Get("/search", limiter.New(limiter.Config{Max: lim.SearchPerMinute, Expiration: time.Minute}), deps.ProductHandler.Search)

	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Get("/checkout", deps.CheckoutHandler.Form)
	app.Post("/checkout", deps.CheckoutHandler.Place)

	api := app.Group("/api/v1")
	api.Get("/cart", deps.CartHandler.API)
	api.Get("/products", deps.ProductHandler.API)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	return app
}
