// Package server assembles the storefront and catalog Fiber apps.
package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"organicfoods/internal/catalog"
	applog "organicfoods/internal/log"
)

var tracer = otel.Tracer("organicfoods/internal/http/server")

// tracing opens a server span per request and hands its context to handlers.
func tracing(c *fiber.Ctx) error {
	carrier := propagation.MapCarrier{}
	c.Request().Header.VisitAll(func(k, v []byte) {
		carrier.Set(string(k), string(v))
	})
	ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), carrier)
	ctx, span := tracer.Start(ctx, c.Method()+" "+c.Path(),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("http.method", utils.CopyString(c.Method()))))
	defer span.End()
	c.SetUserContext(ctx)

	err := c.Next()
	status := c.Response().StatusCode()
	span.SetAttributes(attribute.Int("http.status_code", status))
	if err != nil || status >= fiber.StatusInternalServerError {
		span.SetStatus(codes.Error, utils.StatusMessage(status))
	}
	return err
}

func statusOf(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, catalog.ErrFetch):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// pageErrors shows a friendly page and never leaks err to the client.
func pageErrors(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	applog.Error(c, "server.error", err, map[string]any{"code": code})

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": publicMessage(code)})
	}
	tmpl := "error"
	if code == fiber.StatusNotFound {
		tmpl = "notfound"
	}
	if rerr := c.Status(code).Render(tmpl, fiber.Map{"Message": publicMessage(code)}); rerr != nil {
		return c.Status(code).SendString(publicMessage(code))
	}
	return nil
}

// jsonErrors is the catalog service's variant of pageErrors.
func jsonErrors(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	applog.Error(c, "server.error", err, map[string]any{"code": code})
	return c.Status(code).JSON(fiber.Map{"error": publicMessage(code)})
}

func publicMessage(code int) string {
	switch {
	case code == fiber.StatusNotFound:
		return "Page not found"
	case code == fiber.StatusBadGateway:
		return "Our product catalog is unavailable right now. Please try again."
	case code >= 500:
		return "Something went wrong. Please try again."
	}
	return utils.StatusMessage(code)
}
