package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"organicfoods/internal/catalog"
	applog "organicfoods/internal/log"
)

// friendly error surface, no internal leakage
func TestErrorHandlerFriendlyMessage(t *testing.T) {
	old := applog.Writer()
	applog.SetOutput(io.Discard)
	defer applog.SetOutput(old)

	app := fiber.New(fiber.Config{Views: NewViews(), ErrorHandler: pageErrors})
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return errors.New("secret stack")
	})
	app.Get("/catalog", func(c *fiber.Ctx) error {
		return fmt.Errorf("load: %w", &catalog.FetchError{Op: "catalog.list", Kind: catalog.KindStatus, Status: 503})
	})

	cases := []struct {
		path string
		code int
		want string
	}{
		{"/err", 500, "Something went wrong"},
		{"/plain", 500, "Something went wrong"},
		{"/catalog", 502, "catalog is unavailable"},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		if err != nil {
			t.Fatalf("test request failed: %v", err)
		}
		if resp.StatusCode != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.code, resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		s := string(body)
		if !strings.Contains(s, tc.want) {
			t.Fatalf("%s: friendly message missing; body=%s", tc.path, s)
		}
		if strings.Contains(s, "secret") || strings.Contains(s, "503") {
			t.Fatalf("%s: internal details leaked to user; body=%s", tc.path, s)
		}
	}
}

func TestPublicMessage(t *testing.T) {
	for code, want := range map[int]string{
		404: "Page not found",
		413: "Request Entity Too Large",
		429: "Too Many Requests",
		500: "Something went wrong. Please try again.",
	} {
		if got := publicMessage(code); got != want {
			t.Errorf("publicMessage(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestTracingSpanKeepsMethodAfterRequest(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	app := fiber.New()
	app.Use(tracing)
	app.All("/x", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for _, m := range []string{"GET", "POST", "DELETE"} {
		if _, err := app.Test(httptest.NewRequest(m, "/x", nil)); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
	}

	spans := rec.Ended()
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}
	for i, want := range []string{"GET", "POST", "DELETE"} {
		got := ""
		for _, kv := range spans[i].Attributes() {
			if kv.Key == "http.method" {
				got = kv.Value.AsString()
			}
		}
		if got != want {
			t.Errorf("span %d http.method = %q, want %q", i, got, want)
		}
	}
}
