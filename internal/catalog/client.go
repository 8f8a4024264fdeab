// Package catalog reads product data from the external catalog source.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"organicfoods/internal/domain"
)

// Source is the read-only surface the storefront needs from a catalog.
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListFeatured(ctx context.Context, n int) ([]domain.Product, error)
	GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error)
}

var tracer = otel.Tracer("organicfoods/internal/catalog")

type Options struct {
	// Timeout bounds each request; a context deadline that is sooner wins.
	Timeout time.Duration
	// PointLookup makes GetProduct call /products/{id} instead of searching the full list.
	PointLookup bool
}

// Client talks to a catalog over HTTP. It never retries and never caches.
type Client struct {
	base string
	opts Options
}

func NewClient(baseURL string, opts Options) *Client {
	return &Client{base: strings.TrimRight(baseURL, "/"), opts: opts}
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.list(ctx, "catalog.list", c.base+"/products")
}

// ListFeatured returns at most n products, as the home page shows.
func (c *Client) ListFeatured(ctx context.Context, n int) ([]domain.Product, error) {
	return c.list(ctx, "catalog.featured", fmt.Sprintf("%s/products?limit=%d", c.base, n))
}

// GetProduct fetches the whole catalog and picks id out of it, unless point lookup is enabled.
func (c *Client) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	if c.opts.PointLookup {
		return c.getOne(ctx, id)
	}
	products, err := c.ListProducts(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	return Find(products, id)
}

// Find returns the product with id from an already fetched list.
func Find(products []domain.Product, id domain.ProductID) (domain.Product, error) {
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}

func (c *Client) list(ctx context.Context, op, url string) ([]domain.Product, error) {
	code, body, err := c.fetch(ctx, op, url)
	if err != nil {
		return nil, err
	}
	if code != fiber.StatusOK {
		return nil, &FetchError{Op: op, Kind: KindStatus, Status: code}
	}
	var products []domain.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, &FetchError{Op: op, Kind: KindDecode, Status: code, Err: err}
	}
	return products, nil
}

func (c *Client) getOne(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	const op = "catalog.get"
	code, body, err := c.fetch(ctx, op, c.base+"/products/"+id.String())
	if err != nil {
		return domain.Product{}, err
	}
	switch {
	case code == fiber.StatusNotFound:
		return domain.Product{}, ErrProductNotFound
	case code != fiber.StatusOK:
		return domain.Product{}, &FetchError{Op: op, Kind: KindStatus, Status: code}
	}
	// some sources answer 200 with an empty body for unknown ids
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.Product{}, ErrProductNotFound
	}
	var p domain.Product
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return domain.Product{}, &FetchError{Op: op, Kind: KindDecode, Status: code, Err: err}
	}
	return p, nil
}

func (c *Client) fetch(ctx context.Context, op, url string) (int, []byte, error) {
	ctx, span := tracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", url)))
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, nil, &FetchError{Op: op, Kind: KindNetwork, Err: err}
	}

	timeout := c.opts.Timeout
	if dl, ok := ctx.Deadline(); ok {
		left := time.Until(dl)
		if left <= 0 {
			span.SetStatus(codes.Error, context.DeadlineExceeded.Error())
			return 0, nil, &FetchError{Op: op, Kind: KindNetwork, Err: context.DeadlineExceeded}
		}
		if timeout <= 0 || left < timeout {
			timeout = left
		}
	}

	a := fiber.Get(url)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		a.Set(k, v)
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		span.SetStatus(codes.Error, err.Error())
		return 0, nil, &FetchError{Op: op, Kind: KindNetwork, Err: err}
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		span.SetStatus(codes.Error, err.Error())
		return 0, nil, &FetchError{Op: op, Kind: KindNetwork, Err: err}
	}
	span.SetAttributes(attribute.Int("http.status_code", code))
	return code, body, nil
}
