package catalog

import (
	"context"
	"errors"
	"strings"

	"organicfoods/internal/domain"
)

// State is what a product view shows for a listing.
type State int

const (
	StateLoading State = iota
	StateError
	StateEmpty
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Listing is the outcome of one fetch. The zero value is a listing still loading.
type Listing struct {
	State    State
	Products []domain.Product
	Err      error
}

// Load runs fetch once and classifies the result. It never returns StateLoading.
func Load(ctx context.Context, fetch func(context.Context) ([]domain.Product, error)) Listing {
	products, err := fetch(ctx)
	switch {
	case err != nil:
		return Listing{State: StateError, Err: err}
	case len(products) == 0:
		return Listing{State: StateEmpty}
	}
	return Listing{State: StateLoaded, Products: products}
}

// Filter keeps the products keep accepts. A listing that ends up with nothing is empty.
func (l Listing) Filter(keep func(domain.Product) bool) Listing {
	if l.State != StateLoaded {
		return l
	}
	var out []domain.Product
	for _, p := range l.Products {
		if keep(p) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return Listing{State: StateEmpty}
	}
	return Listing{State: StateLoaded, Products: out}
}

// Matching is a case-insensitive search over title, description and category.
func Matching(q string) func(domain.Product) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	return func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q)
	}
}

func InCategory(category string) func(domain.Product) bool {
	return func(p domain.Product) bool { return strings.EqualFold(p.Category, category) }
}

type DetailState int

const (
	DetailLoading DetailState = iota
	DetailError
	DetailNotFound
	DetailFound
)

// Detail is the outcome of looking up a single product.
type Detail struct {
	State   DetailState
	Product domain.Product
	Err     error
}

func LoadDetail(ctx context.Context, src Source, id domain.ProductID) Detail {
	p, err := src.GetProduct(ctx, id)
	switch {
	case errors.Is(err, ErrProductNotFound):
		return Detail{State: DetailNotFound, Err: err}
	case err != nil:
		return Detail{State: DetailError, Err: err}
	}
	return Detail{State: DetailFound, Product: p}
}
