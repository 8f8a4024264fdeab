// Package checkout turns a session's cart into an order and empties the cart once it is handed off.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"organicfoods/internal/cart"
	"organicfoods/internal/domain"
	applog "organicfoods/internal/log"
	"organicfoods/internal/validate"
)

var ErrEmptyCart = errors.New("cart is empty")

type Buyer struct {
	Name    string
	Email   string
	Address string
}

// ValidationError lists every buyer field that failed, keyed by form field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range []string{"name", "email", "address"} {
		if _, ok := e.Fields[f]; ok {
			names = append(names, f)
		}
	}
	return "invalid buyer: " + strings.Join(names, ", ")
}

// Normalize trims every field and checks that all of them are present and well formed.
func (b Buyer) Normalize() (Buyer, error) {
	fields := map[string]string{}
	name, ok := validate.Name(b.Name)
	if !ok {
		fields["name"] = "Name is required (up to 100 characters)"
	}
	email, ok := validate.Email(b.Email)
	if !ok {
		fields["email"] = "Enter a valid email address"
	}
	address, ok := validate.Address(b.Address)
	if !ok {
		fields["address"] = "Address is required (up to 300 characters)"
	}
	if len(fields) > 0 {
		return Buyer{Name: strings.TrimSpace(b.Name), Email: strings.TrimSpace(b.Email), Address: strings.TrimSpace(b.Address)},
			&ValidationError{Fields: fields}
	}
	return Buyer{Name: name, Email: email, Address: address}, nil
}

type Order struct {
	ID       uuid.UUID
	Buyer    Buyer
	Items    []domain.Product
	Total    decimal.Decimal
	PlacedAt time.Time
}

// Submitter transmits a placed order.
type Submitter interface {
	Submit(ctx context.Context, o Order) error
}

// LogSubmitter records the order in the audit log and transmits nothing.
type LogSubmitter struct{}

func (LogSubmitter) Submit(_ context.Context, o Order) error {
	ids := make([]string, len(o.Items))
	for i, it := range o.Items {
		ids[i] = it.ID.String()
	}
	applog.Audit(nil, "order.submitted", map[string]any{
		"order_id": o.ID.String(),
		"name":     o.Buyer.Name,
		"email":    o.Buyer.Email,
		"address":  o.Buyer.Address,
		"items":    ids,
		"count":    len(o.Items),
		"total":    o.Total.StringFixed(2),
	})
	return nil
}

type Flow struct {
	Submitter Submitter
	Now       func() time.Time
}

func NewFlow(s Submitter) *Flow {
	return &Flow{Submitter: s, Now: time.Now}
}

// Place validates the buyer, submits the current cart contents and removes them from the cart.
// Items added while the order is being submitted stay in the cart. The cart is left untouched
// when any step fails.
func (f *Flow) Place(ctx context.Context, store *cart.Store, b Buyer) (Order, error) {
	buyer, err := b.Normalize()
	if err != nil {
		return Order{}, err
	}
	snap := store.Snapshot()
	if snap.Count == 0 {
		return Order{}, ErrEmptyCart
	}
	o := Order{
		ID:       uuid.New(),
		Buyer:    buyer,
		Items:    snap.Items,
		Total:    snap.Total,
		PlacedAt: f.Now().UTC(),
	}
	if err := f.Submitter.Submit(ctx, o); err != nil {
		return Order{}, fmt.Errorf("submit order %s: %w", o.ID, err)
	}
	// a second tab may have added to the cart while the order was in flight
	store.Settle(o.Items)
	return o, nil
}
