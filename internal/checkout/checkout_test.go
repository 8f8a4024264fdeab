package checkout_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"organicfoods/internal/cart"
	"organicfoods/internal/checkout"
	"organicfoods/internal/domain"
	applog "organicfoods/internal/log"
)

type recordingSubmitter struct {
	orders []checkout.Order
	err    error
}

func (r *recordingSubmitter) Submit(_ context.Context, o checkout.Order) error {
	if r.err != nil {
		return r.err
	}
	r.orders = append(r.orders, o)
	return nil
}

var buyer = checkout.Buyer{Name: " Ada ", Email: "ada@example.com", Address: "1 Farm Lane"}

func filledCart() *cart.Store {
	s := cart.New()
	s.Add(domain.Product{ID: 1, Title: "Apples", Price: decimal.RequireFromString("2.50")})
	s.Add(domain.Product{ID: 2, Title: "Honey", Price: decimal.RequireFromString("3.25")})
	return s
}

func TestPlaceSubmitsAndClears(t *testing.T) {
	sub := &recordingSubmitter{}
	flow := checkout.NewFlow(sub)
	flow.Now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	store := filledCart()

	o, err := flow.Place(context.Background(), store, buyer)
	require.NoError(t, err)

	require.Len(t, sub.orders, 1)
	assert.Equal(t, o.ID, sub.orders[0].ID)
	assert.Equal(t, "Ada", o.Buyer.Name)
	assert.Len(t, o.Items, 2)
	assert.Equal(t, "5.75", o.Total.StringFixed(2))
	assert.Equal(t, 0, store.Count())
}

func TestPlaceRejectsInvalidBuyer(t *testing.T) {
	sub := &recordingSubmitter{}
	store := filledCart()

	_, err := checkout.NewFlow(sub).Place(context.Background(), store, checkout.Buyer{Name: "Ada", Email: "nope"})

	var verr *checkout.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "address")
	assert.NotContains(t, verr.Fields, "name")
	assert.Equal(t, "invalid buyer: email, address", err.Error())
	assert.Empty(t, sub.orders)
	assert.Equal(t, 2, store.Count())
}

func TestPlaceRejectsEmptyCartInsteadOfSubmittingEmptyOrder(t *testing.T) {
	sub := &recordingSubmitter{}

	_, err := checkout.NewFlow(sub).Place(context.Background(), cart.New(), buyer)

	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Empty(t, sub.orders)
}

// addingSubmitter stands in for a second tab that adds to the cart while the order is in flight.
type addingSubmitter struct {
	store *cart.Store
	extra domain.Product
}

func (a addingSubmitter) Submit(context.Context, checkout.Order) error {
	a.store.Add(a.extra)
	return nil
}

func TestPlaceKeepsItemsAddedDuringSubmit(t *testing.T) {
	store := filledCart()
	honey := domain.Product{ID: 7, Title: "Honey", Price: decimal.RequireFromString("9.00")}

	o, err := checkout.NewFlow(addingSubmitter{store: store, extra: honey}).Place(context.Background(), store, buyer)
	require.NoError(t, err)

	assert.Len(t, o.Items, 2)
	require.Equal(t, 1, store.Count())
	assert.Equal(t, domain.ProductID(7), store.Items()[0].ID)
}

func TestPlaceKeepsCartWhenSubmitFails(t *testing.T) {
	boom := errors.New("downstream unavailable")
	store := filledCart()

	_, err := checkout.NewFlow(&recordingSubmitter{err: boom}).Place(context.Background(), store, buyer)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, store.Count())
}

func TestLogSubmitterWritesAuditLine(t *testing.T) {
	var buf bytes.Buffer
	old := applog.Writer()
	applog.SetOutput(&buf)
	defer applog.SetOutput(old)

	o, err := checkout.NewFlow(checkout.LogSubmitter{}).Place(context.Background(), filledCart(), buyer)
	require.NoError(t, err)

	var line struct {
		Action string         `json:"action"`
		Audit  bool           `json:"audit"`
		Fields map[string]any `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "order.submitted", line.Action)
	assert.True(t, line.Audit)
	assert.Equal(t, o.ID.String(), line.Fields["order_id"])
	assert.Equal(t, "5.75", line.Fields["total"])
	assert.Equal(t, []any{"1", "2"}, line.Fields["items"])
}
