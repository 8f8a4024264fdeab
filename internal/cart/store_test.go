package cart_test

import (
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"organicfoods/internal/cart"
	"organicfoods/internal/domain"
)

func randomProduct() domain.Product {
	return domain.Product{
		ID:    domain.ProductID(gofakeit.Number(1, 1_000_000)),
		Title: gofakeit.ProductName(),
		Price: decimal.NewFromFloat(gofakeit.Price(0.5, 200)).Round(2),
		Image: gofakeit.URL(),
	}
}

func product(id int64, price string) domain.Product {
	return domain.Product{ID: domain.ProductID(id), Price: decimal.RequireFromString(price)}
}

var cmpDecimal = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestAddPreservesOrder(t *testing.T) {
	s := cart.New()
	var want []domain.Product
	for range gofakeit.Number(1, 30) {
		p := randomProduct()
		s.Add(p)
		want = append(want, p)
	}

	if diff := cmp.Diff(want, s.Items(), cmpDecimal); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestAddKeepsDuplicates(t *testing.T) {
	s := cart.New()
	p := randomProduct()
	s.Add(p)
	s.Add(p)

	assert.Equal(t, 2, s.Count())
	assert.True(t, s.Total().Equal(p.Price.Mul(decimal.NewFromInt(2))))
}

func TestAddAcceptsProductWithoutPrice(t *testing.T) {
	s := cart.New()
	s.Add(domain.Product{ID: 9, Title: "mystery"})

	assert.Equal(t, 1, s.Count())
	assert.True(t, s.Total().IsZero())
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name        string
		setup       []domain.Product
		remove      domain.ProductID
		wantIDs     []domain.ProductID
		wantRemoved int
	}{
		{
			name:        "removes every matching entry",
			setup:       []domain.Product{product(1, "1"), product(1, "1"), product(2, "2")},
			remove:      1,
			wantIDs:     []domain.ProductID{2},
			wantRemoved: 2,
		},
		{
			name:        "interleaved duplicates keep the order of the rest",
			setup:       []domain.Product{product(1, "1"), product(2, "2"), product(1, "1"), product(3, "3")},
			remove:      1,
			wantIDs:     []domain.ProductID{2, 3},
			wantRemoved: 2,
		},
		{
			name:        "absent id is a no-op",
			setup:       []domain.Product{product(1, "1"), product(2, "2")},
			remove:      99,
			wantIDs:     []domain.ProductID{1, 2},
			wantRemoved: 0,
		},
		{
			name:        "empty cart",
			remove:      1,
			wantRemoved: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cart.New()
			for _, p := range tt.setup {
				s.Add(p)
			}

			assert.Equal(t, tt.wantRemoved, s.Remove(tt.remove))

			var gotIDs []domain.ProductID
			for _, it := range s.Items() {
				gotIDs = append(gotIDs, it.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestTotalIsAdditive(t *testing.T) {
	s := cart.New()
	for range 50 {
		before := s.Total()
		p := randomProduct()
		s.Add(p)
		require.True(t, s.Total().Equal(before.Add(p.Price)), "total %s != %s + %s", s.Total(), before, p.Price)
	}
}

func TestTotalHasNoBinaryDrift(t *testing.T) {
	s := cart.New()
	for range 10 {
		s.Add(product(1, "0.10"))
	}
	s.Add(product(2, "0.20"))

	assert.Equal(t, "1.20", s.Total().StringFixed(2))
	assert.True(t, s.Total().Equal(decimal.RequireFromString("1.2")))
}

func TestClearIsIdempotent(t *testing.T) {
	s := cart.New()
	s.Add(randomProduct())
	s.Add(randomProduct())

	s.Clear()
	assert.Equal(t, 0, s.Count())
	s.Clear()
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Items())
	assert.True(t, s.Total().IsZero())

	// a cleared cart accepts new items right away
	s.Add(product(5, "1.00"))
	assert.Equal(t, 1, s.Count())
}

func TestCountMatchesItems(t *testing.T) {
	s := cart.New()
	for i := range 40 {
		switch gofakeit.Number(0, 3) {
		case 0:
			s.Remove(domain.ProductID(gofakeit.Number(1, 5)))
		case 1:
			if i%7 == 0 {
				s.Clear()
			}
		default:
			p := randomProduct()
			p.ID = domain.ProductID(gofakeit.Number(1, 5))
			s.Add(p)
		}
		require.Equal(t, len(s.Items()), s.Count())
	}
}

func TestScenarioTwoItems(t *testing.T) {
	s := cart.New()
	s.Add(product(1, "2.50"))
	s.Add(product(2, "3.25"))

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Count)
	assert.Equal(t, "5.75", snap.Total.StringFixed(2))
	assert.Len(t, snap.Items, 2)
}

func TestItemsReturnsCopy(t *testing.T) {
	s := cart.New()
	s.Add(product(1, "1"))

	items := s.Items()
	items[0].ID = 42

	assert.Equal(t, domain.ProductID(1), s.Items()[0].ID)
}

func TestConcurrentAdds(t *testing.T) {
	s := cart.New()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				s.Add(product(1, "0.01"))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, s.Count())
	assert.Equal(t, "10.00", s.Total().StringFixed(2))
}

func TestSettleKeepsLaterAdds(t *testing.T) {
	s := cart.New()
	s.Add(product(1, "2.50"))
	s.Add(product(1, "2.50"))
	s.Add(product(2, "3.25"))
	placed := s.Items()

	s.Add(product(1, "2.50"))
	s.Add(product(7, "1.00"))

	assert.Equal(t, 3, s.Settle(placed))
	got := s.Items()
	require.Len(t, got, 2)
	assert.Equal(t, domain.ProductID(1), got[0].ID)
	assert.Equal(t, domain.ProductID(7), got[1].ID)
	assert.Equal(t, "3.50", s.Total().StringFixed(2))
}

func TestSettleSkipsEntriesAlreadyRemoved(t *testing.T) {
	s := cart.New()
	s.Add(product(1, "2.50"))
	s.Add(product(2, "3.25"))
	placed := s.Items()

	s.Remove(2)

	assert.Equal(t, 1, s.Settle(placed))
	assert.Equal(t, 0, s.Count())
}
