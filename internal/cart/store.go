// Package cart holds the items a shopper has selected for purchase during one session.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"organicfoods/internal/domain"
)

// Store is the ordered list of product snapshots in one session's cart.
// Adding the same product twice yields two entries. The zero value is an empty cart.
type Store struct {
	mu    sync.Mutex
	items []domain.Product
}

// Snapshot is a consistent read of a cart: Count and Total always describe Items.
type Snapshot struct {
	Items []domain.Product
	Count int
	Total decimal.Decimal
}

func New() *Store { return &Store{} }

// Add appends p to the end of the cart. The product is stored as given, without validation.
func (s *Store) Add(p domain.Product) {
	s.mu.Lock()
	s.items = append(s.items, p)
	s.mu.Unlock()
}

// Remove drops every entry whose ID is id and reports how many were removed.
func (s *Store) Remove(id domain.ProductID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	removed := len(s.items) - len(kept)
	// zero the tail so dropped snapshots can be collected
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = domain.Product{}
	}
	s.items = kept
	return removed
}

// Settle drops one entry per product in items, matching by ID from the front, and reports
// how many it dropped. Entries added after items was read stay in the cart.
func (s *Store) Settle(items []domain.Product) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	owed := make(map[domain.ProductID]int, len(items))
	for _, it := range items {
		owed[it.ID]++
	}
	kept := s.items[:0]
	for _, it := range s.items {
		if owed[it.ID] > 0 {
			owed[it.ID]--
			continue
		}
		kept = append(kept, it)
	}
	dropped := len(s.items) - len(kept)
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = domain.Product{}
	}
	s.items = kept
	return dropped
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total sums unit prices of the current items.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sum(s.items)
}

// Items returns a copy of the cart contents in insertion order.
func (s *Store) Items() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Product(nil), s.items...)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items: append([]domain.Product(nil), s.items...),
		Count: len(s.items),
		Total: sum(s.items),
	}
}

func sum(items []domain.Product) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price)
	}
	return total
}
