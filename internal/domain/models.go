package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductID identifies a product in the catalog. Uniqueness is the catalog's job.
type ProductID int64

func (id ProductID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseProductID parses an identifier taken from a route or form value.
func ParseProductID(s string) (ProductID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse product id %q: %w", s, err)
	}
	return ProductID(n), nil
}

// Product is a read-only snapshot of a catalog record.
type Product struct {
	ID          ProductID       `db:"id"`
	Title       string          `db:"title"`
	Price       decimal.Decimal `db:"price"`
	Image       string          `db:"image"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
}

type productIn struct {
	ID          ProductID       `json:"id"`
	Title       string          `json:"title"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

type productOut struct {
	ID          ProductID   `json:"id"`
	Title       string      `json:"title"`
	Price       json.Number `json:"price"`
	Image       string      `json:"image"`
	Description string      `json:"description,omitempty"`
	Category    string      `json:"category,omitempty"`
}

// UnmarshalJSON accepts "name" when a source omits "title". A missing price decodes to zero.
func (p *Product) UnmarshalJSON(b []byte) error {
	var in productIn
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	title := in.Title
	if title == "" {
		title = in.Name
	}
	*p = Product{
		ID:          in.ID,
		Title:       title,
		Price:       in.Price,
		Image:       in.Image,
		Description: in.Description,
		Category:    in.Category,
	}
	return nil
}

// MarshalJSON writes the price as a JSON number, as the catalog contract expects.
func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(productOut{
		ID:          p.ID,
		Title:       p.Title,
		Price:       json.Number(p.Price.String()),
		Image:       p.Image,
		Description: p.Description,
		Category:    p.Category,
	})
}
