package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"organicfoods/internal/domain"
)

var ErrNotFound = errors.New("product not found")

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, title, price, image, description, category`

// List returns products in id order. limit <= 0 means no limit; an empty category matches all.
func (r *ProductRepo) List(ctx context.Context, limit int, category string) ([]domain.Product, error) {
	q := `SELECT ` + productCols + ` FROM products`
	var args []any
	if c := strings.TrimSpace(category); c != "" {
		q += ` WHERE LOWER(category) = LOWER(?)`
		args = append(args, c)
	}
	q += ` ORDER BY id`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	out := []domain.Product{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (r *ProductRepo) Get(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// Categories lists the distinct categories in alphabetical order.
func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	out := []string{}
	if err := r.db.SelectContext(ctx, &out, `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}
