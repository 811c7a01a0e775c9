package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-intake/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Count devuelve 1 si el producto existe, 0 si no.
func (r *ProductRepo) Count(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM product WHERE id_product = $1`, id).Scan(&n)
	if err != nil {
		return 0, storeError("count product", err)
	}
	return n, nil
}

// GetUnitPrice obtiene el precio unitario; nil si el producto no existe o su precio es NULL.
func (r *ProductRepo) GetUnitPrice(ctx context.Context, id int64) (*decimal.Decimal, error) {
	var price decimal.NullDecimal
	err := r.q.QueryRow(ctx, `SELECT price FROM product WHERE id_product = $1`, id).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get product price", err)
	}
	if !price.Valid {
		return nil, nil
	}
	return &price.Decimal, nil
}
