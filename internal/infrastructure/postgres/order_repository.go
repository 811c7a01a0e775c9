package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
	"github.com/jhoicas/warehouse-intake/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de órdenes. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id_order, id_product, amount, created_at, fulfilled_at`

// FindMatching devuelve la orden pendiente más antigua (FIFO) que corresponde al ingreso.
func (r *OrderRepo) FindMatching(ctx context.Context, productID int64, amount int, createdAt time.Time) (*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM "order"
		WHERE id_product = $1 AND amount = $2 AND created_at <= $3 AND fulfilled_at IS NULL
		ORDER BY created_at ASC, id_order ASC
		LIMIT 1`
	o, err := scanOrder(r.q.QueryRow(ctx, query, productID, amount, createdAt))
	if err != nil {
		return nil, storeError("find matching order", err)
	}
	return o, nil
}

// CountFulfilledMatching cuenta órdenes cumplidas con los mismos datos del ingreso.
func (r *OrderRepo) CountFulfilledMatching(ctx context.Context, productID int64, amount int, createdAt time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM "order"
		WHERE id_product = $1 AND amount = $2 AND created_at <= $3 AND fulfilled_at IS NOT NULL`
	var n int
	if err := r.q.QueryRow(ctx, query, productID, amount, createdAt).Scan(&n); err != nil {
		return 0, storeError("count fulfilled orders", err)
	}
	return n, nil
}

// GetForUpdate obtiene la orden y bloquea la fila (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM "order" WHERE id_order = $1 FOR UPDATE`
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, storeError("get order for update", err)
	}
	return o, nil
}

// SetFulfilled fija fulfilled_at solo si aún es NULL (compare-and-swap).
func (r *OrderRepo) SetFulfilled(ctx context.Context, id int64, at time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE "order" SET fulfilled_at = $2 WHERE id_order = $1 AND fulfilled_at IS NULL`,
		id, at,
	)
	if err != nil {
		return false, storeError("set order fulfilled", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.ProductID, &o.Amount, &o.CreatedAt, &o.FulfilledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}
