package postgres

import (
	"context"

	"github.com/jhoicas/warehouse-intake/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

// Count devuelve 1 si la bodega existe, 0 si no.
func (r *WarehouseRepo) Count(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM warehouse WHERE id_warehouse = $1`, id).Scan(&n)
	if err != nil {
		return 0, storeError("count warehouse", err)
	}
	return n, nil
}
