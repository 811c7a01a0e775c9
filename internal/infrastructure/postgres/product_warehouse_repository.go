package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-intake/internal/domain"
	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
	"github.com/jhoicas/warehouse-intake/internal/domain/repository"
)

var _ repository.ProductWarehouseRepository = (*ProductWarehouseRepo)(nil)

// ProductWarehouseRepo implementación sobre PostgreSQL (usable con pool o tx).
type ProductWarehouseRepo struct {
	q Querier
}

// NewProductWarehouseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductWarehouseRepository(q Querier) *ProductWarehouseRepo {
	return &ProductWarehouseRepo{q: q}
}

// Create persiste un ingreso y asigna el ID generado por la base.
func (r *ProductWarehouseRepo) Create(ctx context.Context, intake *entity.ProductWarehouse) error {
	query := `
		INSERT INTO product_warehouse (id_warehouse, id_product, id_order, amount, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_product_warehouse`
	err := r.q.QueryRow(ctx, query,
		intake.WarehouseID, intake.ProductID, intake.OrderID, intake.Amount, intake.Price, intake.CreatedAt,
	).Scan(&intake.ID)
	if err != nil {
		if isUniqueViolation(err) && constraintName(err) == constraintIntakeOrder {
			return domain.ErrDuplicateIntake
		}
		switch constraintName(err) {
		case constraintIntakeProduct:
			return domain.ErrProductNotFound
		case constraintIntakeWarehouse:
			return domain.ErrWarehouseNotFound
		}
		return storeError("insert product_warehouse", err)
	}
	return nil
}

// GetByID obtiene un ingreso por ID.
func (r *ProductWarehouseRepo) GetByID(ctx context.Context, id int64) (*entity.ProductWarehouse, error) {
	query := `
		SELECT id_product_warehouse, id_warehouse, id_product, id_order, amount, price, created_at
		FROM product_warehouse WHERE id_product_warehouse = $1`
	var in entity.ProductWarehouse
	err := r.q.QueryRow(ctx, query, id).Scan(
		&in.ID, &in.WarehouseID, &in.ProductID, &in.OrderID, &in.Amount, &in.Price, &in.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError(fmt.Sprintf("get product_warehouse %d", id), err)
	}
	return &in, nil
}

// CountByOrder cuenta ingresos registrados para la orden.
func (r *ProductWarehouseRepo) CountByOrder(ctx context.Context, orderID int64) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM product_warehouse WHERE id_order = $1`, orderID).Scan(&n)
	if err != nil {
		return 0, storeError("count product_warehouse by order", err)
	}
	return n, nil
}
