package repository

import (
	"context"

	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
)

// ProductWarehouseRepository define el puerto de persistencia para los ingresos a bodega.
type ProductWarehouseRepository interface {
	// Create inserta el ingreso y asigna intake.ID.
	Create(ctx context.Context, intake *entity.ProductWarehouse) error
	GetByID(ctx context.Context, id int64) (*entity.ProductWarehouse, error)
	CountByOrder(ctx context.Context, orderID int64) (int, error)
}
