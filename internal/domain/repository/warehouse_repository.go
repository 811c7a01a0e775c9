package repository

import "context"

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Count(ctx context.Context, id int64) (int, error)
}
