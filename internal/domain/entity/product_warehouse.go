package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductWarehouse es el registro de ingreso de stock a una bodega (tabla product_warehouse).
// Se crea una sola vez por orden cumplida; nunca se actualiza ni se elimina.
type ProductWarehouse struct {
	ID          int64 // asignado por el store
	OrderID     int64
	ProductID   int64
	WarehouseID int64
	Amount      int
	Price       decimal.Decimal // precio unitario * Amount al momento del ingreso
	CreatedAt   time.Time       // asignado por el servidor
}
