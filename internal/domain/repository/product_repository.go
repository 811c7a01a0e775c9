package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de lectura de Product usado por el flujo de ingreso (DIP).
type ProductRepository interface {
	// Count devuelve cuántos productos tienen el ID dado (0 o 1).
	Count(ctx context.Context, id int64) (int, error)
	// GetUnitPrice devuelve el precio unitario vigente; nil si el producto no existe o no tiene precio.
	GetUnitPrice(ctx context.Context, id int64) (*decimal.Decimal, error)
}
