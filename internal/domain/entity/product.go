package entity

import "github.com/shopspring/decimal"

// Product representa un producto del catálogo. Solo lectura para el flujo de ingreso.
// Price nil significa que el producto aún no tiene precio asignado.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       *decimal.Decimal // precio unitario (no negativo)
}
