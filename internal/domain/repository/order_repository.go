package repository

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
)

// OrderRepository define el puerto para consultar y cumplir órdenes.
// GetForUpdate y SetFulfilled se usan dentro de transacciones para garantizar consistencia.
type OrderRepository interface {
	// FindMatching devuelve la orden pendiente más antigua con el producto y cantidad dados
	// y created_at <= createdAt; nil si no hay ninguna.
	FindMatching(ctx context.Context, productID int64, amount int, createdAt time.Time) (*entity.Order, error)
	// CountFulfilledMatching cuenta órdenes ya cumplidas que cumplirían la misma regla.
	CountFulfilledMatching(ctx context.Context, productID int64, amount int, createdAt time.Time) (int, error)
	// GetForUpdate obtiene la orden y bloquea la fila (SELECT FOR UPDATE); nil si no existe.
	GetForUpdate(ctx context.Context, id int64) (*entity.Order, error)
	// SetFulfilled fija fulfilled_at solo si sigue en NULL. Devuelve false si otra operación ganó.
	SetFulfilled(ctx context.Context, id int64, at time.Time) (bool, error)
}
