package entity

import (
	"time"

	"github.com/jhoicas/warehouse-intake/internal/domain"
)

// Order representa una orden de compra de un único producto.
// FulfilledAt nil = pendiente (Unfulfilled); con valor = cumplida (Fulfilled, estado terminal).
type Order struct {
	ID          int64
	ProductID   int64
	Amount      int
	CreatedAt   time.Time
	FulfilledAt *time.Time
}

// IsFulfilled indica si la orden ya pasó a estado cumplido.
func (o *Order) IsFulfilled() bool {
	return o.FulfilledAt != nil
}

// MarkFulfilled aplica la única transición permitida: Unfulfilled -> Fulfilled.
// Una orden cumplida no vuelve a cambiar.
func (o *Order) MarkFulfilled(at time.Time) error {
	if o.IsFulfilled() {
		return domain.ErrAlreadyFulfilled
	}
	t := at
	o.FulfilledAt = &t
	return nil
}

// Matches indica si la orden corresponde a un ingreso del producto y cantidad dados,
// reportado en requestedAt (la orden debe existir en o antes de ese instante).
func (o *Order) Matches(productID int64, amount int, requestedAt time.Time) bool {
	return o.ProductID == productID && o.Amount == amount && !o.CreatedAt.After(requestedAt)
}
