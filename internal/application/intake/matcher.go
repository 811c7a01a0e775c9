package intake

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-intake/internal/domain"
	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
	"github.com/jhoicas/warehouse-intake/internal/domain/repository"
)

// OrderMatcher encuentra la orden que satisface un ingreso.
//
// Regla: mismo producto, misma cantidad, order.created_at <= created_at del ingreso y
// fulfilled_at NULL. Entre varias candidatas gana la más antigua (FIFO).
type OrderMatcher struct {
	orderRepo repository.OrderRepository
}

// NewOrderMatcher construye el matcher.
func NewOrderMatcher(orderRepo repository.OrderRepository) *OrderMatcher {
	return &OrderMatcher{orderRepo: orderRepo}
}

// Match devuelve la orden pendiente más antigua que corresponde al ingreso.
// Si no hay pendientes pero sí una ya cumplida con los mismos datos, devuelve domain.ErrAlreadyFulfilled;
// si no hay ninguna, domain.ErrNoMatchingOrder.
func (m *OrderMatcher) Match(ctx context.Context, productID int64, amount int, createdAt time.Time) (*entity.Order, error) {
	order, err := m.orderRepo.FindMatching(ctx, productID, amount, createdAt)
	if err != nil {
		return nil, err
	}
	if order != nil {
		return order, nil
	}
	fulfilled, err := m.orderRepo.CountFulfilledMatching(ctx, productID, amount, createdAt)
	if err != nil {
		return nil, err
	}
	if fulfilled > 0 {
		return nil, domain.ErrAlreadyFulfilled
	}
	return nil, domain.ErrNoMatchingOrder
}
