package intake

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-intake/internal/domain"
	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
	"github.com/jhoicas/warehouse-intake/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// FulfillmentStateMachine pasa una orden de pendiente a cumplida y registra el ingreso.
// Fulfill debe ejecutarse con repositorios atados a una única transacción (TxRunner.Run).
type FulfillmentStateMachine struct {
	now func() time.Time
}

// NewFulfillmentStateMachine construye la máquina de estados. now nil = time.Now.
func NewFulfillmentStateMachine(now func() time.Time) *FulfillmentStateMachine {
	if now == nil {
		now = time.Now
	}
	return &FulfillmentStateMachine{now: now}
}

// Fulfill revalida la orden bajo bloqueo, verifica que no exista ingreso para ella,
// resuelve el precio, marca la orden como cumplida e inserta el ingreso.
// Cualquier error deja la transacción para Rollback.
func (f *FulfillmentStateMachine) Fulfill(
	ctx context.Context,
	orderRepo repository.OrderRepository,
	intakeRepo repository.ProductWarehouseRepository,
	productRepo repository.ProductRepository,
	order *entity.Order,
	warehouseID int64,
	amount int,
) (*entity.ProductWarehouse, error) {
	// 1. Bloquea la fila de la orden; otra solicitud pudo cumplirla entre el match y este punto
	current, err := orderRepo.GetForUpdate(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrConcurrentConflict
	}
	if current.IsFulfilled() {
		return nil, domain.ErrAlreadyFulfilled
	}

	// 2. Un ingreso por orden
	existing, err := intakeRepo.CountByOrder(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, domain.ErrDuplicateIntake
	}

	// 3. Precio vigente dentro de la misma transacción
	unitPrice, err := NewPricingResolver(productRepo).GetUnitPrice(ctx, current.ProductID)
	if err != nil {
		return nil, err
	}

	// 4. Unfulfilled -> Fulfilled
	now := f.now().UTC()
	if err := current.MarkFulfilled(now); err != nil {
		return nil, err
	}
	ok, err := orderRepo.SetFulfilled(ctx, current.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAlreadyFulfilled
	}

	// 5. Ingreso valorizado al precio del momento
	rec := &entity.ProductWarehouse{
		OrderID:     current.ID,
		ProductID:   current.ProductID,
		WarehouseID: warehouseID,
		Amount:      amount,
		Price:       unitPrice.Mul(decimal.NewFromInt(int64(amount))),
		CreatedAt:   now,
	}
	if err := intakeRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
