package intake_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-intake/internal/application/intake"
	"github.com/jhoicas/warehouse-intake/internal/domain"
	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
	"github.com/jhoicas/warehouse-intake/internal/infrastructure/memory"
)

func pending() *entity.Order {
	return &entity.Order{ID: 1, ProductID: 1, Amount: 5, CreatedAt: day1}
}

func TestFulfill_OrdenDesaparecida(t *testing.T) {
	s := seedStore()
	orders := new(mockOrderRepo)
	orders.On("GetForUpdate", mock.Anything, int64(1)).Return(nil, nil)

	fsm := intake.NewFulfillmentStateMachine(nil)
	_, err := fsm.Fulfill(context.Background(), orders, memory.NewProductWarehouseRepository(s),
		memory.NewProductRepository(s), pending(), 1, 5)
	assert.ErrorIs(t, err, domain.ErrConcurrentConflict)
	assert.True(t, domain.IsRetryable(err))
}

func TestFulfill_YaCumplidaBajoBloqueo(t *testing.T) {
	s := seedStore()
	done := pending()
	at := day2
	done.FulfilledAt = &at
	orders := new(mockOrderRepo)
	orders.On("GetForUpdate", mock.Anything, int64(1)).Return(done, nil)

	fsm := intake.NewFulfillmentStateMachine(nil)
	_, err := fsm.Fulfill(context.Background(), orders, memory.NewProductWarehouseRepository(s),
		memory.NewProductRepository(s), pending(), 1, 5)
	assert.ErrorIs(t, err, domain.ErrAlreadyFulfilled)
	orders.AssertNotCalled(t, "SetFulfilled", mock.Anything, mock.Anything, mock.Anything)
}

func TestFulfill_PierdeLaCarrera(t *testing.T) {
	s := seedStore()
	orders := new(mockOrderRepo)
	orders.On("GetForUpdate", mock.Anything, int64(1)).Return(pending(), nil)
	orders.On("SetFulfilled", mock.Anything, int64(1), mock.Anything).Return(false, nil)

	fsm := intake.NewFulfillmentStateMachine(func() time.Time { return now })
	_, err := fsm.Fulfill(context.Background(), orders, memory.NewProductWarehouseRepository(s),
		memory.NewProductRepository(s), pending(), 1, 5)
	assert.ErrorIs(t, err, domain.ErrAlreadyFulfilled)
	assert.Empty(t, s.Intakes())
}

func TestFulfill_IngresoPrevioDeLaOrden(t *testing.T) {
	s := seedStore()
	intakes := memory.NewProductWarehouseRepository(s)
	require.NoError(t, intakes.Create(context.Background(), &entity.ProductWarehouse{
		OrderID: 1, ProductID: 1, WarehouseID: 1, Amount: 5, Price: decimal.NewFromInt(50), CreatedAt: day2,
	}))

	fsm := intake.NewFulfillmentStateMachine(nil)
	_, err := fsm.Fulfill(context.Background(), memory.NewOrderRepository(s), intakes,
		memory.NewProductRepository(s), pending(), 1, 5)
	assert.ErrorIs(t, err, domain.ErrDuplicateIntake)
}

func TestPricingResolver(t *testing.T) {
	s := seedStore()
	s.AddProduct(entity.Product{ID: 2, Name: "sin precio"})
	s.AddProduct(entity.Product{ID: 3, Name: "negativo", Price: price("-1")})
	r := intake.NewPricingResolver(memory.NewProductRepository(s))

	p, err := r.GetUnitPrice(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(p))

	for _, id := range []int64{2, 3, 404} {
		_, err := r.GetUnitPrice(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrPriceNotFound, "id=%d", id)
	}
}
