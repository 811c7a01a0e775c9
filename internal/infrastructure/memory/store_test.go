package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-intake/internal/domain"
	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
	"github.com/jhoicas/warehouse-intake/internal/domain/repository"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func seeded() *Store {
	s := NewStore()
	p := decimal.NewFromInt(10)
	s.AddProduct(entity.Product{ID: 1, Name: "P1", Price: &p})
	s.AddWarehouse(entity.Warehouse{ID: 1, Name: "W1"})
	s.AddOrder(entity.Order{ID: 1, ProductID: 1, Amount: 5, CreatedAt: t0})
	s.AddOrder(entity.Order{ID: 2, ProductID: 1, Amount: 5, CreatedAt: t0})
	s.AddOrder(entity.Order{ID: 3, ProductID: 1, Amount: 5, CreatedAt: t0.Add(-time.Minute)})
	return s
}

func TestOrderRepo_FindMatchingFIFO(t *testing.T) {
	s := seeded()
	r := NewOrderRepository(s)
	ctx := context.Background()

	o, err := r.FindMatching(ctx, 1, 5, t0)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, int64(3), o.ID)

	ok, err := r.SetFulfilled(ctx, 3, t0)
	require.NoError(t, err)
	require.True(t, ok)

	// empate en created_at: gana el menor ID
	o, err = r.FindMatching(ctx, 1, 5, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.ID)

	n, err := r.CountFulfilledMatching(ctx, 1, 5, t0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	o, err = r.FindMatching(ctx, 1, 5, t0.Add(-2*time.Minute))
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestOrderRepo_SetFulfilledUnaSolaVez(t *testing.T) {
	r := NewOrderRepository(seeded())
	ctx := context.Background()

	ok, err := r.SetFulfilled(ctx, 1, t0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.SetFulfilled(ctx, 1, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.SetFulfilled(ctx, 404, t0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductWarehouseRepo_Create(t *testing.T) {
	s := seeded()
	r := NewProductWarehouseRepository(s)
	ctx := context.Background()

	rec := &entity.ProductWarehouse{OrderID: 1, ProductID: 1, WarehouseID: 1, Amount: 5, Price: decimal.NewFromInt(50), CreatedAt: t0}
	require.NoError(t, r.Create(ctx, rec))
	assert.Equal(t, int64(1), rec.ID)

	dup := *rec
	dup.ID = 0
	assert.ErrorIs(t, r.Create(ctx, &dup), domain.ErrDuplicateIntake)

	assert.ErrorIs(t, r.Create(ctx, &entity.ProductWarehouse{OrderID: 2, ProductID: 9, WarehouseID: 1}), domain.ErrProductNotFound)
	assert.ErrorIs(t, r.Create(ctx, &entity.ProductWarehouse{OrderID: 2, ProductID: 1, WarehouseID: 9}), domain.ErrWarehouseNotFound)

	got, err := r.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, *rec, *got)

	n, err := r.CountByOrder(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTxRunner_RollbackDescartaCambios(t *testing.T) {
	s := seeded()
	boom := errors.New("boom")

	err := NewTxRunner(s).Run(context.Background(), func(
		orderRepo repository.OrderRepository,
		intakeRepo repository.ProductWarehouseRepository,
		_ repository.ProductRepository,
	) error {
		ok, err := orderRepo.SetFulfilled(context.Background(), 1, t0)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, intakeRepo.Create(context.Background(), &entity.ProductWarehouse{OrderID: 1, ProductID: 1, WarehouseID: 1, Amount: 5}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	o, _ := s.Order(1)
	assert.Nil(t, o.FulfilledAt)
	assert.Empty(t, s.Intakes())
}

func TestTxRunner_Commit(t *testing.T) {
	s := seeded()

	err := NewTxRunner(s).Run(context.Background(), func(
		orderRepo repository.OrderRepository,
		intakeRepo repository.ProductWarehouseRepository,
		_ repository.ProductRepository,
	) error {
		if _, err := orderRepo.SetFulfilled(context.Background(), 1, t0); err != nil {
			return err
		}
		return intakeRepo.Create(context.Background(), &entity.ProductWarehouse{OrderID: 1, ProductID: 1, WarehouseID: 1, Amount: 5})
	})
	require.NoError(t, err)

	o, _ := s.Order(1)
	assert.NotNil(t, o.FulfilledAt)
	assert.Len(t, s.Intakes(), 1)
}

func TestStore_ContextoCancelado(t *testing.T) {
	s := seeded()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProductRepository(s).Count(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.Canceled)

	err = NewTxRunner(s).Run(ctx, func(repository.OrderRepository, repository.ProductWarehouseRepository, repository.ProductRepository) error {
		t.Fatal("no debe ejecutarse con contexto cancelado")
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestProductRepo_GetUnitPriceCopia(t *testing.T) {
	s := seeded()
	r := NewProductRepository(s)

	p, err := r.GetUnitPrice(context.Background(), 1)
	require.NoError(t, err)
	*p = decimal.NewFromInt(999)

	again, err := r.GetUnitPrice(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(*again))

	s.SetProductPrice(1, nil)
	p, err = r.GetUnitPrice(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, p)
}
