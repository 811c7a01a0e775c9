//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/warehouse-intake/internal/application/intake"
	"github.com/jhoicas/warehouse-intake/internal/domain"
	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
	"github.com/jhoicas/warehouse-intake/internal/domain/repository"
	"github.com/jhoicas/warehouse-intake/pkg/config"
)

func setupPostgresContainer(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("warehouse_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	return pool
}

// seed crea P1 (precio 10.00), W1 y O1(P1, 5, 2024-01-01). Devuelve sus IDs.
func seed(t *testing.T, pool *pgxpool.Pool) (productID, warehouseID, orderID int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO product (name, price) VALUES ('P1', 10.00) RETURNING id_product`).Scan(&productID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO warehouse (name) VALUES ('W1') RETURNING id_warehouse`).Scan(&warehouseID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO "order" (id_product, amount, created_at) VALUES ($1, 5, $2) RETURNING id_order`,
		productID, day(2024, 1, 1)).Scan(&orderID))
	return productID, warehouseID, orderID
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newUseCase(pool *pgxpool.Pool) *intake.IntakeUseCase {
	return intake.NewIntakeUseCase(
		NewTxRunner(pool),
		NewProductRepository(pool),
		NewWarehouseRepository(pool),
		NewOrderRepository(pool),
		NewProductWarehouseRepository(pool),
		nil, nil,
		intake.Config{Timeout: 10 * time.Second},
	)
}

func TestMigrate_Idempotente(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupPostgresContainer(t)
	require.NoError(t, Migrate(context.Background(), pool))

	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestIntake_Postgres_Escenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupPostgresContainer(t)
	productID, warehouseID, orderID := seed(t, pool)
	uc := newUseCase(pool)
	ctx := context.Background()

	in := intake.IntakeInput{ProductID: productID, WarehouseID: warehouseID, Amount: 5, CreatedAt: day(2024, 1, 2)}
	id, err := uc.Intake(ctx, in)
	require.NoError(t, err)

	rec, err := NewProductWarehouseRepository(pool).GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, orderID, rec.OrderID)
	assert.True(t, decimal.RequireFromString("50.00").Equal(rec.Price), "precio = 10.00 * 5")

	order, err := NewOrderRepository(pool).GetForUpdate(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, order.IsFulfilled())

	_, err = uc.Intake(ctx, in)
	assert.ErrorIs(t, err, domain.ErrAlreadyFulfilled)
}

func TestIntake_Postgres_Concurrente(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupPostgresContainer(t)
	productID, warehouseID, _ := seed(t, pool)
	uc := newUseCase(pool)

	const workers = 8
	in := intake.IntakeInput{ProductID: productID, WarehouseID: warehouseID, Amount: 5, CreatedAt: day(2024, 1, 2)}
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Intake(context.Background(), in)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.True(t, errorsIsAny(err, domain.ErrAlreadyFulfilled, domain.ErrDuplicateIntake), err.Error())
	}
	assert.Equal(t, 1, successes)

	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM product_warehouse`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestIntake_Postgres_SinPrecioHaceRollback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupPostgresContainer(t)
	productID, warehouseID, orderID := seed(t, pool)
	ctx := context.Background()
	_, err := pool.Exec(ctx, `UPDATE product SET price = NULL WHERE id_product = $1`, productID)
	require.NoError(t, err)

	_, err = newUseCase(pool).Intake(ctx, intake.IntakeInput{
		ProductID: productID, WarehouseID: warehouseID, Amount: 5, CreatedAt: day(2024, 1, 2),
	})
	assert.ErrorIs(t, err, domain.ErrPriceNotFound)

	order, err := NewOrderRepository(pool).GetForUpdate(ctx, orderID)
	require.NoError(t, err)
	assert.False(t, order.IsFulfilled(), "la orden no debe quedar cumplida")
}

func TestOrderRepo_FindMatching_FIFOyLimite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupPostgresContainer(t)
	productID, _, older := seed(t, pool)
	ctx := context.Background()

	var newer int64
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO "order" (id_product, amount, created_at) VALUES ($1, 5, $2) RETURNING id_order`,
		productID, day(2024, 1, 3)).Scan(&newer))

	repo := NewOrderRepository(pool)
	o, err := repo.FindMatching(ctx, productID, 5, day(2024, 1, 10))
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, older, o.ID)

	o, err = repo.FindMatching(ctx, productID, 5, day(2024, 1, 1))
	require.NoError(t, err)
	require.NotNil(t, o, "created_at igual al del ingreso corresponde")
	assert.Equal(t, older, o.ID)

	o, err = repo.FindMatching(ctx, productID, 5, day(2023, 12, 31))
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestProductWarehouseRepo_UnicoPorOrden(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupPostgresContainer(t)
	productID, warehouseID, orderID := seed(t, pool)
	ctx := context.Background()
	repo := NewProductWarehouseRepository(pool)

	rec := func() *entity.ProductWarehouse {
		return &entity.ProductWarehouse{
			OrderID: orderID, ProductID: productID, WarehouseID: warehouseID,
			Amount: 5, Price: decimal.NewFromInt(50), CreatedAt: time.Now().UTC(),
		}
	}
	first := rec()
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)

	assert.ErrorIs(t, repo.Create(ctx, rec()), domain.ErrDuplicateIntake)

	bad := rec()
	bad.WarehouseID = warehouseID + 1000
	assert.ErrorIs(t, repo.Create(ctx, bad), domain.ErrWarehouseNotFound)
}

func TestTxRunner_RollbackEnError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupPostgresContainer(t)
	_, _, orderID := seed(t, pool)
	ctx := context.Background()

	err := NewTxRunner(pool).Run(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.ProductWarehouseRepository,
		_ repository.ProductRepository,
	) error {
		ok, err := orderRepo.SetFulfilled(ctx, orderID, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, ok)
		return domain.ErrPriceNotFound
	})
	assert.ErrorIs(t, err, domain.ErrPriceNotFound)

	order, err := NewOrderRepository(pool).GetForUpdate(ctx, orderID)
	require.NoError(t, err)
	assert.False(t, order.IsFulfilled())
}

func errorsIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
