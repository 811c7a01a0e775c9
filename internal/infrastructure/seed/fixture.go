// Package seed carga datos de arranque (productos, bodegas y órdenes) desde un archivo JSON
// hacia el store en memoria o hacia PostgreSQL.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
	"github.com/jhoicas/warehouse-intake/internal/infrastructure/memory"
)

// Fixture contenido del archivo de seed.
type Fixture struct {
	Products []struct {
		ID          int64            `json:"id_product"`
		Name        string           `json:"name"`
		Description string           `json:"description"`
		Price       *decimal.Decimal `json:"price"` // null = sin precio
	} `json:"products"`
	Warehouses []struct {
		ID      int64  `json:"id_warehouse"`
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"warehouses"`
	Orders []struct {
		ID          int64      `json:"id_order"`
		ProductID   int64      `json:"id_product"`
		Amount      int        `json:"amount"`
		CreatedAt   time.Time  `json:"created_at"`
		FulfilledAt *time.Time `json:"fulfilled_at"`
	} `json:"orders"`
}

// ReadFile lee y valida un fixture JSON.
func ReadFile(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer seed %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decodificar seed %s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	products := make(map[int64]bool, len(f.Products))
	for _, p := range f.Products {
		if p.ID <= 0 || p.Name == "" {
			return fmt.Errorf("producto inválido: id=%d", p.ID)
		}
		products[p.ID] = true
	}
	for _, w := range f.Warehouses {
		if w.ID <= 0 || w.Name == "" {
			return fmt.Errorf("bodega inválida: id=%d", w.ID)
		}
	}
	for _, o := range f.Orders {
		if o.ID <= 0 || o.Amount <= 0 || o.CreatedAt.IsZero() {
			return fmt.Errorf("orden inválida: id=%d", o.ID)
		}
		if !products[o.ProductID] {
			return fmt.Errorf("orden %d: producto %d no definido", o.ID, o.ProductID)
		}
	}
	return nil
}

// IntoMemory registra el fixture en el store en memoria.
func (f *Fixture) IntoMemory(s *memory.Store) {
	for _, p := range f.Products {
		s.AddProduct(entity.Product{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price})
	}
	for _, w := range f.Warehouses {
		s.AddWarehouse(entity.Warehouse{ID: w.ID, Name: w.Name, Address: w.Address})
	}
	for _, o := range f.Orders {
		s.AddOrder(entity.Order{
			ID:          o.ID,
			ProductID:   o.ProductID,
			Amount:      o.Amount,
			CreatedAt:   o.CreatedAt.UTC(),
			FulfilledAt: o.FulfilledAt,
		})
	}
}

// IntoPostgres inserta el fixture en una sola transacción. Las filas con ID existente se
// conservan (ON CONFLICT DO NOTHING) y las secuencias quedan por encima del mayor ID.
func (f *Fixture) IntoPostgres(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, p := range f.Products {
		var price decimal.NullDecimal
		if p.Price != nil {
			price = decimal.NewNullDecimal(*p.Price)
		}
		batch.Queue(`INSERT INTO product (id_product, name, description, price) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id_product) DO NOTHING`, p.ID, p.Name, p.Description, price)
	}
	for _, w := range f.Warehouses {
		batch.Queue(`INSERT INTO warehouse (id_warehouse, name, address) VALUES ($1, $2, $3)
			ON CONFLICT (id_warehouse) DO NOTHING`, w.ID, w.Name, w.Address)
	}
	for _, o := range f.Orders {
		batch.Queue(`INSERT INTO "order" (id_order, id_product, amount, created_at, fulfilled_at) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id_order) DO NOTHING`, o.ID, o.ProductID, o.Amount, o.CreatedAt, o.FulfilledAt)
	}
	for _, seq := range []struct{ table, column string }{
		{"product", "id_product"}, {"warehouse", "id_warehouse"}, {`"order"`, "id_order"},
	} {
		batch.Queue(fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%[1]s', '%[2]s'), COALESCE((SELECT MAX(%[2]s) FROM %[1]s), 0) + 1, false)`,
			seq.table, seq.column))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insertar seed: %w", err)
	}
	return tx.Commit(ctx)
}
