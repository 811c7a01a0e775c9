package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-intake/internal/domain"
	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
)

// Store es un store en memoria con las mismas garantías que el adaptador PostgreSQL:
// las transacciones (TxRunner.Run) trabajan sobre una copia y se confirman completas o no se confirman.
// Un único mutex serializa transacciones y lecturas.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

type dataset struct {
	products   map[int64]entity.Product
	warehouses map[int64]entity.Warehouse
	orders     map[int64]entity.Order
	intakes    map[int64]entity.ProductWarehouse
	nextIntake int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: &dataset{
		products:   map[int64]entity.Product{},
		warehouses: map[int64]entity.Warehouse{},
		orders:     map[int64]entity.Order{},
		intakes:    map[int64]entity.ProductWarehouse{},
	}}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		products:   make(map[int64]entity.Product, len(d.products)),
		warehouses: make(map[int64]entity.Warehouse, len(d.warehouses)),
		orders:     make(map[int64]entity.Order, len(d.orders)),
		intakes:    make(map[int64]entity.ProductWarehouse, len(d.intakes)),
		nextIntake: d.nextIntake,
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	for k, v := range d.intakes {
		c.intakes[k] = v
	}
	return c
}

// access abstrae si el acceso al dataset debe tomar el lock (fuera de tx) o no (dentro de tx).
type access interface {
	view(ctx context.Context, fn func(d *dataset) error) error
}

func (s *Store) view(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

type txAccess struct {
	d *dataset
}

func (t txAccess) view(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	return fn(t.d)
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memory store: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// AddProduct registra un producto (seed / tests).
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.products[p.ID] = p
}

// SetProductPrice cambia el precio vigente de un producto.
func (s *Store) SetProductPrice(id int64, price *decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.data.products[id]
	p.ID = id
	p.Price = price
	s.data.products[id] = p
}

// AddWarehouse registra una bodega.
func (s *Store) AddWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.warehouses[w.ID] = w
}

// AddOrder registra una orden.
func (s *Store) AddOrder(o entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.orders[o.ID] = o
}

// Order devuelve una copia de la orden (tests / inspección).
func (s *Store) Order(id int64) (entity.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.data.orders[id]
	return o, ok
}

// Intakes devuelve una copia de todos los ingresos registrados.
func (s *Store) Intakes() []entity.ProductWarehouse {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]entity.ProductWarehouse, 0, len(s.data.intakes))
	for _, in := range s.data.intakes {
		list = append(list, in)
	}
	return list
}
