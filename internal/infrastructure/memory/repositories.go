package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-intake/internal/domain"
	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
	"github.com/jhoicas/warehouse-intake/internal/domain/repository"
)

var (
	_ repository.ProductRepository          = (*ProductRepo)(nil)
	_ repository.WarehouseRepository        = (*WarehouseRepo)(nil)
	_ repository.OrderRepository            = (*OrderRepo)(nil)
	_ repository.ProductWarehouseRepository = (*ProductWarehouseRepo)(nil)
)

// ProductRepo lectura de productos en memoria.
type ProductRepo struct{ a access }

// NewProductRepository construye el repositorio sobre el store.
func NewProductRepository(s *Store) *ProductRepo { return &ProductRepo{a: s} }

func (r *ProductRepo) Count(ctx context.Context, id int64) (int, error) {
	n := 0
	err := r.a.view(ctx, func(d *dataset) error {
		if _, ok := d.products[id]; ok {
			n = 1
		}
		return nil
	})
	return n, err
}

func (r *ProductRepo) GetUnitPrice(ctx context.Context, id int64) (*decimal.Decimal, error) {
	var price *decimal.Decimal
	err := r.a.view(ctx, func(d *dataset) error {
		if p, ok := d.products[id]; ok && p.Price != nil {
			v := *p.Price
			price = &v
		}
		return nil
	})
	return price, err
}

// WarehouseRepo lectura de bodegas en memoria.
type WarehouseRepo struct{ a access }

// NewWarehouseRepository construye el repositorio sobre el store.
func NewWarehouseRepository(s *Store) *WarehouseRepo { return &WarehouseRepo{a: s} }

func (r *WarehouseRepo) Count(ctx context.Context, id int64) (int, error) {
	n := 0
	err := r.a.view(ctx, func(d *dataset) error {
		if _, ok := d.warehouses[id]; ok {
			n = 1
		}
		return nil
	})
	return n, err
}

// OrderRepo órdenes en memoria.
type OrderRepo struct{ a access }

// NewOrderRepository construye el repositorio sobre el store.
func NewOrderRepository(s *Store) *OrderRepo { return &OrderRepo{a: s} }

func (r *OrderRepo) FindMatching(ctx context.Context, productID int64, amount int, createdAt time.Time) (*entity.Order, error) {
	var found *entity.Order
	err := r.a.view(ctx, func(d *dataset) error {
		for _, o := range d.orders {
			if o.IsFulfilled() || !o.Matches(productID, amount, createdAt) {
				continue
			}
			if found == nil || o.CreatedAt.Before(found.CreatedAt) ||
				(o.CreatedAt.Equal(found.CreatedAt) && o.ID < found.ID) {
				c := o
				found = &c
			}
		}
		return nil
	})
	return found, err
}

func (r *OrderRepo) CountFulfilledMatching(ctx context.Context, productID int64, amount int, createdAt time.Time) (int, error) {
	n := 0
	err := r.a.view(ctx, func(d *dataset) error {
		for _, o := range d.orders {
			if o.IsFulfilled() && o.Matches(productID, amount, createdAt) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// GetForUpdate dentro de una tx el store ya está bloqueado; fuera de tx equivale a una lectura.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	var found *entity.Order
	err := r.a.view(ctx, func(d *dataset) error {
		if o, ok := d.orders[id]; ok {
			found = &o
		}
		return nil
	})
	return found, err
}

func (r *OrderRepo) SetFulfilled(ctx context.Context, id int64, at time.Time) (bool, error) {
	ok := false
	err := r.a.view(ctx, func(d *dataset) error {
		o, exists := d.orders[id]
		if !exists || o.IsFulfilled() {
			return nil
		}
		if err := o.MarkFulfilled(at); err != nil {
			return err
		}
		d.orders[id] = o
		ok = true
		return nil
	})
	return ok, err
}

// ProductWarehouseRepo ingresos en memoria. Un ingreso por orden (equivalente al UNIQUE de PostgreSQL).
type ProductWarehouseRepo struct{ a access }

// NewProductWarehouseRepository construye el repositorio sobre el store.
func NewProductWarehouseRepository(s *Store) *ProductWarehouseRepo {
	return &ProductWarehouseRepo{a: s}
}

func (r *ProductWarehouseRepo) Create(ctx context.Context, intake *entity.ProductWarehouse) error {
	return r.a.view(ctx, func(d *dataset) error {
		if _, ok := d.products[intake.ProductID]; !ok {
			return domain.ErrProductNotFound
		}
		if _, ok := d.warehouses[intake.WarehouseID]; !ok {
			return domain.ErrWarehouseNotFound
		}
		for _, existing := range d.intakes {
			if existing.OrderID == intake.OrderID {
				return domain.ErrDuplicateIntake
			}
		}
		d.nextIntake++
		intake.ID = d.nextIntake
		d.intakes[intake.ID] = *intake
		return nil
	})
}

func (r *ProductWarehouseRepo) GetByID(ctx context.Context, id int64) (*entity.ProductWarehouse, error) {
	var found *entity.ProductWarehouse
	err := r.a.view(ctx, func(d *dataset) error {
		if in, ok := d.intakes[id]; ok {
			found = &in
		}
		return nil
	})
	return found, err
}

func (r *ProductWarehouseRepo) CountByOrder(ctx context.Context, orderID int64) (int, error) {
	n := 0
	err := r.a.view(ctx, func(d *dataset) error {
		for _, in := range d.intakes {
			if in.OrderID == orderID {
				n++
			}
		}
		return nil
	})
	return n, err
}
