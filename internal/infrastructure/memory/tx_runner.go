package memory

import (
	"context"

	"github.com/jhoicas/warehouse-intake/internal/application/intake"
	"github.com/jhoicas/warehouse-intake/internal/domain/repository"
)

var _ intake.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks sobre una copia del store y la confirma solo si fn no falla.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{store: s}
}

// Run bloquea el store durante toda la transacción (aislamiento serializable).
func (r *TxRunner) Run(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	intakeRepo repository.ProductWarehouseRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx := txAccess{d: r.store.data.clone()}
	if err := fn(&OrderRepo{a: tx}, &ProductWarehouseRepo{a: tx}, &ProductRepo{a: tx}); err != nil {
		return err
	}
	// Commit: si el contexto expiró durante la tx no se confirma nada
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.store.data = tx.d
	return nil
}
