package intake

import (
	"context"

	"github.com/jhoicas/warehouse-intake/internal/domain/entity"
	"github.com/jhoicas/warehouse-intake/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del store, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ninguna escritura queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		intakeRepo repository.ProductWarehouseRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// EventPublisher publica eventos de ingreso ya confirmados.
type EventPublisher interface {
	PublishIntakeRecorded(ctx context.Context, event entity.IntakeRecorded) error
}
