package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Cada uno es un resultado distinto y recuperable del flujo de ingreso a bodega.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrWarehouseNotFound  = errors.New("bodega no encontrada")
	ErrNoMatchingOrder    = errors.New("no existe una orden pendiente que corresponda al ingreso")
	ErrAlreadyFulfilled   = errors.New("la orden ya fue cumplida")
	ErrDuplicateIntake    = errors.New("ya existe un ingreso para la orden")
	ErrPriceNotFound      = errors.New("precio del producto no encontrado")
	ErrConcurrentConflict = errors.New("conflicto con una operación concurrente")
	ErrStoreUnavailable   = errors.New("almacenamiento no disponible")
)

// IsRetryable indica si el llamador puede reintentar la misma solicitud sin cambiarla.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrConcurrentConflict)
}
