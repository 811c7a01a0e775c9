package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/warehouse-intake/internal/domain"
)

// Nombres de constraints definidos en migrations/001_intake_schema.sql.
const (
	constraintIntakeOrder     = "uq_pw_order"
	constraintIntakeProduct   = "fk_pw_product"
	constraintIntakeWarehouse = "fk_pw_warehouse"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// constraintName devuelve el constraint involucrado en el error, si lo hay.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// storeError traduce errores de pgx a la taxonomía de dominio.
// 40001/40P01 -> ErrConcurrentConflict; caídas de conexión, timeouts y servidor no disponible
// -> ErrStoreUnavailable. El resto se devuelve envuelto como error interno.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%s: %w: %w", op, domain.ErrConcurrentConflict, err)
		case "53300", "57P01", "57P02", "57P03": // too_many_connections, admin/crash shutdown, cannot_connect_now
			return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.As(err, &connErr) || errors.As(err, &netErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
