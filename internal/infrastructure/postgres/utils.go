package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Kountade/AFRIKTEXIA/internal/domain"
)

// Querier abstrae pool y tx: ambos exponen Exec/Query/QueryRow con la misma firma.
// Los repositorios aceptan Querier para ser usables dentro y fuera de transacciones.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// mapLockError traduce los errores de contención de PostgreSQL a los
// sentinelas del dominio que el retry del ledger sabe reconocer:
// 55P03 lock_not_available (lock_timeout vencido) y 40001 serialization_failure.
func mapLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03":
			return domain.ErrLockTimeout
		case "40001":
			return domain.ErrConcurrentModification
		}
	}
	return err
}
