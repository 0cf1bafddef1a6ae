package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/ferreteria-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeLockNotAvailable     = "55P03"
	codeDeadlockDetected     = "40P01"
	codeSerializationFailure = "40001"
	codeQueryCanceled        = "57014"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// classifyError etiqueta como CONTENTION (reintentable) los errores de bloqueo,
// interbloqueo, serialización y conexión. Los errores de dominio y el resto se devuelven igual.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeLockNotAvailable:
			return domain.Wrap(domain.KindContention, "tiempo de espera de bloqueo agotado", err)
		case codeDeadlockDetected:
			return domain.Wrap(domain.KindContention, "interbloqueo detectado", err)
		case codeSerializationFailure:
			return domain.Wrap(domain.KindContention, "conflicto de serialización", err)
		case codeQueryCanceled:
			return domain.Wrap(domain.KindContention, "consulta cancelada", err)
		}
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Wrap(domain.KindContention, "tiempo de espera agotado", err)
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return domain.Wrap(domain.KindContention, "conexión con la base de datos interrumpida", err)
	}
	return err
}
