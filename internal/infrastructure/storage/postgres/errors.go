package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"stockledger/internal/core/apperror"
)

// SQLSTATE codes the ledger cares about.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
	sqlstateUniqueViolation      = "23505"
	sqlstateForeignKeyViolation  = "23503"
)

// mapConflict translates transient serialization failures into the typed
// CONCURRENT_MODIFICATION error the engine retries on. Other errors pass
// through unchanged.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateSerializationFailure, sqlstateDeadlockDetected:
			return apperror.NewConcurrentModification("stock_balance", nil).WithCause(err)
		}
	}
	return err
}

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlstateUniqueViolation
}

// isForeignKeyViolation reports whether err is a foreign key violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlstateForeignKeyViolation
}
